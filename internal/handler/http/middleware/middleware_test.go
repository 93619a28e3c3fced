package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(jwtService jwt.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verify(jwtService.JWTAuth(), jwtauth.TokenFromHeader, TokenFromQuery))
	r.Use(AuthRequired(jwtService))
	r.Use(AdminOnly)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func serve(h http.Handler, target, token string) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", "1h")
	h := protected(jwtService)

	token, _, err := jwtService.GenerateAdminToken()
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, serve(h, "/", token))
	assert.Equal(t, http.StatusNoContent, serve(h, "/?token="+token, ""))
	assert.Equal(t, http.StatusUnauthorized, serve(h, "/", ""))

	stream, _, err := jwtService.GenerateStreamToken("sid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "/", stream))

	jwtService.RevokeToken(token)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "/", token))
	assert.Equal(t, http.StatusUnauthorized, serve(h, "/?token="+token, ""))
}

func TestAdminOnly(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", "1h")
	h := protected(jwtService)

	_, token, err := jwtService.JWTAuth().Encode(map[string]interface{}{
		"role": "viewer",
		"type": jwt.TokenTypeAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(h, "/", token))
}

func TestRequestToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
	assert.Equal(t, "query", RequestToken(req))

	req.Header.Set("Authorization", "Bearer header")
	assert.Equal(t, "header", RequestToken(req))
}
