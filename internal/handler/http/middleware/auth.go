package middleware

import (
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a live admin session token.
// It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(RequestToken(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// TokenFromQuery reads the session token from the "token" query parameter,
// for resources an <img> tag loads without an Authorization header.
func TokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// RequestToken returns the bearer token, falling back to the query parameter.
func RequestToken(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return TokenFromQuery(r)
}
