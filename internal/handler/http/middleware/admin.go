package middleware

import (
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if role != jwt.RoleAdmin || !ok {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
