package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
	ChangePIN(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Logout implements AuthHandler. The bearer token is revoked so the
// admin panel locks again.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	err := a.authService.CloseSession(r.Context(), jwtauth.TokenFromHeader(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// ChangePIN implements AuthHandler.
func (a *AuthHandlerImpl) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req auth.ChangePINRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ChangePIN decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := a.authService.ChangePIN(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Admin PIN updated successfully", nil)
}

// StreamToken implements AuthHandler.
func (a *AuthHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.StreamToken(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
