package auth

import (
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
)

type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin"`
}

func (r *ChangePINRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "current_pin",
			Message: "current_pin is required",
		})
	}

	if !validator.IsValidPIN(r.NewPIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_pin",
			Message: "new PIN must have exactly 4 numeric digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
