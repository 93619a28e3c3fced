package auth

import (
	"context"
)

type AuthService interface {
	// SeedAdminPIN stores defaultPIN unless an admin PIN already exists.
	SeedAdminPIN(ctx context.Context, defaultPIN string) error
	// ConfirmPIN returns ErrInvalidPIN unless pin is the current admin PIN.
	ConfirmPIN(ctx context.Context, pin string) error
	// OpenSession confirms pin and issues an admin session token.
	OpenSession(ctx context.Context, pin string) (SessionResponse, error)
	CloseSession(ctx context.Context, token string) error
	ChangePIN(ctx context.Context, req ChangePINRequest) error
	StreamToken(ctx context.Context) (StreamTokenResponse, error)
}
