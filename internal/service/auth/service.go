package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	settingsRepo auth.SettingsRepository
	jwt.Service
}

func NewAuthService(settingsRepo auth.SettingsRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		settingsRepo: settingsRepo,
		Service:      jwtService,
	}
}

// SeedAdminPIN implements auth.AuthService.
func (a *AuthServiceImpl) SeedAdminPIN(ctx context.Context, defaultPIN string) error {
	hash, err := hashPIN(defaultPIN)
	if err != nil {
		return err
	}
	return a.settingsRepo.EnsureAdminPIN(ctx, hash)
}

// ConfirmPIN implements auth.AuthService.
func (a *AuthServiceImpl) ConfirmPIN(ctx context.Context, pin string) error {
	_, err := a.confirmPIN(ctx, pin)
	return err
}

// confirmPIN checks pin and returns the stored credential it matched.
func (a *AuthServiceImpl) confirmPIN(ctx context.Context, pin string) (string, error) {
	if pin == "" {
		return "", auth.ErrInvalidPIN
	}

	stored, err := a.settingsRepo.GetAdminPIN(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load admin PIN: %w", err)
	}

	if !matchPIN(stored, pin) {
		return "", auth.ErrInvalidPIN
	}
	return stored, nil
}

func hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin PIN: %w", err)
	}
	return string(hash), nil
}

// matchPIN accepts a bcrypt hash, or a plain PIN stored before hashing was introduced.
func matchPIN(stored, pin string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin))
	if errors.Is(err, bcrypt.ErrHashTooShort) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) == 1
	}
	return err == nil
}

// OpenSession implements auth.AuthService.
func (a *AuthServiceImpl) OpenSession(ctx context.Context, pin string) (auth.SessionResponse, error) {
	if err := a.ConfirmPIN(ctx, pin); err != nil {
		return auth.SessionResponse{}, err
	}

	token, expiresAt, err := a.GenerateAdminToken()
	if err != nil {
		return auth.SessionResponse{}, fmt.Errorf("failed to generate admin token: %w", err)
	}

	return auth.SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// CloseSession implements auth.AuthService.
func (a *AuthServiceImpl) CloseSession(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.RevokeToken(token)
	return nil
}

// ChangePIN implements auth.AuthService.
func (a *AuthServiceImpl) ChangePIN(ctx context.Context, req auth.ChangePINRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	stored, err := a.confirmPIN(ctx, req.CurrentPIN)
	if err != nil {
		return err
	}

	next, err := hashPIN(req.NewPIN)
	if err != nil {
		return err
	}

	// Fails with ErrInvalidPIN if another session changed the PIN meanwhile.
	if err := a.settingsRepo.ChangeAdminPIN(ctx, stored, next); err != nil {
		if errors.Is(err, auth.ErrInvalidPIN) {
			return err
		}
		return fmt.Errorf("failed to change admin PIN: %w", err)
	}

	slog.Info("admin PIN changed")
	return nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.StreamTokenResponse{}, auth.ErrInvalidToken
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return auth.StreamTokenResponse{}, auth.ErrInvalidToken
	}

	token, expiresIn, err := a.GenerateStreamToken(sessionID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}

	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
