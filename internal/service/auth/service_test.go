package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
	"github.com/gilponto/ponto-backend-go/internal/repository/sqlite"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	settingsRepo := sqlite.NewSettingsRepository(db)

	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	svc := NewAuthService(settingsRepo, jwtService)
	require.NoError(t, svc.SeedAdminPIN(ctx, "9999"))
	return svc, jwtService
}

func TestAuthService_ConfirmPIN(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	assert.NoError(t, svc.ConfirmPIN(ctx, "9999"))
	assert.ErrorIs(t, svc.ConfirmPIN(ctx, "1234"), auth.ErrInvalidPIN)
	assert.ErrorIs(t, svc.ConfirmPIN(ctx, ""), auth.ErrInvalidPIN)
}

func TestAuthService_OpenSession(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, "9999")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.NotZero(t, session.ExpiresAt)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), session.AccessToken)
	require.NoError(t, err)
	role, _ := token.Get("role")
	assert.Equal(t, jwt.RoleAdmin, role)

	_, err = svc.OpenSession(ctx, "0000")
	assert.ErrorIs(t, err, auth.ErrInvalidPIN)
}

func TestAuthService_CloseSession(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, "9999")
	require.NoError(t, err)

	require.NoError(t, svc.CloseSession(ctx, session.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(session.AccessToken))

	assert.ErrorIs(t, svc.CloseSession(ctx, ""), auth.ErrInvalidToken)
}

func TestAuthService_ChangePIN(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	t.Run("wrong current PIN", func(t *testing.T) {
		err := svc.ChangePIN(ctx, auth.ChangePINRequest{CurrentPIN: "1111", NewPIN: "2222"})
		assert.ErrorIs(t, err, auth.ErrInvalidPIN)
	})

	t.Run("new PIN must be 4 digits", func(t *testing.T) {
		for _, pin := range []string{"123", "12345", "12a4", ""} {
			err := svc.ChangePIN(ctx, auth.ChangePINRequest{CurrentPIN: "9999", NewPIN: pin})
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs, pin)
		}
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.ChangePIN(ctx, auth.ChangePINRequest{CurrentPIN: "9999", NewPIN: "4321"}))
		assert.NoError(t, svc.ConfirmPIN(ctx, "4321"))
		assert.ErrorIs(t, svc.ConfirmPIN(ctx, "9999"), auth.ErrInvalidPIN)
	})
}

func TestAuthService_StreamToken(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.StreamToken(ctx)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	session, err := svc.OpenSession(ctx, "9999")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), session.AccessToken)
	require.NoError(t, err)

	resp, err := svc.StreamToken(jwtauth.NewContext(ctx, token, nil))
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	sid, err := jwtService.ValidateStreamToken(resp.Token)
	require.NoError(t, err)
	want, _ := token.Get("sid")
	assert.Equal(t, want, sid)
}

func TestAuthService_SeedAdminPIN(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	settingsRepo := sqlite.NewSettingsRepository(db)
	svc := NewAuthService(settingsRepo, jwt.NewJWTService(testSecret, testAccessExp))

	require.NoError(t, svc.SeedAdminPIN(ctx, "9999"))
	require.NoError(t, svc.SeedAdminPIN(ctx, "0000"))

	stored, err := settingsRepo.GetAdminPIN(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "9999", stored, "the PIN is stored hashed")
	assert.NoError(t, svc.ConfirmPIN(ctx, "9999"))
	assert.ErrorIs(t, svc.ConfirmPIN(ctx, "0000"), auth.ErrInvalidPIN)
}

func TestAuthService_ConfirmPIN_PlainStoredPIN(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "plain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	settingsRepo := sqlite.NewSettingsRepository(db)
	require.NoError(t, settingsRepo.EnsureAdminPIN(ctx, "9999"))
	svc := NewAuthService(settingsRepo, jwt.NewJWTService(testSecret, testAccessExp))

	assert.NoError(t, svc.ConfirmPIN(ctx, "9999"))
	assert.ErrorIs(t, svc.ConfirmPIN(ctx, "9998"), auth.ErrInvalidPIN)

	require.NoError(t, svc.ChangePIN(ctx, auth.ChangePINRequest{CurrentPIN: "9999", NewPIN: "1357"}))
	assert.NoError(t, svc.ConfirmPIN(ctx, "1357"))
}
