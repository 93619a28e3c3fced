package auth

import "context"

// SettingsRepository stores the kiosk-wide settings row. The admin PIN is
// kept as an opaque credential (a bcrypt hash); the repository never
// interprets it.
type SettingsRepository interface {
	// EnsureAdminPIN seeds the credential when no settings row exists yet.
	EnsureAdminPIN(ctx context.Context, credential string) error
	// GetAdminPIN returns ErrSettingsNotFound before the row is seeded.
	GetAdminPIN(ctx context.Context) (string, error)
	// ChangeAdminPIN replaces the credential only if it still equals current,
	// returning ErrInvalidPIN otherwise.
	ChangeAdminPIN(ctx context.Context, current, next string) error
}
