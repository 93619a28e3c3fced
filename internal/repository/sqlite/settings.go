package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
)

const adminPINKey = "admin_pin"

type settingsRepositoryImpl struct {
	db  *sql.DB
	now func() time.Time
}

func NewSettingsRepository(db *sql.DB) auth.SettingsRepository {
	return &settingsRepositoryImpl{db: db, now: time.Now}
}

// EnsureAdminPIN implements auth.SettingsRepository.
func (r *settingsRepositoryImpl) EnsureAdminPIN(ctx context.Context, credential string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
		adminPINKey, credential, formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin PIN: %w", err)
	}
	return nil
}

// GetAdminPIN implements auth.SettingsRepository.
func (r *settingsRepositoryImpl) GetAdminPIN(ctx context.Context) (string, error) {
	var pin string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, adminPINKey).Scan(&pin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", auth.ErrSettingsNotFound
		}
		return "", fmt.Errorf("failed to get admin PIN: %w", err)
	}
	return pin, nil
}

// ChangeAdminPIN implements auth.SettingsRepository. The compare and the
// write happen in one statement.
func (r *settingsRepositoryImpl) ChangeAdminPIN(ctx context.Context, current, next string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settings SET value = ?, updated_at = ? WHERE key = ? AND value = ?`,
		next, formatTime(r.now()), adminPINKey, current,
	)
	if err != nil {
		return fmt.Errorf("failed to update admin PIN: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetAdminPIN(ctx); err != nil {
			return err
		}
		return auth.ErrInvalidPIN
	}
	return nil
}
