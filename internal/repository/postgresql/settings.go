package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const adminPINKey = "admin_pin"

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) auth.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// EnsureAdminPIN implements auth.SettingsRepository.
func (r *settingsRepositoryImpl) EnsureAdminPIN(ctx context.Context, credential string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		adminPINKey, credential,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin PIN: %w", err)
	}
	return nil
}

// GetAdminPIN implements auth.SettingsRepository.
func (r *settingsRepositoryImpl) GetAdminPIN(ctx context.Context) (string, error) {
	q := GetQuerier(ctx, r.db)

	var pin string
	err := q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, adminPINKey).Scan(&pin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrSettingsNotFound
		}
		return "", fmt.Errorf("failed to get admin PIN: %w", err)
	}
	return pin, nil
}

// ChangeAdminPIN implements auth.SettingsRepository.
func (r *settingsRepositoryImpl) ChangeAdminPIN(ctx context.Context, current, next string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var pin string
		err := q.QueryRow(ctx,
			`SELECT value FROM settings WHERE key = $1 FOR UPDATE`, adminPINKey,
		).Scan(&pin)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return auth.ErrSettingsNotFound
			}
			return fmt.Errorf("failed to lock admin PIN: %w", err)
		}

		if pin != current {
			return auth.ErrInvalidPIN
		}

		_, err = q.Exec(ctx,
			`UPDATE settings SET value = $2, updated_at = NOW() WHERE key = $1`,
			adminPINKey, next,
		)
		if err != nil {
			return fmt.Errorf("failed to update admin PIN: %w", err)
		}
		return nil
	})
}
