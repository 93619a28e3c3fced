package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeLogRepositoryImpl struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) timelog.TimeLogRepository {
	return &timeLogRepositoryImpl{db: db}
}

const timeLogColumns = `
	id, employee_id, employee_name, timestamp, type, photo_base64, photo_path,
	archive_attempts, is_verified, verification_message, created_at`

// Same columns with the inline photo blanked, for feeds and counts.
const timeLogColumnsNoPhoto = `
	id, employee_id, employee_name, timestamp, type, '' AS photo_base64, photo_path,
	archive_attempts, is_verified, verification_message, created_at`

func scanTimeLog(row pgx.Row) (timelog.TimeLog, error) {
	var l timelog.TimeLog
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.EmployeeName, &l.Timestamp, &l.Type,
		&l.PhotoBase64, &l.PhotoPath, &l.ArchiveAttempts, &l.IsVerified, &l.VerificationMessage, &l.CreatedAt,
	)
	return l, err
}

func (r *timeLogRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	logs := []timelog.TimeLog{}
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// List implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) List(ctx context.Context) ([]timelog.TimeLog, error) {
	return r.query(ctx, `SELECT `+timeLogColumns+` FROM time_logs ORDER BY timestamp, id`)
}

// ListByEmployee implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timelog.TimeLog, error) {
	return r.query(ctx,
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs WHERE employee_id = $1 ORDER BY timestamp, id`,
		employeeID,
	)
}

// ListSince implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) ListSince(ctx context.Context, since time.Time) ([]timelog.TimeLog, error) {
	return r.query(ctx,
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs WHERE timestamp >= $1 ORDER BY timestamp, id`,
		since,
	)
}

// GetByID implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) GetByID(ctx context.Context, id string) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanTimeLog(q.QueryRow(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timelog.TimeLog{}, timelog.ErrTimeLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get time log with id %s: %w", id, err)
	}

	return l, nil
}

// LastByEmployee implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) LastByEmployee(ctx context.Context, employeeID string) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeLogColumnsNoPhoto + ` FROM time_logs
		WHERE employee_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT 1`

	l, err := scanTimeLog(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timelog.TimeLog{}, timelog.ErrTimeLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get last time log for employee %s: %w", employeeID, err)
	}

	return l, nil
}

// Recent implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Recent(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	return r.query(ctx,
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs ORDER BY timestamp DESC, id DESC LIMIT $1`,
		limit,
	)
}

// Count implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM time_logs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count time logs: %w", err)
	}
	return count, nil
}

// Create implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Create(ctx context.Context, newLog timelog.TimeLog) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_logs (
			id, employee_id, employee_name, timestamp, type, photo_base64, photo_path,
			is_verified, verification_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + timeLogColumns

	created, err := scanTimeLog(q.QueryRow(ctx, query,
		newLog.ID, newLog.EmployeeID, newLog.EmployeeName, newLog.Timestamp, newLog.Type,
		newLog.PhotoBase64, newLog.PhotoPath, newLog.IsVerified, newLog.VerificationMessage,
	))
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to create time log: %w", err)
	}

	return created, nil
}

// Delete implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM time_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time log with id %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}

// ListUnarchived implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) ListUnarchived(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	return r.query(ctx, `SELECT `+timeLogColumns+` FROM time_logs
		WHERE photo_path IS NULL AND photo_base64 <> '' AND archive_attempts < $1
		ORDER BY archive_attempts, timestamp, id
		LIMIT $2`, timelog.MaxArchiveAttempts, limit)
}

// SetPhotoPath implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) SetPhotoPath(ctx context.Context, id, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE time_logs SET photo_path = $1 WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("failed to set photo path for time log %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}

// RecordArchiveFailure implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) RecordArchiveFailure(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE time_logs SET archive_attempts = archive_attempts + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to record archive failure for time log %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}
