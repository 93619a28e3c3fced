package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
)

type timeLogRepositoryImpl struct {
	db  *sql.DB
	now func() time.Time
}

func NewTimeLogRepository(db *sql.DB) timelog.TimeLogRepository {
	return &timeLogRepositoryImpl{db: db, now: time.Now}
}

const timeLogColumns = `
	id, employee_id, employee_name, timestamp, type, photo_base64, photo_path,
	archive_attempts, is_verified, verification_message, created_at`

// Same columns with the inline photo blanked, for feeds and counts.
const timeLogColumnsNoPhoto = `
	id, employee_id, employee_name, timestamp, type, '' AS photo_base64, photo_path,
	archive_attempts, is_verified, verification_message, created_at`

func scanTimeLog(row rowScanner) (timelog.TimeLog, error) {
	var (
		l                    timelog.TimeLog
		photoPath            sql.NullString
		timestamp, createdAt string
	)

	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.EmployeeName, &timestamp, &l.Type,
		&l.PhotoBase64, &photoPath, &l.ArchiveAttempts, &l.IsVerified, &l.VerificationMessage, &createdAt,
	)
	if err != nil {
		return timelog.TimeLog{}, err
	}

	l.PhotoPath = stringPtr(photoPath)
	if l.Timestamp, err = parseTime(timestamp); err != nil {
		return timelog.TimeLog{}, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return timelog.TimeLog{}, err
	}

	return l, nil
}

func (r *timeLogRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]timelog.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

	if err := rows.Err(); err != nil {
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
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs WHERE employee_id = ? ORDER BY timestamp, id`,
		employeeID,
	)
}

// ListSince implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) ListSince(ctx context.Context, since time.Time) ([]timelog.TimeLog, error) {
	return r.query(ctx,
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs WHERE timestamp >= ? ORDER BY timestamp, id`,
		formatTime(since),
	)
}

// GetByID implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) GetByID(ctx context.Context, id string) (timelog.TimeLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE id = ?`, id)

	l, err := scanTimeLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timelog.TimeLog{}, timelog.ErrTimeLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get time log with id %s: %w", id, err)
	}

	return l, nil
}

// LastByEmployee implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) LastByEmployee(ctx context.Context, employeeID string) (timelog.TimeLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeLogColumnsNoPhoto+` FROM time_logs
		WHERE employee_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1`, employeeID)

	l, err := scanTimeLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timelog.TimeLog{}, timelog.ErrTimeLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get last time log for employee %s: %w", employeeID, err)
	}

	return l, nil
}

// Recent implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Recent(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	return r.query(ctx,
		`SELECT `+timeLogColumnsNoPhoto+` FROM time_logs ORDER BY timestamp DESC, id DESC LIMIT ?`,
		limit,
	)
}

// Count implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_logs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count time logs: %w", err)
	}
	return count, nil
}

// Create implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Create(ctx context.Context, newLog timelog.TimeLog) (timelog.TimeLog, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_logs (
			id, employee_id, employee_name, timestamp, type, photo_base64, photo_path,
			is_verified, verification_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newLog.ID, newLog.EmployeeID, newLog.EmployeeName, formatTime(newLog.Timestamp), string(newLog.Type),
		newLog.PhotoBase64, nullString(newLog.PhotoPath), newLog.IsVerified, newLog.VerificationMessage,
		formatTime(r.now()),
	)
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to create time log: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE id = ?`, newLog.ID)
	created, err := scanTimeLog(row)
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to read back time log: %w", err)
	}

	return created, nil
}

// Delete implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time log with id %s: %w", id, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}

// ListUnarchived implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) ListUnarchived(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	return r.query(ctx, `SELECT `+timeLogColumns+` FROM time_logs
		WHERE photo_path IS NULL AND photo_base64 <> '' AND archive_attempts < ?
		ORDER BY archive_attempts, timestamp, id
		LIMIT ?`, timelog.MaxArchiveAttempts, limit)
}

// SetPhotoPath implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) SetPhotoPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE time_logs SET photo_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("failed to set photo path for time log %s: %w", id, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}

// RecordArchiveFailure implements timelog.TimeLogRepository.
func (r *timeLogRepositoryImpl) RecordArchiveFailure(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE time_logs SET archive_attempts = archive_attempts + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to record archive failure for time log %s: %w", id, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return timelog.ErrTimeLogNotFound
	}

	return nil
}
