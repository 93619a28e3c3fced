package timelog

import (
	"context"
	"time"
)

// TimeLogRepository is the time_logs collection of the record store.
// Every list is ordered by timestamp ascending.
type TimeLogRepository interface {
	List(ctx context.Context) ([]TimeLog, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]TimeLog, error)
	GetByID(ctx context.Context, id string) (TimeLog, error)
	// ListSince returns logs at or after since, photos omitted.
	ListSince(ctx context.Context, since time.Time) ([]TimeLog, error)
	// LastByEmployee returns ErrTimeLogNotFound when the employee has no logs.
	LastByEmployee(ctx context.Context, employeeID string) (TimeLog, error)
	// Recent returns the newest logs first, photos omitted.
	Recent(ctx context.Context, limit int) ([]TimeLog, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, newLog TimeLog) (TimeLog, error)
	Delete(ctx context.Context, id string) error
	// ListUnarchived returns up to limit logs that carry an inline photo but
	// no archived copy and have failed fewer than MaxArchiveAttempts times.
	// Least-attempted logs come first, then oldest.
	ListUnarchived(ctx context.Context, limit int) ([]TimeLog, error)
	SetPhotoPath(ctx context.Context, id, path string) error
	// RecordArchiveFailure counts one failed archive attempt for the log.
	RecordArchiveFailure(ctx context.Context, id string) error
}

// MaxArchiveAttempts bounds how often a snapshot upload is retried.
const MaxArchiveAttempts = 5
