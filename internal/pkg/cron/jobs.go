package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/gilponto/ponto-backend-go/internal/service/file"
)

const archiveBatchSize = 50

// PhotoArchiveJobs retries archiving snapshots whose upload failed at punch time.
type PhotoArchiveJobs struct {
	timeLogRepo timelog.TimeLogRepository
	fileService file.FileService
}

func NewPhotoArchiveJobs(timeLogRepo timelog.TimeLogRepository, fileService file.FileService) *PhotoArchiveJobs {
	return &PhotoArchiveJobs{
		timeLogRepo: timeLogRepo,
		fileService: fileService,
	}
}

func (j *PhotoArchiveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_pending_photos", 15*time.Minute, j.ArchivePendingPhotos)
}

// ArchivePendingPhotos uploads one batch of unarchived snapshots. A failed
// upload is counted against the log, which drops out of the queue after
// timelog.MaxArchiveAttempts failures.
func (j *PhotoArchiveJobs) ArchivePendingPhotos(ctx context.Context) error {
	pending, err := j.timeLogRepo.ListUnarchived(ctx, archiveBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list unarchived logs: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	archived := 0
	for _, l := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path, err := j.fileService.UploadPunchPhoto(ctx, l)
		if err != nil {
			slog.Warn("Cron: failed to archive punch photo", "log_id", l.ID, "attempt", l.ArchiveAttempts+1, "error", err)
			if err := j.timeLogRepo.RecordArchiveFailure(ctx, l.ID); err != nil && !errors.Is(err, timelog.ErrTimeLogNotFound) {
				return fmt.Errorf("failed to record archive failure for log %s: %w", l.ID, err)
			}
			continue
		}

		if err := j.timeLogRepo.SetPhotoPath(ctx, l.ID, path); err != nil {
			// The log was deleted while uploading.
			if errors.Is(err, timelog.ErrTimeLogNotFound) {
				_ = j.fileService.DeleteFile(ctx, path)
				continue
			}
			return fmt.Errorf("failed to record photo path for log %s: %w", l.ID, err)
		}
		archived++
	}

	slog.Info("Cron: archived pending punch photos", "archived", archived, "pending", len(pending))
	return nil
}

// SessionJobs keeps the admin session revocation list bounded.
type SessionJobs struct {
	jwtService jwt.Service
}

func NewSessionJobs(jwtService jwt.Service) *SessionJobs {
	return &SessionJobs{jwtService: jwtService}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_revoked_sessions", time.Hour, j.PruneRevokedSessions)
}

func (j *SessionJobs) PruneRevokedSessions(ctx context.Context) error {
	if pruned := j.jwtService.PruneRevokedTokens(); pruned > 0 {
		slog.Info("Cron: pruned revoked admin sessions", "count", pruned)
	}
	return nil
}
