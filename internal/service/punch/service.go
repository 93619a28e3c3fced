package punch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/punch"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/domain/verification"
	"github.com/gilponto/ponto-backend-go/internal/pkg/notify"
	"github.com/gilponto/ponto-backend-go/internal/pkg/sse"
	"github.com/gilponto/ponto-backend-go/internal/pkg/workerpool"
	"github.com/gilponto/ponto-backend-go/internal/service/file"
	"github.com/google/uuid"
)

const EventPunch = "punch"

const archiveTimeout = 30 * time.Second

// Options carries the optional collaborators of the punch flow. Any may be nil.
type Options struct {
	Verifier    verification.Verifier
	FileService file.FileService
	Hub         *sse.Hub
	Notifier    notify.Notifier
	Pool        *workerpool.WorkerPool
	Location    *time.Location
}

type PunchServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	timeLogRepo  timelog.TimeLogRepository
	authService  auth.AuthService
	opts         Options

	// mu serializes the last-log lookup and the insert.
	mu    sync.Mutex
	now   func() time.Time
	newID func() (string, error)
}

func NewPunchService(
	employeeRepo employee.EmployeeRepository,
	timeLogRepo timelog.TimeLogRepository,
	authService auth.AuthService,
	opts Options,
) punch.PunchService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &PunchServiceImpl{
		employeeRepo: employeeRepo,
		timeLogRepo:  timeLogRepo,
		authService:  authService,
		opts:         opts,
		now:          time.Now,
		newID:        newLogID,
	}
}

func newLogID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Identify implements punch.PunchService.
func (s *PunchServiceImpl) Identify(ctx context.Context, req punch.IdentifyRequest) (punch.IdentifyResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.IdentifyResponse{}, err
	}

	session, err := s.authService.OpenSession(ctx, req.Code)
	switch {
	case err == nil:
		slog.Info("admin session opened from kiosk")
		return punch.IdentifyResponse{
			Kind:        punch.IdentityAdmin,
			AccessToken: session.AccessToken,
			ExpiresAt:   session.ExpiresAt,
		}, nil
	case !errors.Is(err, auth.ErrInvalidPIN):
		return punch.IdentifyResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, req.Code)
	if err != nil {
		return punch.IdentifyResponse{}, err
	}

	last, err := s.lastLog(ctx, e.ID)
	if err != nil {
		return punch.IdentifyResponse{}, err
	}

	return punch.IdentifyResponse{
		Kind:         punch.IdentityEmployee,
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		NextType:     timelog.NextPunchType(last),
	}, nil
}

func (s *PunchServiceImpl) lastLog(ctx context.Context, employeeID string) (*timelog.TimeLog, error) {
	last, err := s.timeLogRepo.LastByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, timelog.ErrTimeLogNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last time log: %w", err)
	}
	return &last, nil
}

// Punch implements punch.PunchService.
func (s *PunchServiceImpl) Punch(ctx context.Context, req punch.PunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	result, err := verification.VerifyOrFallback(ctx, s.opts.Verifier, req.Photo, e.Name)
	if err != nil && !errors.Is(err, verification.ErrVerifierDisabled) {
		slog.Warn("face verification failed, using offline greeting", "employee_id", e.ID, "error", err)
	}

	created, err := s.record(ctx, e, req.Photo, result)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	slog.Info("punch registered",
		"log_id", created.ID,
		"employee_id", created.EmployeeID,
		"type", created.Type,
		"verified", created.IsVerified,
	)

	s.announce(created)
	s.archive(created)

	logResp := timelog.NewTimeLogResponse(created)
	logResp.PhotoBase64 = ""
	return punch.PunchResponse{
		Log:      logResp,
		Greeting: punch.NewGreeting(created.Type, created.VerificationMessage),
	}, nil
}

// record stores the next log of e. The type depends on the previous log, so
// lookup and insert run under s.mu.
func (s *PunchServiceImpl) record(ctx context.Context, e employee.Employee, photo string, result verification.Result) (timelog.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.lastLog(ctx, e.ID)
	if err != nil {
		return timelog.TimeLog{}, err
	}

	id, err := s.newID()
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to generate log id: %w", err)
	}

	created, err := s.timeLogRepo.Create(ctx, timelog.TimeLog{
		ID:                  id,
		EmployeeID:          e.ID,
		EmployeeName:        e.Name,
		Timestamp:           s.now().UTC(),
		Type:                timelog.NextPunchType(last),
		PhotoBase64:         photo,
		IsVerified:          result.FaceDetected,
		VerificationMessage: result.Message,
	})
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to store time log: %w", err)
	}
	if created.PhotoBase64 == "" {
		created.PhotoBase64 = photo
	}

	return created, nil
}

// archive queues the snapshot upload. A failed upload is counted on the log
// and picked up again by the archive job.
func (s *PunchServiceImpl) archive(l timelog.TimeLog) {
	if s.opts.FileService == nil || s.opts.Pool == nil {
		return
	}
	err := s.opts.Pool.Submit(workerpool.Task{
		Name: "archive punch photo",
		Fn: func(ctx context.Context) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
			defer cancel()

			path, err := s.opts.FileService.UploadPunchPhoto(ctx, l)
			if err != nil {
				if recErr := s.timeLogRepo.RecordArchiveFailure(ctx, l.ID); recErr != nil && !errors.Is(recErr, timelog.ErrTimeLogNotFound) {
					slog.Warn("failed to record archive failure", "log_id", l.ID, "error", recErr)
				}
				return nil, fmt.Errorf("failed to archive photo of log %s: %w", l.ID, err)
			}

			if err := s.timeLogRepo.SetPhotoPath(ctx, l.ID, path); err != nil {
				// The log was deleted while uploading.
				if errors.Is(err, timelog.ErrTimeLogNotFound) {
					if delErr := s.opts.FileService.DeleteFile(ctx, path); delErr != nil {
						slog.Warn("failed to remove orphaned punch photo", "path", path, "error", delErr)
					}
					return nil, nil
				}
				return nil, err
			}
			return path, nil
		},
	})
	if err != nil {
		slog.Warn("punch photo archive deferred to the archive job", "log_id", l.ID, "error", err)
	}
}

// announce publishes the punch to live screens and the chat channel.
// Neither can fail the punch.
func (s *PunchServiceImpl) announce(l timelog.TimeLog) {
	if s.opts.Hub != nil {
		event := timelog.NewTimeLogResponse(l)
		event.PhotoBase64 = ""
		s.opts.Hub.Publish(sse.Event{Event: EventPunch, Data: event})
	}

	if s.opts.Notifier == nil || s.opts.Pool == nil {
		return
	}
	message := notificationText(l, s.opts.Location)
	err := s.opts.Pool.Submit(workerpool.Task{
		Name: "notify punch",
		Fn: func(ctx context.Context) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return nil, s.opts.Notifier.Notify(ctx, message)
		},
	})
	if err != nil {
		slog.Warn("punch notification dropped", "log_id", l.ID, "error", err)
	}
}

func notificationText(l timelog.TimeLog, loc *time.Location) string {
	kind := "entrada"
	if l.Type == timelog.PunchOut {
		kind = "saída"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) registrou %s às %s", l.EmployeeName, l.EmployeeID, kind, l.Timestamp.In(loc).Format("15:04 de 02/01/2006"))
	if !l.IsVerified {
		b.WriteString(" (rosto não detectado)")
	}
	return b.String()
}

// Recent implements punch.PunchService.
func (s *PunchServiceImpl) Recent(ctx context.Context, req punch.RecentRequest) ([]timelog.TimeLogResponse, error) {
	req.Normalize()

	logs, err := s.timeLogRepo.Recent(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent time logs: %w", err)
	}

	responses := make([]timelog.TimeLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, timelog.NewTimeLogResponse(l))
	}
	return responses, nil
}
