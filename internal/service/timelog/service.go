package timelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/service/file"
)

const photoURLExpiry = 15 * time.Minute

type TimeLogServiceImpl struct {
	timeLogRepo  timelog.TimeLogRepository
	employeeRepo employee.EmployeeRepository
	authService  auth.AuthService
	fileService  file.FileService // nil when snapshots are not archived
	loc          *time.Location
	now          func() time.Time
}

func NewTimeLogService(
	timeLogRepo timelog.TimeLogRepository,
	employeeRepo employee.EmployeeRepository,
	authService auth.AuthService,
	fileService file.FileService,
	loc *time.Location,
) timelog.TimeLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeLogServiceImpl{
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		authService:  authService,
		fileService:  fileService,
		loc:          loc,
		now:          time.Now,
	}
}

// filtered loads every log and applies the request's filter in the viewer's zone.
func (s *TimeLogServiceImpl) filtered(ctx context.Context, req *timelog.ListTimeLogsRequest) ([]timelog.TimeLog, *time.Location, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	logs, err := s.timeLogRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list time logs: %w", err)
	}

	loc := req.Location(s.loc)
	return req.Filter().Apply(logs, loc), loc, nil
}

// ListLogs implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) ListLogs(ctx context.Context, req timelog.ListTimeLogsRequest) ([]timelog.TimeLogResponse, error) {
	logs, _, err := s.filtered(ctx, &req)
	if err != nil {
		return nil, err
	}

	responses := make([]timelog.TimeLogResponse, 0, len(logs))
	for _, l := range logs {
		resp := timelog.NewTimeLogResponse(l)
		resp.PhotoURL = s.photoURL(ctx, l)
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *TimeLogServiceImpl) photoURL(ctx context.Context, l timelog.TimeLog) string {
	if s.fileService == nil || l.PhotoPath == nil {
		return ""
	}
	url, err := s.fileService.GetFileURL(ctx, *l.PhotoPath, photoURLExpiry)
	if err != nil {
		slog.Warn("failed to resolve photo url", "log_id", l.ID, "error", err)
		return ""
	}
	return url
}

// DeleteLog implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) DeleteLog(ctx context.Context, req timelog.DeleteTimeLogRequest) error {
	if err := s.authService.ConfirmPIN(ctx, req.PIN); err != nil {
		return err
	}

	l, err := s.timeLogRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, timelog.ErrTimeLogNotFound) {
			return err
		}
		return fmt.Errorf("failed to get time log: %w", err)
	}

	if err := s.timeLogRepo.Delete(ctx, l.ID); err != nil {
		if errors.Is(err, timelog.ErrTimeLogNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete time log: %w", err)
	}

	if s.fileService != nil && l.PhotoPath != nil {
		if err := s.fileService.DeleteFile(ctx, *l.PhotoPath); err != nil {
			slog.Warn("failed to delete archived photo", "log_id", l.ID, "path", *l.PhotoPath, "error", err)
		}
	}

	slog.Info("time log deleted", "log_id", l.ID, "employee_id", l.EmployeeID)
	return nil
}

// ExportCSV implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) ExportCSV(ctx context.Context, req timelog.ListTimeLogsRequest) (timelog.ExportFile, error) {
	logs, loc, err := s.filtered(ctx, &req)
	if err != nil {
		return timelog.ExportFile{}, err
	}

	data, err := renderCSV(logs, loc)
	if err != nil {
		return timelog.ExportFile{}, fmt.Errorf("failed to render csv: %w", err)
	}

	return timelog.ExportFile{
		Filename:    exportFilename(s.now(), "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ExportXLSX implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) ExportXLSX(ctx context.Context, req timelog.ListTimeLogsRequest) (timelog.ExportFile, error) {
	logs, loc, err := s.filtered(ctx, &req)
	if err != nil {
		return timelog.ExportFile{}, err
	}

	data, err := renderXLSX(logs, loc)
	if err != nil {
		return timelog.ExportFile{}, fmt.Errorf("failed to render xlsx: %w", err)
	}

	return timelog.ExportFile{
		Filename:    exportFilename(s.now(), "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// Report implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) Report(ctx context.Context, req timelog.ListTimeLogsRequest) (timelog.ExportFile, error) {
	logs, loc, err := s.filtered(ctx, &req)
	if err != nil {
		return timelog.ExportFile{}, err
	}
	if len(logs) == 0 {
		return timelog.ExportFile{}, timelog.ErrNothingToReport
	}

	f := req.Filter()
	data, err := renderReport(reportPage{
		Title:       "Relatório de Registros de Ponto",
		Subtitle:    f.PeriodLabel() + " | Status: " + f.StatusLabel(),
		Logs:        logs,
		GeneratedAt: s.now(),
	}, loc)
	if err != nil {
		return timelog.ExportFile{}, fmt.Errorf("failed to render report: %w", err)
	}

	return timelog.ExportFile{
		Filename:    fmt.Sprintf("relatorio_%s.html", s.now().In(loc).Format(time.DateOnly)),
		ContentType: "text/html; charset=utf-8",
		Data:        data,
	}, nil
}

// EmployeeReport implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) EmployeeReport(ctx context.Context, req timelog.EmployeeReportRequest) (timelog.ExportFile, error) {
	e, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return timelog.ExportFile{}, err
	}

	logs, err := s.timeLogRepo.ListByEmployee(ctx, e.ID)
	if err != nil {
		return timelog.ExportFile{}, fmt.Errorf("failed to list time logs: %w", err)
	}

	loc := req.Location(s.loc)
	data, err := renderReport(reportPage{
		Title:       "Relatório Individual",
		Subtitle:    fmt.Sprintf("Funcionário: %s (%s)", e.Name, e.ID),
		Logs:        logs,
		GeneratedAt: s.now(),
	}, loc)
	if err != nil {
		return timelog.ExportFile{}, fmt.Errorf("failed to render report: %w", err)
	}

	return timelog.ExportFile{
		Filename:    fmt.Sprintf("relatorio_%s_%s.html", e.ID, s.now().In(loc).Format(time.DateOnly)),
		ContentType: "text/html; charset=utf-8",
		Data:        data,
	}, nil
}

// exportFilename follows pontos_<YYYY-MM-DD>.<ext>, dated in UTC.
func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("pontos_%s.%s", now.UTC().Format(time.DateOnly), ext)
}
