package timelog

import "context"

type TimeLogService interface {
	ListLogs(ctx context.Context, req ListTimeLogsRequest) ([]TimeLogResponse, error)
	// DeleteLog requires the admin PIN.
	DeleteLog(ctx context.Context, req DeleteTimeLogRequest) error
	ExportCSV(ctx context.Context, req ListTimeLogsRequest) (ExportFile, error)
	ExportXLSX(ctx context.Context, req ListTimeLogsRequest) (ExportFile, error)
	// Report renders the printable report of the filtered view.
	// It returns ErrNothingToReport when the view is empty.
	Report(ctx context.Context, req ListTimeLogsRequest) (ExportFile, error)
	// EmployeeReport renders one employee's full history, oldest first.
	EmployeeReport(ctx context.Context, req EmployeeReportRequest) (ExportFile, error)
}
