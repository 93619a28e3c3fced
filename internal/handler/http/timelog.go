package http

import (
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimeLogHandler interface {
	ListLogs(w http.ResponseWriter, r *http.Request)
	DeleteLog(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	EmployeeReport(w http.ResponseWriter, r *http.Request)
}

type timeLogHandlerImpl struct {
	timeLogService timelog.TimeLogService
}

func NewTimeLogHandler(timeLogService timelog.TimeLogService) TimeLogHandler {
	return &timeLogHandlerImpl{
		timeLogService: timeLogService,
	}
}

// listRequestFromQuery reads the log view filter from the query string.
func listRequestFromQuery(r *http.Request) timelog.ListTimeLogsRequest {
	q := r.URL.Query()
	return timelog.ListTimeLogsRequest{
		Search:    q.Get("search"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Verified:  q.Get("verified"),
		Timezone:  q.Get("tz"),
	}
}

// ListLogs implements TimeLogHandler
func (h *timeLogHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeLogService.ListLogs(r.Context(), listRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// DeleteLog implements TimeLogHandler
func (h *timeLogHandlerImpl) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Log ID is required", nil)
		return
	}
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid log ID", nil)
		return
	}

	req := timelog.DeleteTimeLogRequest{
		ID:  id,
		PIN: r.Header.Get(AdminPINHeader),
	}

	if err := h.timeLogService.DeleteLog(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Log deleted successfully", nil)
}

// ExportCSV implements TimeLogHandler
func (h *timeLogHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	file, err := h.timeLogService.ExportCSV(r.Context(), listRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, response.Attachment, file.Data)
}

// ExportXLSX implements TimeLogHandler
func (h *timeLogHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	file, err := h.timeLogService.ExportXLSX(r.Context(), listRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, response.Attachment, file.Data)
}

// Report implements TimeLogHandler
func (h *timeLogHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	file, err := h.timeLogService.Report(r.Context(), listRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, response.Inline, file.Data)
}

// EmployeeReport implements TimeLogHandler
func (h *timeLogHandlerImpl) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	req := timelog.EmployeeReportRequest{
		EmployeeID: employeeID,
		Timezone:   r.URL.Query().Get("tz"),
	}

	file, err := h.timeLogService.EmployeeReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, response.Inline, file.Data)
}
