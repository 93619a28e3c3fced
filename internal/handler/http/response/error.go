package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/domain/dashboard"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/payroll"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidPIN):
		Forbidden(w, "Incorrect admin PIN")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin session required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee id already exists")

	// Time log domain errors
	case errors.Is(err, timelog.ErrTimeLogNotFound):
		NotFound(w, "Time log not found")
	case errors.Is(err, timelog.ErrNothingToReport):
		Fail(w, http.StatusUnprocessableEntity, CodeNothingToReport, "There are no visible records to print", nil)
	case errors.Is(err, timelog.ErrEmptyPhoto):
		BadRequest(w, "Photo is required", nil)

	// Payroll and dashboard
	case errors.Is(err, payroll.ErrInvalidPayPolicy):
		BadRequest(w, "Invalid pay policy", nil)
	case errors.Is(err, dashboard.ErrInvalidTimezone):
		ValidationError(w, map[string]string{"tz": dashboard.ErrInvalidTimezone.Error()})

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
