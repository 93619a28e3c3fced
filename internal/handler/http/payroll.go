package http

import (
	"net/http"

	"github.com/gilponto/ponto-backend-go/internal/domain/payroll"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	ListPayroll(w http.ResponseWriter, r *http.Request)
	GetEmployeePayroll(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListPayroll implements PayrollHandler
func (h *payrollHandlerImpl) ListPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayroll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}

// GetEmployeePayroll implements PayrollHandler
func (h *payrollHandlerImpl) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.payrollService.GetEmployeePayroll(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
