package payroll

import "context"

type PayrollService interface {
	// ListPayroll summarizes every employee except the reserved admin record.
	ListPayroll(ctx context.Context) ([]PayrollSummaryResponse, error)
	GetEmployeePayroll(ctx context.Context, employeeID string) (PayrollSummaryResponse, error)
}
