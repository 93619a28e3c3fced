package employee

import "context"

type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	// DeleteEmployee requires the admin PIN; the deletion is permanent.
	DeleteEmployee(ctx context.Context, req DeleteEmployeeRequest) error
}
