package employee

import "context"

// EmployeeRepository is the employees collection of the record store.
type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// Update overwrites every mutable field of the employee identified by e.ID.
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}
