package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, name, role, department, status, hourly_rate, overtime_rate, daily_hours,
	email, phone, cpf, hire_date, avatar_url, base_salary, work_days, night_shift_rate,
	created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Role, &emp.Department, &emp.Status,
		&emp.HourlyRate, &emp.OvertimeRate, &emp.DailyHours,
		&emp.Email, &emp.Phone, &emp.CPF, &emp.HireDate, &emp.AvatarURL,
		&emp.BaseSalary, &emp.WorkDays, &emp.NightShiftRate,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// ExistsByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByID(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee id %s: %w", id, err)
	}

	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, name, role, department, status, hourly_rate, overtime_rate, daily_hours,
			email, phone, cpf, hire_date, avatar_url, base_salary, work_days, night_shift_rate
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Role, newEmployee.Department, newEmployee.Status,
		newEmployee.HourlyRate, newEmployee.OvertimeRate, newEmployee.DailyHours,
		newEmployee.Email, newEmployee.Phone, newEmployee.CPF, newEmployee.HireDate, newEmployee.AvatarURL,
		newEmployee.BaseSalary, newEmployee.WorkDays, newEmployee.NightShiftRate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			name = $2, role = $3, department = $4, status = $5,
			hourly_rate = $6, overtime_rate = $7, daily_hours = $8,
			email = $9, phone = $10, cpf = $11, hire_date = $12, avatar_url = $13,
			base_salary = $14, work_days = $15, night_shift_rate = $16,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Name, emp.Role, emp.Department, emp.Status,
		emp.HourlyRate, emp.OvertimeRate, emp.DailyHours,
		emp.Email, emp.Phone, emp.CPF, emp.HireDate, emp.AvatarURL,
		emp.BaseSalary, emp.WorkDays, emp.NightShiftRate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}

	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
