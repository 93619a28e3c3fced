package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/mattn/go-sqlite3"
)

type employeeRepositoryImpl struct {
	db  *sql.DB
	now func() time.Time
}

func NewEmployeeRepository(db *sql.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db, now: time.Now}
}

const employeeColumns = `
	id, name, role, department, status, hourly_rate, overtime_rate, daily_hours,
	email, phone, cpf, hire_date, avatar_url, base_salary, work_days, night_shift_rate,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		emp                         employee.Employee
		email, phone, cpf, hireDate sql.NullString
		avatarURL, workDays         sql.NullString
		baseSalary, nightShiftRate  sql.NullFloat64
		createdAt, updatedAt        string
	)

	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Role, &emp.Department, &emp.Status,
		&emp.HourlyRate, &emp.OvertimeRate, &emp.DailyHours,
		&email, &phone, &cpf, &hireDate, &avatarURL,
		&baseSalary, &workDays, &nightShiftRate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	emp.Email = stringPtr(email)
	emp.Phone = stringPtr(phone)
	emp.CPF = stringPtr(cpf)
	emp.AvatarURL = stringPtr(avatarURL)
	emp.BaseSalary = floatPtr(baseSalary)
	emp.NightShiftRate = floatPtr(nightShiftRate)

	if hireDate.Valid {
		d, err := time.Parse(time.DateOnly, hireDate.String)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("invalid hire_date %q: %w", hireDate.String, err)
		}
		emp.HireDate = &d
	}

	if workDays.Valid && workDays.String != "" {
		if err := json.Unmarshal([]byte(workDays.String), &emp.WorkDays); err != nil {
			return employee.Employee{}, fmt.Errorf("invalid work_days %q: %w", workDays.String, err)
		}
	}

	if emp.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if emp.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}

	return emp, nil
}

func employeeArgs(e employee.Employee) ([]any, error) {
	var hireDate sql.NullString
	if e.HireDate != nil {
		hireDate = sql.NullString{String: e.HireDate.Format(time.DateOnly), Valid: true}
	}

	var workDays sql.NullString
	if e.WorkDays != nil {
		b, err := json.Marshal(e.WorkDays)
		if err != nil {
			return nil, err
		}
		workDays = sql.NullString{String: string(b), Valid: true}
	}

	return []any{
		e.Name, e.Role, e.Department, string(e.Status),
		e.HourlyRate, e.OvertimeRate, e.DailyHours,
		nullString(e.Email), nullString(e.Phone), nullString(e.CPF), hireDate, nullString(e.AvatarURL),
		nullFloat(e.BaseSalary), workDays, nullFloat(e.NightShiftRate),
	}, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// ExistsByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee id %s: %w", id, err)
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	args, err := employeeArgs(newEmployee)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to encode employee: %w", err)
	}

	now := formatTime(r.now())
	args = append([]any{newEmployee.ID}, args...)
	args = append(args, now, now)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, name, role, department, status, hourly_rate, overtime_rate, daily_hours,
			email, phone, cpf, hire_date, avatar_url, base_salary, work_days, night_shift_rate,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return r.GetByID(ctx, newEmployee.ID)
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	args, err := employeeArgs(emp)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to encode employee: %w", err)
	}
	args = append(args, formatTime(r.now()), emp.ID)

	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET
			name = ?, role = ?, department = ?, status = ?,
			hourly_rate = ?, overtime_rate = ?, daily_hours = ?,
			email = ?, phone = ?, cpf = ?, hire_date = ?, avatar_url = ?,
			base_salary = ?, work_days = ?, night_shift_rate = ?,
			updated_at = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	return r.GetByID(ctx, emp.ID)
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
