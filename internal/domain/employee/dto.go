package employee

import (
	"strings"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CreateEmployeeRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Department     string   `json:"department,omitempty"`
	Status         string   `json:"status,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate"`
	OvertimeRate   *float64 `json:"overtime_rate"`
	DailyHours     *float64 `json:"daily_hours"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	CPF            *string  `json:"cpf,omitempty"`
	HireDate       *string  `json:"hire_date,omitempty"` // YYYY-MM-DD
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	BaseSalary     *float64 `json:"base_salary,omitempty"`
	WorkDays       []int    `json:"work_days,omitempty"`
	NightShiftRate *float64 `json:"night_shift_rate,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ID = strings.TrimSpace(r.ID)
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	} else if !validator.IsValidEmployeeID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be 1 to 10 numeric digits",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	}

	if r.HourlyRate == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate is required",
		})
	}
	if r.OvertimeRate == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_rate",
			Message: "overtime_rate is required",
		})
	}
	if r.DailyHours == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_hours",
			Message: "daily_hours is required",
		})
	}

	errs = append(errs, validatePayroll(r.HourlyRate, r.OvertimeRate, r.DailyHours)...)
	errs = append(errs, validateMetadata(&r.Status, r.Email, r.CPF, r.HireDate, r.WorkDays)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToEntity builds the employee record, applying registration defaults.
// Validate must have succeeded first.
func (r CreateEmployeeRequest) ToEntity() Employee {
	e := Employee{
		ID:             r.ID,
		Name:           strings.TrimSpace(r.Name),
		Role:           strings.TrimSpace(r.Role),
		Department:     strings.TrimSpace(r.Department),
		Status:         Status(r.Status),
		Email:          r.Email,
		Phone:          r.Phone,
		CPF:            r.CPF,
		AvatarURL:      r.AvatarURL,
		BaseSalary:     r.BaseSalary,
		WorkDays:       r.WorkDays,
		NightShiftRate: r.NightShiftRate,
	}
	if e.Department == "" {
		e.Department = DefaultDepartment
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if r.HourlyRate != nil {
		e.HourlyRate = *r.HourlyRate
	}
	if r.OvertimeRate != nil {
		e.OvertimeRate = *r.OvertimeRate
	}
	if r.DailyHours != nil {
		e.DailyHours = *r.DailyHours
	}
	if r.HireDate != nil {
		if d, ok := validator.IsValidDate(*r.HireDate); ok {
			e.HireDate = &d
		}
	}
	return e
}

// UpdateEmployeeRequest edits any field except the id.
type UpdateEmployeeRequest struct {
	ID             string   `json:"-"`
	Name           *string  `json:"name,omitempty"`
	Role           *string  `json:"role,omitempty"`
	Department     *string  `json:"department,omitempty"`
	Status         *string  `json:"status,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	OvertimeRate   *float64 `json:"overtime_rate,omitempty"`
	DailyHours     *float64 `json:"daily_hours,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	CPF            *string  `json:"cpf,omitempty"`
	HireDate       *string  `json:"hire_date,omitempty"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	BaseSalary     *float64 `json:"base_salary,omitempty"`
	WorkDays       []int    `json:"work_days,omitempty"`
	NightShiftRate *float64 `json:"night_shift_rate,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}

	if r.Role != nil && validator.IsEmpty(*r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role cannot be empty",
		})
	}

	status := ""
	if r.Status != nil {
		status = *r.Status
		if status == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status cannot be empty",
			})
		}
	}

	errs = append(errs, validatePayroll(r.HourlyRate, r.OvertimeRate, r.DailyHours)...)
	errs = append(errs, validateMetadata(&status, r.Email, r.CPF, r.HireDate, r.WorkDays)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply copies the provided fields onto e. The id is never changed.
func (r UpdateEmployeeRequest) Apply(e *Employee) {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.Role != nil {
		e.Role = strings.TrimSpace(*r.Role)
	}
	if r.Department != nil {
		e.Department = strings.TrimSpace(*r.Department)
		if e.Department == "" {
			e.Department = DefaultDepartment
		}
	}
	if r.Status != nil {
		e.Status = Status(*r.Status)
	}
	if r.HourlyRate != nil {
		e.HourlyRate = *r.HourlyRate
	}
	if r.OvertimeRate != nil {
		e.OvertimeRate = *r.OvertimeRate
	}
	if r.DailyHours != nil {
		e.DailyHours = *r.DailyHours
	}
	if r.Email != nil {
		e.Email = r.Email
	}
	if r.Phone != nil {
		e.Phone = r.Phone
	}
	if r.CPF != nil {
		e.CPF = r.CPF
	}
	if r.HireDate != nil {
		if d, ok := validator.IsValidDate(*r.HireDate); ok {
			e.HireDate = &d
		}
	}
	if r.AvatarURL != nil {
		e.AvatarURL = r.AvatarURL
	}
	if r.BaseSalary != nil {
		e.BaseSalary = r.BaseSalary
	}
	if r.WorkDays != nil {
		e.WorkDays = r.WorkDays
	}
	if r.NightShiftRate != nil {
		e.NightShiftRate = r.NightShiftRate
	}
}

type DeleteEmployeeRequest struct {
	ID  string `json:"-"`
	PIN string `json:"-"`
}

type EmployeeResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Department     string   `json:"department"`
	Status         string   `json:"status"`
	HourlyRate     float64  `json:"hourly_rate"`
	OvertimeRate   float64  `json:"overtime_rate"`
	DailyHours     float64  `json:"daily_hours"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	CPF            *string  `json:"cpf,omitempty"`
	HireDate       *string  `json:"hire_date,omitempty"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	BaseSalary     *float64 `json:"base_salary,omitempty"`
	WorkDays       []int    `json:"work_days,omitempty"`
	NightShiftRate *float64 `json:"night_shift_rate,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	var hireDate *string
	if e.HireDate != nil {
		s := e.HireDate.Format(time.DateOnly)
		hireDate = &s
	}
	return EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		Role:           e.Role,
		Department:     e.Department,
		Status:         string(e.Status),
		HourlyRate:     e.HourlyRate,
		OvertimeRate:   e.OvertimeRate,
		DailyHours:     e.DailyHours,
		Email:          e.Email,
		Phone:          e.Phone,
		CPF:            e.CPF,
		HireDate:       hireDate,
		AvatarURL:      e.AvatarURL,
		BaseSalary:     e.BaseSalary,
		WorkDays:       e.WorkDays,
		NightShiftRate: e.NightShiftRate,
	}
}

func validatePayroll(hourlyRate, overtimeRate, dailyHours *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if hourlyRate != nil && *hourlyRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must not be negative",
		})
	}
	if overtimeRate != nil && *overtimeRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_rate",
			Message: "overtime_rate must not be negative",
		})
	}
	if dailyHours != nil && (*dailyHours <= 0 || *dailyHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_hours",
			Message: "daily_hours must be greater than 0 and at most 24",
		})
	}

	return errs
}

func validateMetadata(status *string, email, cpf, hireDate *string, workDays []int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if status != nil && *status != "" && !validator.IsInSlice(*status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, inactive, on_vacation",
		})
	}

	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if cpf != nil && *cpf != "" && !validator.IsValidCPF(*cpf) {
		errs = append(errs, validator.ValidationError{
			Field:   "cpf",
			Message: "cpf must have 11 digits",
		})
	}

	if hireDate != nil && *hireDate != "" {
		if _, valid := validator.IsValidDate(*hireDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
	}

	for _, d := range workDays {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "work_days",
				Message: "work_days entries must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	return errs
}
