package employee

import (
	"time"
)

// AdminRecordID is the reserved employee record that stands for the
// administrator on the kiosk keypad. It is hidden from headcounts and payroll.
const AdminRecordID = "9999"

// DefaultDepartment is assigned when an employee is registered without one.
const DefaultDepartment = "Geral"

type Employee struct {
	ID         string
	Name       string
	Role       string
	Department string
	Status     Status

	// Payroll inputs
	HourlyRate   float64
	OvertimeRate float64
	DailyHours   float64

	// Payroll-irrelevant metadata
	Email          *string
	Phone          *string
	CPF            *string
	HireDate       *time.Time
	AvatarURL      *string
	BaseSalary     *float64
	WorkDays       []int
	NightShiftRate *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusOnVacation Status = "on_vacation"
)

// ValidStatuses lists every accepted Status value.
var ValidStatuses = []string{string(StatusActive), string(StatusInactive), string(StatusOnVacation)}

// IsAdminRecord reports whether e is the reserved administrator record.
func (e Employee) IsAdminRecord() bool {
	return e.ID == AdminRecordID
}
