package payroll

import (
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ========== PAYROLL SUMMARY DTOs ==========

// PayrollSummaryResponse carries every reported figure with exactly two
// decimals, plus the unrounded values for callers that aggregate further.
type PayrollSummaryResponse struct {
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	Role          string     `json:"role"`
	Department    string     `json:"department"`
	HourlyRate    float64    `json:"hourly_rate"`
	OvertimeRate  float64    `json:"overtime_rate"`
	DailyHours    float64    `json:"daily_hours"`
	PayPolicy     PayPolicy  `json:"pay_policy"`
	TotalHours    string     `json:"total_hours"`
	RegularHours  string     `json:"regular_hours"`
	OvertimeHours string     `json:"overtime_hours"`
	Pay           string     `json:"pay"`
	Raw           RawSummary `json:"raw"`
}

type RawSummary struct {
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Pay           float64 `json:"pay"`
	Intervals     int     `json:"intervals"`
}

// Fixed2 renders v with exactly two decimal digits.
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func NewPayrollSummaryResponse(e employee.Employee, s Summary, policy PayPolicy) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		EmployeeID:    e.ID,
		EmployeeName:  e.Name,
		Role:          e.Role,
		Department:    e.Department,
		HourlyRate:    e.HourlyRate,
		OvertimeRate:  e.OvertimeRate,
		DailyHours:    e.DailyHours,
		PayPolicy:     policy,
		TotalHours:    Fixed2(s.TotalHours),
		RegularHours:  Fixed2(s.RegularHours),
		OvertimeHours: Fixed2(s.OvertimeHours),
		Pay:           Fixed2(s.Pay),
		Raw: RawSummary{
			TotalHours:    s.TotalHours,
			RegularHours:  s.RegularHours,
			OvertimeHours: s.OvertimeHours,
			Pay:           s.Pay,
			Intervals:     s.Intervals,
		},
	}
}
