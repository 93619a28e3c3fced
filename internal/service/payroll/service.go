package payroll

import (
	"context"
	"fmt"

	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/payroll"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
)

type PayrollServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	timeLogRepo  timelog.TimeLogRepository
	policy       payroll.PayPolicy
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	timeLogRepo timelog.TimeLogRepository,
	policy payroll.PayPolicy,
) payroll.PayrollService {
	if !policy.IsValid() {
		policy = payroll.DefaultPayPolicy
	}
	return &PayrollServiceImpl{
		employeeRepo: employeeRepo,
		timeLogRepo:  timeLogRepo,
		policy:       policy,
	}
}

func ratesOf(e employee.Employee) payroll.Rates {
	return payroll.Rates{
		HourlyRate:      e.HourlyRate,
		OvertimeRate:    e.OvertimeRate,
		DailyHoursLimit: e.DailyHours,
	}
}

func (s *PayrollServiceImpl) ListPayroll(ctx context.Context) ([]payroll.PayrollSummaryResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	logs, err := s.timeLogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}

	byEmployee := make(map[string][]timelog.TimeLog, len(employees))
	for _, l := range logs {
		byEmployee[l.EmployeeID] = append(byEmployee[l.EmployeeID], l)
	}

	summaries := make([]payroll.PayrollSummaryResponse, 0, len(employees))
	for _, e := range employees {
		if e.IsAdminRecord() {
			continue
		}
		summary := Calculate(byEmployee[e.ID], ratesOf(e), s.policy)
		summaries = append(summaries, payroll.NewPayrollSummaryResponse(e, summary, s.policy))
	}

	return summaries, nil
}

func (s *PayrollServiceImpl) GetEmployeePayroll(ctx context.Context, employeeID string) (payroll.PayrollSummaryResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	logs, err := s.timeLogRepo.ListByEmployee(ctx, e.ID)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to list time logs: %w", err)
	}

	summary := Calculate(logs, ratesOf(e), s.policy)
	return payroll.NewPayrollSummaryResponse(e, summary, s.policy), nil
}
