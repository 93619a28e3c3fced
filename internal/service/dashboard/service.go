package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/dashboard"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	timeLogRepo  timelog.TimeLogRepository
	loc          *time.Location
	now          func() time.Time
}

func NewDashboardService(employeeRepo employee.EmployeeRepository, timeLogRepo timelog.TimeLogRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		employeeRepo: employeeRepo,
		timeLogRepo:  timeLogRepo,
		loc:          loc,
		now:          time.Now,
	}
}

// location resolves the viewer's zone, defaulting to the kiosk's.
func (s *DashboardServiceImpl) location(tz string) (*time.Location, error) {
	if tz == "" {
		return s.loc, nil
	}
	return time.LoadLocation(tz)
}

func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.DashboardResponse, error) {
	loc, err := s.location(req.Timezone)
	if err != nil {
		return dashboard.DashboardResponse{}, dashboard.ErrInvalidTimezone
	}

	now := s.now()
	// one extra day covers zones west of UTC
	since := now.AddDate(0, 0, -(timelog.HistogramDays + 1))

	var (
		employees []employee.Employee
		totalLogs int64
		recent    []timelog.TimeLog
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Headcounts
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		employees = list
		return nil
	})

	// 2. Total logs
	g.Go(func() error {
		count, err := s.timeLogRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count time logs: %w", err)
		}
		totalLogs = count
		return nil
	})

	// 3. Last week's activity
	g.Go(func() error {
		logs, err := s.timeLogRepo.ListSince(gCtx, since)
		if err != nil {
			return fmt.Errorf("failed to list recent time logs: %w", err)
		}
		recent = logs
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	resp := dashboard.DashboardResponse{TotalLogs: totalLogs}

	departments := make(map[string]struct{})
	for _, e := range employees {
		if e.IsAdminRecord() {
			continue
		}
		resp.EmployeeCount++
		departments[e.Department] = struct{}{}
		if e.Status == employee.StatusActive {
			resp.ActiveCount++
		}
	}
	resp.DepartmentCount = len(departments)

	resp.Activity = timelog.Histogram(recent, now, loc)
	resp.MaxActivity = timelog.MaxActivity(resp.Activity)

	return resp, nil
}
