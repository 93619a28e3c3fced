package dashboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/dashboard"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "dashboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employeeRepo := sqlite.NewEmployeeRepository(db)
	for _, e := range []employee.Employee{
		{ID: "1", Name: "Ana", Role: "Caixa", Department: "Loja", Status: employee.StatusActive},
		{ID: "2", Name: "Bruno", Role: "Padeiro", Department: "Padaria", Status: employee.StatusOnVacation},
		{ID: "3", Name: "Carla", Role: "Caixa", Department: "Loja", Status: employee.StatusActive},
		{ID: employee.AdminRecordID, Name: "Admin", Role: "Admin", Department: "Diretoria", Status: employee.StatusActive},
	} {
		e.DailyHours = 8
		_, err := employeeRepo.Create(ctx, e)
		require.NoError(t, err)
	}

	timeLogRepo := sqlite.NewTimeLogRepository(db)
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC) // Wednesday, 12:00 in São Paulo
	for i, ts := range []time.Time{
		now.AddDate(0, 0, -30),                      // outside the window
		time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), // Monday
		time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC),  // Monday 23:00 local
		time.Date(2024, 3, 6, 13, 0, 0, 0, time.UTC), // today
	} {
		_, err := timeLogRepo.Create(ctx, timelog.TimeLog{
			ID: string(rune('a' + i)), EmployeeID: "1", EmployeeName: "Ana", Timestamp: ts, Type: timelog.PunchIn,
		})
		require.NoError(t, err)
	}

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	svc := NewDashboardService(employeeRepo, timeLogRepo, loc).(*DashboardServiceImpl)
	svc.now = func() time.Time { return now }

	resp, err := svc.GetDashboard(ctx, dashboard.DashboardRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.EmployeeCount)
	assert.Equal(t, 2, resp.DepartmentCount)
	assert.Equal(t, 2, resp.ActiveCount)
	assert.Equal(t, int64(4), resp.TotalLogs)

	require.Len(t, resp.Activity, timelog.HistogramDays)
	assert.Equal(t, "2024-02-29", resp.Activity[0].Date)
	assert.Equal(t, "2024-03-04", resp.Activity[4].Date)
	assert.Equal(t, "seg.", resp.Activity[4].Label)
	assert.Equal(t, 2, resp.Activity[4].Count)
	assert.Equal(t, 0, resp.Activity[5].Count)
	assert.Equal(t, 1, resp.Activity[6].Count)
	assert.Equal(t, 2, resp.MaxActivity)

	t.Run("viewer in UTC", func(t *testing.T) {
		resp, err := svc.GetDashboard(ctx, dashboard.DashboardRequest{Timezone: "UTC"})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Activity[4].Count)
		assert.Equal(t, 1, resp.Activity[5].Count)
	})

	t.Run("invalid zone", func(t *testing.T) {
		_, err := svc.GetDashboard(ctx, dashboard.DashboardRequest{Timezone: "Mars/Olympus"})
		assert.ErrorIs(t, err, dashboard.ErrInvalidTimezone)
	})
}

func TestDashboardService_EmptyStore(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewDashboardService(sqlite.NewEmployeeRepository(db), sqlite.NewTimeLogRepository(db), time.UTC)
	resp, err := svc.GetDashboard(ctx, dashboard.DashboardRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.EmployeeCount)
	assert.Equal(t, 1, resp.MaxActivity)
	assert.Len(t, resp.Activity, timelog.HistogramDays)
}
