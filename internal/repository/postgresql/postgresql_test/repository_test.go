package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/auth"
	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(id, name string) employee.Employee {
	return employee.Employee{
		ID:           id,
		Name:         name,
		Role:         "Operador",
		Department:   employee.DefaultDepartment,
		Status:       employee.StatusActive,
		HourlyRate:   15,
		OvertimeRate: 22.5,
		DailyHours:   8,
		WorkDays:     []int{1, 2, 3, 4, 5},
	}
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	created, err := repo.Create(ctx, newEmployee("1234", "João Silva"))
	require.NoError(t, err)
	assert.Equal(t, "1234", created.ID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, created.WorkDays)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, newEmployee("1234", "Outro"))
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	exists, err := repo.ExistsByID(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, exists)

	created.Name = "João P. Silva"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "João P. Silva", updated.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "1234"))
	_, err = repo.GetByID(ctx, "1234")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "1234"), employee.ErrEmployeeNotFound)
}

func TestTimeLogRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewTimeLogRepository(setup.DB)

	_, err := repo.LastByEmployee(ctx, "1234")
	assert.ErrorIs(t, err, timelog.ErrTimeLogNotFound)

	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	for i, typ := range []timelog.PunchType{timelog.PunchIn, timelog.PunchOut, timelog.PunchIn} {
		_, err := repo.Create(ctx, timelog.TimeLog{
			ID:           string(rune('a' + i)),
			EmployeeID:   "1234",
			EmployeeName: "João Silva",
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			Type:         typ,
			PhotoBase64:  "AAAA",
			IsVerified:   true,
		})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "AAAA", all[0].PhotoBase64)

	last, err := repo.LastByEmployee(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "c", last.ID)
	assert.Equal(t, timelog.PunchIn, last.Type)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Empty(t, recent[0].PhotoBase64)

	since, err := repo.ListSince(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Len(t, since, 1)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", got.PhotoBase64)
	assert.Nil(t, got.PhotoPath)

	require.NoError(t, repo.Delete(ctx, "b"))
	assert.ErrorIs(t, repo.Delete(ctx, "b"), timelog.ErrTimeLogNotFound)

	_, err = repo.GetByID(ctx, "b")
	assert.ErrorIs(t, err, timelog.ErrTimeLogNotFound)

	pending, err := repo.ListUnarchived(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ID)

	require.NoError(t, repo.SetPhotoPath(ctx, "a", "punches/2024-03-04/1234-in-a.jpg"))
	assert.ErrorIs(t, repo.SetPhotoPath(ctx, "b", "x.jpg"), timelog.ErrTimeLogNotFound)

	pending, err = repo.ListUnarchived(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ID)

	for i := 0; i < timelog.MaxArchiveAttempts; i++ {
		require.NoError(t, repo.RecordArchiveFailure(ctx, "c"))
	}
	assert.ErrorIs(t, repo.RecordArchiveFailure(ctx, "b"), timelog.ErrTimeLogNotFound)

	pending, err = repo.ListUnarchived(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSettingsRepository_AdminPIN(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(setup.DB)

	_, err := repo.GetAdminPIN(ctx)
	assert.ErrorIs(t, err, auth.ErrSettingsNotFound)

	require.NoError(t, repo.EnsureAdminPIN(ctx, "9999"))
	require.NoError(t, repo.EnsureAdminPIN(ctx, "0000"))

	pin, err := repo.GetAdminPIN(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9999", pin)

	assert.ErrorIs(t, repo.ChangeAdminPIN(ctx, "1111", "2222"), auth.ErrInvalidPIN)
	require.NoError(t, repo.ChangeAdminPIN(ctx, "9999", "2468"))

	pin, err = repo.GetAdminPIN(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2468", pin)
}
