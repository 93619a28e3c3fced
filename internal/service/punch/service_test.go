package punch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/employee"
	"github.com/gilponto/ponto-backend-go/internal/domain/punch"
	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/domain/verification"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/gilponto/ponto-backend-go/internal/pkg/sse"
	"github.com/gilponto/ponto-backend-go/internal/pkg/validator"
	"github.com/gilponto/ponto-backend-go/internal/pkg/workerpool"
	"github.com/gilponto/ponto-backend-go/internal/repository/sqlite"
	authservice "github.com/gilponto/ponto-backend-go/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photo = "data:image/png;base64,iVBORw0KGgo="

type stubVerifier struct {
	result verification.Result
	err    error
	calls  int
}

func (v *stubVerifier) Verify(ctx context.Context, image string, employeeName string) (verification.Result, error) {
	v.calls++
	return v.result, v.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

// failingTimeLogRepo rejects every insert.
type failingTimeLogRepo struct {
	timelog.TimeLogRepository
}

func (failingTimeLogRepo) Create(ctx context.Context, newLog timelog.TimeLog) (timelog.TimeLog, error) {
	return timelog.TimeLog{}, errors.New("disk I/O error")
}

// fakeFileService records archived snapshots. When release is set, uploads
// wait for it to close.
type fakeFileService struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeFileService) UploadPunchPhoto(ctx context.Context, l timelog.TimeLog) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	p := "punches/" + l.ID + ".jpg"
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, p)
	return p, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "/uploads/" + path, nil
}

type fixture struct {
	employeeRepo employee.EmployeeRepository
	timeLogRepo  timelog.TimeLogRepository
	newService   func(repo timelog.TimeLogRepository, opts Options) *PunchServiceImpl
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "punch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	settingsRepo := sqlite.NewSettingsRepository(db)
	authService := authservice.NewAuthService(settingsRepo, jwt.NewJWTService("secret", "1h"))
	require.NoError(t, authService.SeedAdminPIN(ctx, "9999"))

	employeeRepo := sqlite.NewEmployeeRepository(db)
	_, err = employeeRepo.Create(ctx, employee.Employee{
		ID: "1234", Name: "João Silva", Role: "Operador", Department: "Geral",
		Status: employee.StatusActive, HourlyRate: 10, OvertimeRate: 15, DailyHours: 8,
	})
	require.NoError(t, err)

	timeLogRepo := sqlite.NewTimeLogRepository(db)

	clock := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	seq := 0
	return fixture{
		employeeRepo: employeeRepo,
		timeLogRepo:  timeLogRepo,
		newService: func(repo timelog.TimeLogRepository, opts Options) *PunchServiceImpl {
			svc := NewPunchService(employeeRepo, repo, authService, opts).(*PunchServiceImpl)
			svc.now = func() time.Time {
				clock = clock.Add(time.Hour)
				return clock
			}
			svc.newID = func() (string, error) {
				seq++
				return fmt.Sprintf("log-%02d", seq), nil
			}
			return svc
		},
	}
}

func TestPunch_TogglesType(t *testing.T) {
	f := newFixture(t)
	v := &stubVerifier{result: verification.Result{FaceDetected: true, Message: "Olá João!"}}
	svc := f.newService(f.timeLogRepo, Options{Verifier: v})
	ctx := context.Background()

	want := []timelog.PunchType{timelog.PunchIn, timelog.PunchOut, timelog.PunchIn, timelog.PunchOut}
	for i, typ := range want {
		resp, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
		require.NoError(t, err)
		assert.Equal(t, string(typ), resp.Log.Type, "punch %d", i)
		assert.True(t, resp.Log.IsVerified)
		assert.Equal(t, "Olá João!", resp.Log.VerificationMessage)
		assert.Equal(t, "João Silva", resp.Log.EmployeeName)
		assert.Empty(t, resp.Log.PhotoBase64)
	}
	assert.Equal(t, 4, v.calls)

	stored, err := f.timeLogRepo.ListByEmployee(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "log-01", stored[0].ID)

	full, err := f.timeLogRepo.GetByID(ctx, "log-01")
	require.NoError(t, err)
	assert.Equal(t, photo, full.PhotoBase64)
}

func TestPunch_Greeting(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(f.timeLogRepo, Options{Verifier: &stubVerifier{result: verification.Result{FaceDetected: true}}})
	ctx := context.Background()

	in, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	assert.Equal(t, punch.Greeting{Title: "Bom trabalho!", Subtitle: "Ponto de entrada registrado com sucesso."}, in.Greeting)

	out, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	assert.Equal(t, punch.Greeting{Title: "Até logo!", Subtitle: "Ponto de saída registrado com sucesso."}, out.Greeting)
}

func TestPunch_VerificationFallback(t *testing.T) {
	tests := []struct {
		name     string
		verifier verification.Verifier
	}{
		{"verifier error", &stubVerifier{err: errors.New("deadline exceeded")}},
		{"no verifier", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.newService(f.timeLogRepo, Options{Verifier: tt.verifier})

			resp, err := svc.Punch(context.Background(), punch.PunchRequest{EmployeeID: "1234", Photo: photo})
			require.NoError(t, err)
			assert.True(t, resp.Log.IsVerified)
			assert.Equal(t, "Olá João Silva, ponto registrado (Verificação Offline).", resp.Log.VerificationMessage)
			assert.Equal(t, "Olá João Silva, ponto registrado (Verificação Offline).", resp.Greeting.Subtitle)
		})
	}
}

func TestPunch_FaceNotDetected(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(f.timeLogRepo, Options{Verifier: &stubVerifier{result: verification.Result{FaceDetected: false, Message: "Não vimos seu rosto."}}})

	resp, err := svc.Punch(context.Background(), punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	assert.False(t, resp.Log.IsVerified)
	assert.Equal(t, "Não vimos seu rosto.", resp.Greeting.Subtitle)
}

func TestPunch_Rejections(t *testing.T) {
	f := newFixture(t)
	v := &stubVerifier{result: verification.Result{FaceDetected: true}}
	svc := f.newService(f.timeLogRepo, Options{Verifier: v})
	ctx := context.Background()

	_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: "  "})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.Punch(ctx, punch.PunchRequest{EmployeeID: "4040", Photo: photo})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.Zero(t, v.calls)
	count, err := f.timeLogRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPunch_StoreFailure(t *testing.T) {
	f := newFixture(t)
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("s1")
	defer cleanup()

	notifier := &recordingNotifier{}
	pool := workerpool.NewWorkerPool(1, 4)

	files := &fakeFileService{}
	svc := f.newService(failingTimeLogRepo{f.timeLogRepo}, Options{Hub: hub, Notifier: notifier, Pool: pool, FileService: files})

	_, err := svc.Punch(context.Background(), punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	assert.ErrorContains(t, err, "disk I/O error")

	pool.Close(context.Background())
	assert.Empty(t, notifier.messages)
	assert.Empty(t, files.uploaded)
	assert.Len(t, events, 0)
}

func TestPunch_ArchivesPhotoAfterInsert(t *testing.T) {
	f := newFixture(t)
	files := &fakeFileService{}
	pool := workerpool.NewWorkerPool(1, 4)
	svc := f.newService(f.timeLogRepo, Options{FileService: files, Pool: pool})
	ctx := context.Background()

	resp, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	assert.Nil(t, resp.Log.PhotoPath)

	pool.Close(ctx)
	assert.Equal(t, []string{"punches/log-01.jpg"}, files.uploaded)

	stored, err := f.timeLogRepo.GetByID(ctx, "log-01")
	require.NoError(t, err)
	require.NotNil(t, stored.PhotoPath)
	assert.Equal(t, "punches/log-01.jpg", *stored.PhotoPath)
	assert.Equal(t, photo, stored.PhotoBase64)
}

func TestPunch_SlowArchiveDoesNotBlockPunches(t *testing.T) {
	f := newFixture(t)
	files := &fakeFileService{started: make(chan struct{}, 4), release: make(chan struct{})}
	pool := workerpool.NewWorkerPool(1, 4)
	svc := f.newService(f.timeLogRepo, Options{FileService: files, Pool: pool})
	ctx := context.Background()

	_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	<-files.started

	done := make(chan error, 1)
	go func() {
		_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second punch waited for the first upload")
	}

	close(files.release)
	pool.Close(ctx)

	pending, err := f.timeLogRepo.ListUnarchived(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPunch_ArchiveFailureLeavesLogForRetry(t *testing.T) {
	f := newFixture(t)
	files := &fakeFileService{err: errors.New("bucket unavailable")}
	pool := workerpool.NewWorkerPool(1, 4)
	svc := f.newService(f.timeLogRepo, Options{FileService: files, Pool: pool})
	ctx := context.Background()

	_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	pool.Close(ctx)

	pending, err := f.timeLogRepo.ListUnarchived(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "log-01", pending[0].ID)
	assert.Equal(t, 1, pending[0].ArchiveAttempts)
}

func TestPunch_ArchiveOfDeletedLogRemovesFile(t *testing.T) {
	f := newFixture(t)
	files := &fakeFileService{started: make(chan struct{}, 1), release: make(chan struct{})}
	pool := workerpool.NewWorkerPool(1, 4)
	svc := f.newService(f.timeLogRepo, Options{FileService: files, Pool: pool})
	ctx := context.Background()

	_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	<-files.started
	require.NoError(t, f.timeLogRepo.Delete(ctx, "log-01"))

	close(files.release)
	pool.Close(ctx)
	assert.Equal(t, []string{"punches/log-01.jpg"}, files.deleted)
}

func TestPunch_Announces(t *testing.T) {
	f := newFixture(t)
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe("s1")
	defer cleanup()

	notifier := &recordingNotifier{}
	pool := workerpool.NewWorkerPool(1, 4)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	svc := f.newService(f.timeLogRepo, Options{Hub: hub, Notifier: notifier, Pool: pool, Location: loc})

	_, err = svc.Punch(context.Background(), punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)

	event := <-events
	assert.Equal(t, EventPunch, event.Event)
	data, ok := event.Data.(timelog.TimeLogResponse)
	require.True(t, ok)
	assert.Equal(t, "log-01", data.ID)
	assert.Empty(t, data.PhotoBase64)

	pool.Close(context.Background())
	require.Len(t, notifier.messages, 1)
	// clock starts at 11:00 UTC and advances one hour per punch
	assert.Equal(t, "João Silva (1234) registrou entrada às 09:00 de 04/03/2024", notifier.messages[0])
}

func TestIdentify(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(f.timeLogRepo, Options{})
	ctx := context.Background()

	admin, err := svc.Identify(ctx, punch.IdentifyRequest{Code: "9999"})
	require.NoError(t, err)
	assert.Equal(t, punch.IdentityAdmin, admin.Kind)
	assert.NotEmpty(t, admin.AccessToken)

	emp, err := svc.Identify(ctx, punch.IdentifyRequest{Code: "1234"})
	require.NoError(t, err)
	assert.Equal(t, punch.IdentityEmployee, emp.Kind)
	assert.Equal(t, "João Silva", emp.EmployeeName)
	assert.Equal(t, timelog.PunchIn, emp.NextType)
	assert.Empty(t, emp.AccessToken)

	_, err = svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
	require.NoError(t, err)
	emp, err = svc.Identify(ctx, punch.IdentifyRequest{Code: "1234"})
	require.NoError(t, err)
	assert.Equal(t, timelog.PunchOut, emp.NextType)

	_, err = svc.Identify(ctx, punch.IdentifyRequest{Code: "0001"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.Identify(ctx, punch.IdentifyRequest{Code: "abc"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRecent(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(f.timeLogRepo, Options{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Punch(ctx, punch.PunchRequest{EmployeeID: "1234", Photo: photo})
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, punch.RecentRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "log-03", recent[0].ID)
	assert.Equal(t, "log-02", recent[1].ID)

	all, err := svc.Recent(ctx, punch.RecentRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
