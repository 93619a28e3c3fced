package cron

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/jwt"
	"github.com/gilponto/ponto-backend-go/internal/pkg/storage"
	"github.com/gilponto/ponto-backend-go/internal/repository/sqlite"
	"github.com/gilponto/ponto-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 10), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestArchivePendingPhotos(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "cron.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewTimeLogRepository(db)
	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	for _, l := range []timelog.TimeLog{
		{ID: "ok", EmployeeID: "1234", EmployeeName: "João", Timestamp: base, Type: timelog.PunchIn, PhotoBase64: snapshot(t)},
		{ID: "bad", EmployeeID: "1234", EmployeeName: "João", Timestamp: base.Add(time.Hour), Type: timelog.PunchOut,
			PhotoBase64: base64.StdEncoding.EncodeToString([]byte("not an image"))},
	} {
		_, err := repo.Create(ctx, l)
		require.NoError(t, err)
	}

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	jobs := NewPhotoArchiveJobs(repo, file.NewFileService(local, time.UTC))

	require.NoError(t, jobs.ArchivePendingPhotos(ctx))

	got, err := repo.GetByID(ctx, "ok")
	require.NoError(t, err)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, "punches/2024-03-04/1234-in-ok.jpg", *got.PhotoPath)

	pending, err := repo.ListUnarchived(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bad", pending[0].ID)
}

func TestArchivePendingPhotos_FailuresDoNotBlockNewerPhotos(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "cron.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewTimeLogRepository(db)
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	undecodable := base64.StdEncoding.EncodeToString([]byte("not an image"))
	for i := 0; i < archiveBatchSize+1; i++ {
		_, err := repo.Create(ctx, timelog.TimeLog{
			ID:           fmt.Sprintf("bad-%03d", i),
			EmployeeID:   "1234",
			EmployeeName: "João",
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Type:         timelog.PunchIn,
			PhotoBase64:  undecodable,
		})
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, timelog.TimeLog{
		ID: "good", EmployeeID: "5678", EmployeeName: "Maria",
		Timestamp: base.Add(24 * time.Hour), Type: timelog.PunchIn, PhotoBase64: snapshot(t),
	})
	require.NoError(t, err)

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	jobs := NewPhotoArchiveJobs(repo, file.NewFileService(local, time.UTC))

	// The first run only sees the oldest failing batch.
	require.NoError(t, jobs.ArchivePendingPhotos(ctx))
	got, err := repo.GetByID(ctx, "good")
	require.NoError(t, err)
	assert.Nil(t, got.PhotoPath)

	require.NoError(t, jobs.ArchivePendingPhotos(ctx))
	got, err = repo.GetByID(ctx, "good")
	require.NoError(t, err)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, "punches/2024-03-05/5678-in-good.jpg", *got.PhotoPath)

	bad, err := repo.GetByID(ctx, "bad-000")
	require.NoError(t, err)
	assert.Equal(t, 1, bad.ArchiveAttempts)

	for i := 0; i < timelog.MaxArchiveAttempts; i++ {
		require.NoError(t, jobs.ArchivePendingPhotos(ctx))
	}
	pending, err := repo.ListUnarchived(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, pending)

	bad, err = repo.GetByID(ctx, "bad-000")
	require.NoError(t, err)
	assert.Equal(t, timelog.MaxArchiveAttempts, bad.ArchiveAttempts)
}

func TestPruneRevokedSessions(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", "1h")
	jwtService.RevokeToken("fresh")

	require.NoError(t, NewSessionJobs(jwtService).PruneRevokedSessions(context.Background()))
	assert.True(t, jwtService.IsTokenRevoked("fresh"))
}

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("count", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())

	s.AddJob("late", time.Second, func(ctx context.Context) error { return nil })
	s.RunOnce(context.Background())
	assert.Equal(t, after+1, runs.Load())
}
