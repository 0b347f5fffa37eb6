package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/vr-inventory/vr-inventory/internal/jobs"
)

type fakeWarmer struct {
	calls []int64
	err   error
}

func (f *fakeWarmer) Warm(_ context.Context, partyID int64) error {
	f.calls = append(f.calls, partyID)
	return f.err
}

type fakeCleaner struct {
	retention time.Duration
	err       error
}

func (f *fakeCleaner) Cleanup(_ context.Context, olderThan time.Duration) error {
	f.retention = olderThan
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLedgerWarmupTaskPayload(t *testing.T) {
	task, err := NewLedgerWarmupTask(42)
	require.NoError(t, err)
	require.Equal(t, TaskLedgerWarmup, task.Type())

	var payload LedgerWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, int64(42), payload.PartyID)
}

func TestLedgerWarmupJobHandle(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewLedgerWarmupJob(warmer, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewLedgerWarmupTask(7)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []int64{7}, warmer.calls)
}

func TestLedgerWarmupJobPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	job := NewLedgerWarmupJob(&fakeWarmer{err: boom}, discardLogger(), nil)

	task, err := NewLedgerWarmupTask(7)
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestLedgerWarmupJobSkipsBadPayload(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewLedgerWarmupJob(warmer, discardLogger(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerWarmup, []byte(`{"party_id":0}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
	err = job.Handle(context.Background(), asynq.NewTask(TaskLedgerWarmup, []byte(`not json`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, warmer.calls)
}

func TestIdempotencyCleanupJob(t *testing.T) {
	cleaner := &fakeCleaner{}
	job := NewIdempotencyCleanupJob(cleaner, discardLogger(), nil)

	task, err := NewIdempotencyCleanupTask(48 * time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 48*time.Hour, cleaner.retention)

	task, err = NewIdempotencyCleanupTask(30 * time.Minute)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 30*time.Minute, cleaner.retention)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskIdempotencyCleanup, []byte(`{}`))))
	require.Equal(t, defaultKeyRetention, cleaner.retention)
}

func TestClientEnqueueLedgerWarmup(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()}, nil)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.EnqueueLedgerWarmup(context.Background(), 7))
	require.NoError(t, client.EnqueueLedgerWarmup(context.Background(), 7))

	pending, err := mr.List("asynq:{default}:pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	require.NoError(t, client.EnqueueLedgerWarmup(context.Background(), 1))
	require.NoError(t, client.Close())
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestHealthEndpoint(t *testing.T) {
	cases := []struct {
		name      string
		inspector QueueInspector
		status    int
		body      string
	}{
		{"no inspector", nil, http.StatusOK, `{"queue":"default","pending":0}`},
		{"pending", stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3}}, http.StatusOK, `{"queue":"default","pending":3}`},
		{"redis down", stubInspector{err: errors.New("dial")}, http.StatusServiceUnavailable, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Route("/jobs", NewHandler(tc.inspector, discardLogger()).MountRoutes)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
			require.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				require.JSONEq(t, tc.body, rec.Body.String())
			}
		})
	}
}
