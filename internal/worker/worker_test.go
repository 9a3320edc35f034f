package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	calls atomic.Int32
	err   error
}

func (f *fakeExporter) Export(_ context.Context) (string, error) {
	f.calls.Add(1)
	return "/tmp/export.xlsx", f.err
}

type fakeMirror struct {
	calls atomic.Int32
}

func (f *fakeMirror) SyncBookings(_ context.Context) error {
	f.calls.Add(1)
	return nil
}

func newTestWorker(t *testing.T, exporter Exporter, mirror SheetsMirror) (*ExportWorker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.New(io.Discard)
	w := NewExportWorker(exporter, mirror, client, RetryPolicy{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}, &logger)
	w.pollInterval = 10 * time.Millisecond
	return w, mr
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 10*time.Second, p.NextDelay(10)) // clamped
	assert.Equal(t, time.Second, p.NextDelay(0))     // attempt normalized
}

func TestEnqueueExportGoesToRedis(t *testing.T) {
	exporter := &fakeExporter{}
	w, mr := newTestWorker(t, exporter, nil)

	require.NoError(t, w.EnqueueExport(context.Background()))

	raw, err := mr.Lpop(w.redisQueueKey)
	require.NoError(t, err)

	var task ExportTask
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, TaskExport, task.Type)
	assert.Equal(t, 0, task.Attempt)
}

func TestWorkerProcessesExportTask(t *testing.T) {
	exporter := &fakeExporter{}
	w, _ := newTestWorker(t, exporter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueExport(ctx))

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return exporter.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestWorkerProcessesSheetsSync(t *testing.T) {
	exporter := &fakeExporter{}
	mirror := &fakeMirror{}
	w, _ := newTestWorker(t, exporter, mirror)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueSheetsSync(ctx))

	go w.Start(ctx)

	assert.Eventually(t, func() bool {
		return mirror.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEnqueueSheetsSyncWithoutMirror(t *testing.T) {
	w, mr := newTestWorker(t, &fakeExporter{}, nil)

	require.NoError(t, w.EnqueueSheetsSync(context.Background()))

	// Без настроенного зеркала задача не ставится.
	assert.False(t, mr.Exists(w.redisQueueKey))
}

func TestWorkerRetriesAndDeadLetters(t *testing.T) {
	exporter := &fakeExporter{err: errors.New("disk full")}
	w, mr := newTestWorker(t, exporter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueExport(ctx))

	go w.Start(ctx)

	// MaxRetries=2: первая попытка + один повтор, потом dead letter.
	assert.Eventually(t, func() bool {
		return mr.Exists(w.deadLetterKey)
	}, 2*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, exporter.calls.Load(), int32(2))
}

func TestEnqueueFallsBackToMemoryQueue(t *testing.T) {
	exporter := &fakeExporter{}
	w, mr := newTestWorker(t, exporter, nil)

	// Роняем redis: enqueue должен уйти в локальную очередь.
	mr.Close()

	require.NoError(t, w.EnqueueExport(context.Background()))

	task, ok := w.tryLocalQueue()
	assert.True(t, ok)
	assert.Equal(t, TaskExport, task.Type)
}
