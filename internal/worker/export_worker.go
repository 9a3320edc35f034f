package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staybook/internal/metrics"
	"staybook/internal/models"
)

const (
	TaskExport     = "export"
	TaskSheetsSync = "sheets_sync"
)

// ExportTask единица работы воркера. Attempt считается с нуля.
type ExportTask struct {
	Type      string    `json:"type"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// Exporter makes a snapshot of the ledger and returns the file path.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// SheetsMirror pushes the current ledger into an external spreadsheet.
type SheetsMirror interface {
	SyncBookings(ctx context.Context) error
}

// ExportWorker consumes export tasks from redis, falling back to an
// in-memory queue when redis is unavailable.
type ExportWorker struct {
	exporter      Exporter
	sheets        SheetsMirror
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan ExportTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	logger        *zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults. sheets may be nil when
// the spreadsheet mirror is not configured.
func NewExportWorker(exporter Exporter, sheets SheetsMirror, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		exporter:      exporter,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan ExportTask, models.WorkerQueueSize),
		redisQueueKey: "exports:queue",
		deadLetterKey: "exports:deadletter",
		pollInterval:  2 * time.Second,
		logger:        logger,
	}
}

// EnqueueExport schedules a ledger snapshot. Redis берётся первым, чтобы
// задача пережила перезапуск; очередь в памяти — запасной путь.
func (w *ExportWorker) EnqueueExport(ctx context.Context) error {
	return w.enqueue(ctx, ExportTask{Type: TaskExport, CreatedAt: time.Now()})
}

// EnqueueSheetsSync schedules a spreadsheet mirror run.
func (w *ExportWorker) EnqueueSheetsSync(ctx context.Context) error {
	if w.sheets == nil {
		return nil
	}
	return w.enqueue(ctx, ExportTask{Type: TaskSheetsSync, CreatedAt: time.Now()})
}

func (w *ExportWorker) enqueue(ctx context.Context, task ExportTask) error {
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("export worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return errors.New("export queue is full")
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, t)
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *ExportWorker) tryLocalQueue() (ExportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return ExportTask{}, false
	}
}

func (w *ExportWorker) tryRedis(ctx context.Context) (ExportTask, bool) {
	if w.redis == nil {
		return ExportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ExportTask{}, false
		}
		w.logger.Warn().Err(err).Msg("export worker: redis BRPOP error")
		return ExportTask{}, false
	}
	if len(res) != 2 {
		return ExportTask{}, false
	}
	var task ExportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("export worker: decode redis task")
		return ExportTask{}, false
	}
	return task, true
}

func (w *ExportWorker) processTask(ctx context.Context, task ExportTask) {
	var err error
	switch task.Type {
	case TaskExport:
		_, err = w.exporter.Export(ctx)
	case TaskSheetsSync:
		if w.sheets == nil {
			w.logger.Warn().Msg("export worker: sheets mirror not configured, task dropped")
			return
		}
		err = w.sheets.SyncBookings(ctx)
	default:
		w.logger.Error().Str("type", task.Type).Msg("export worker: unknown task type")
		return
	}

	if err != nil {
		metrics.ExportsCompleted.WithLabelValues("error").Inc()
		w.retryOrDrop(ctx, task, err)
		return
	}

	metrics.ExportsCompleted.WithLabelValues("ok").Inc()
}

func (w *ExportWorker) retryOrDrop(ctx context.Context, task ExportTask, cause error) {
	task.Attempt++
	if task.Attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).Str("type", task.Type).Int("attempt", task.Attempt).Msg("export worker: task failed permanently")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.Attempt)
	w.logger.Warn().Err(cause).Str("type", task.Type).Int("attempt", task.Attempt).Dur("retry_in", delay).Msg("export worker: task failed, retrying")

	select {
	case <-ctx.Done():
	case <-time.After(delay):
		if err := w.enqueue(ctx, task); err != nil {
			w.logger.Error().Err(err).Str("type", task.Type).Msg("export worker: re-enqueue failed")
		}
	}
}

func (w *ExportWorker) pushRedis(ctx context.Context, task ExportTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *ExportWorker) pushDeadLetter(ctx context.Context, task ExportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("export worker: encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("export worker: deadletter push")
	}
}
