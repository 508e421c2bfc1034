package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/internal/metrics"
	"github.com/finclear/settlement-engine/pkg/models"
)

// Alert reports an audit record whose durable persistence ultimately failed
// (or could not be buffered). It is the out-of-band operational signal: the
// settlement result already returned to the caller is never revoked.
type Alert struct {
	Record   models.AuditRecord
	Err      error
	Attempts int
}

// WorkerConfig tunes the asynchronous persistence path.
type WorkerConfig struct {
	BufferSize   int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// DefaultWorkerConfig returns the production defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		BufferSize:   4096,
		MaxAttempts:  5,
		RetryBackoff: 100 * time.Millisecond,
	}
}

// Worker drains buffered audit records into a durable sink. Writes are
// retried with exponential backoff; exhausted writes are surfaced on the
// alert channel, never dropped silently. The synchronous calculation path
// only ever touches the buffer.
type Worker struct {
	sink   Sink
	cfg    WorkerConfig
	inbox  chan models.AuditRecord
	alerts chan Alert
	logger *zap.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewWorker creates and starts a persistence worker.
func NewWorker(sink Sink, cfg WorkerConfig, logger *zap.Logger) *Worker {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultWorkerConfig().BufferSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultWorkerConfig().MaxAttempts
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultWorkerConfig().RetryBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		sink:   sink,
		cfg:    cfg,
		inbox:  make(chan models.AuditRecord, cfg.BufferSize),
		alerts: make(chan Alert, cfg.BufferSize),
		logger: logger.Named("audit-worker"),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

// Enqueue hands a record to the persistence pipeline without blocking. A
// full buffer is surfaced immediately as an alert: deferred writes are never
// silently dropped.
func (w *Worker) Enqueue(record models.AuditRecord) {
	select {
	case w.inbox <- record:
	default:
		w.logger.Error("audit buffer full, raising alert",
			zap.String("record_id", record.RecordID),
			zap.String("trade_id", record.TradeID))
		w.raise(Alert{Record: record, Err: errBufferFull})
	}
}

// Alerts exposes the out-of-band failure channel. Operations tooling is
// expected to consume it; alerts overflowing the channel are logged.
func (w *Worker) Alerts() <-chan Alert {
	return w.alerts
}

// Close drains the buffer, persists what it can, and stops the worker.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.inbox)
		<-w.done
		w.cancel()
	})
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for record := range w.inbox {
		w.persist(ctx, record)
	}
}

// persist retries with exponential backoff until the sink accepts the
// record or attempts are exhausted.
func (w *Worker) persist(ctx context.Context, record models.AuditRecord) {
	delay := w.cfg.RetryBackoff
	var err error
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		err = w.sink.Append(ctx, record)
		if err == nil {
			metrics.AuditPersistedTotal.Inc()
			return
		}

		w.logger.Warn("audit persistence attempt failed",
			zap.String("record_id", record.RecordID),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == w.cfg.MaxAttempts {
			break
		}
		metrics.AuditRetriesTotal.Inc()
		select {
		case <-ctx.Done():
			w.raise(Alert{Record: record, Err: ctx.Err(), Attempts: attempt})
			return
		case <-time.After(delay):
		}
		delay *= 2
	}

	w.raise(Alert{Record: record, Err: err, Attempts: w.cfg.MaxAttempts})
}

func (w *Worker) raise(alert Alert) {
	metrics.AuditAlertsTotal.Inc()
	select {
	case w.alerts <- alert:
	default:
		w.logger.Error("alert channel full, audit failure visible in logs only",
			zap.String("record_id", alert.Record.RecordID),
			zap.Error(alert.Err))
	}
}

type bufferFullError struct{}

func (bufferFullError) Error() string { return "audit buffer full" }

var errBufferFull = bufferFullError{}
