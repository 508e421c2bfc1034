package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/pkg/models"
)

// stubSink counts appends and fails the first failUntil attempts per record.
type stubSink struct {
	mu        sync.Mutex
	attempts  map[string]int
	persisted []string
	failUntil int
}

func newStubSink(failUntil int) *stubSink {
	return &stubSink{attempts: make(map[string]int), failUntil: failUntil}
}

func (s *stubSink) Append(_ context.Context, rec models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[rec.RecordID]++
	if s.attempts[rec.RecordID] <= s.failUntil {
		return errors.New("sink unavailable")
	}
	s.persisted = append(s.persisted, rec.RecordID)
	return nil
}

func (s *stubSink) persistedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.persisted))
	copy(out, s.persisted)
	return out
}

func testConfig() WorkerConfig {
	return WorkerConfig{BufferSize: 16, MaxAttempts: 3, RetryBackoff: time.Millisecond}
}

func TestWorkerPersists(t *testing.T) {
	sink := newStubSink(0)
	w := NewWorker(sink, testConfig(), zap.NewNop())

	w.Enqueue(record("trade-1", "rec-1"))
	w.Close()

	assert.Equal(t, []string{"rec-1"}, sink.persistedIDs())
}

func TestWorkerRetriesThenSucceeds(t *testing.T) {
	sink := newStubSink(2) // fail twice, succeed on the third attempt
	w := NewWorker(sink, testConfig(), zap.NewNop())

	w.Enqueue(record("trade-1", "rec-1"))
	w.Close()

	assert.Equal(t, []string{"rec-1"}, sink.persistedIDs())
	select {
	case alert := <-w.Alerts():
		t.Fatalf("unexpected alert: %v", alert.Err)
	default:
	}
}

func TestWorkerAlertsAfterExhaustedRetries(t *testing.T) {
	sink := newStubSink(1000) // never succeeds within MaxAttempts
	w := NewWorker(sink, testConfig(), zap.NewNop())

	rec := record("trade-1", "rec-1")
	w.Enqueue(rec)
	w.Close()

	select {
	case alert := <-w.Alerts():
		assert.Equal(t, "rec-1", alert.Record.RecordID)
		assert.Equal(t, 3, alert.Attempts)
		require.Error(t, alert.Err)
	default:
		t.Fatal("expected an alert after exhausted retries")
	}
	assert.Empty(t, sink.persistedIDs())
}

func TestWorkerAlertsOnFullBuffer(t *testing.T) {
	sink := newStubSink(0)
	// Zero-capacity channels are not allowed by config defaults, so use the
	// smallest buffer and saturate it with a blocked sink.
	blocked := make(chan struct{})
	slow := sinkFunc(func(ctx context.Context, rec models.AuditRecord) error {
		<-blocked
		return sink.Append(ctx, rec)
	})
	w := NewWorker(slow, WorkerConfig{BufferSize: 1, MaxAttempts: 1, RetryBackoff: time.Millisecond}, zap.NewNop())

	// First record occupies the worker, second fills the buffer, third must
	// be surfaced as an alert rather than dropped.
	w.Enqueue(record("trade-1", "rec-1"))
	w.Enqueue(record("trade-1", "rec-2"))
	deadline := time.After(time.Second)
	var alerted bool
	for !alerted {
		w.Enqueue(record("trade-1", "rec-3"))
		select {
		case alert := <-w.Alerts():
			assert.ErrorContains(t, alert.Err, "buffer full")
			alerted = true
		case <-deadline:
			t.Fatal("no buffer-full alert")
		default:
		}
	}
	close(blocked)
	w.Close()
}

func TestWorkerCloseDrains(t *testing.T) {
	sink := newStubSink(0)
	w := NewWorker(sink, WorkerConfig{BufferSize: 64, MaxAttempts: 1, RetryBackoff: time.Millisecond}, zap.NewNop())

	for i := 0; i < 50; i++ {
		w.Enqueue(record("trade-1", fmt.Sprintf("rec-%d", i)))
	}
	w.Close()

	assert.Len(t, sink.persistedIDs(), 50)
}

// sinkFunc adapts a function to the Sink interface.
type sinkFunc func(ctx context.Context, record models.AuditRecord) error

func (f sinkFunc) Append(ctx context.Context, record models.AuditRecord) error {
	return f(ctx, record)
}
