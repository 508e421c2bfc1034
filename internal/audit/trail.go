// Package audit implements the append-only regulatory audit trail: an
// in-memory query surface fed synchronously by the calculator, plus an
// asynchronous worker that drives records into durable storage with retry
// and an out-of-band alert channel.
package audit

import (
	"sync"

	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/pkg/models"
)

// Trail is the append-only audit log. Appends are concurrent-safe; for a
// single trade id, records are observable in the order their originating
// calculations appended them. No global order across trade ids is
// maintained. Records are never modified or removed.
type Trail struct {
	mu      sync.RWMutex
	byTrade map[string][]models.AuditRecord
	total   int

	worker *Worker
	logger *zap.Logger
}

// NewTrail creates an audit trail. worker may be nil, in which case records
// are kept in memory only (tests, tooling).
func NewTrail(worker *Worker, logger *zap.Logger) *Trail {
	return &Trail{
		byTrade: make(map[string][]models.AuditRecord),
		worker:  worker,
		logger:  logger.Named("audit-trail"),
	}
}

// Append records one calculation. The in-memory append is the synchronous,
// I/O-free part of the write; durable persistence is handed to the worker.
func (t *Trail) Append(record models.AuditRecord) {
	t.mu.Lock()
	t.byTrade[record.TradeID] = append(t.byTrade[record.TradeID], record)
	t.total++
	t.mu.Unlock()

	if t.worker != nil {
		t.worker.Enqueue(record)
	}
}

// ByTradeID returns the records for a trade id in invocation order. The
// returned slice is a copy; callers cannot reach the trail's own storage.
func (t *Trail) ByTradeID(tradeID string) []models.AuditRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	records := t.byTrade[tradeID]
	out := make([]models.AuditRecord, len(records))
	copy(out, records)
	return out
}

// Len returns the total number of records appended.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}
