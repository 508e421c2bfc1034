package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/settlement-engine/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	return store
}

func TestStoreAppendAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := record("trade-1", "rec-1")
	second := record("trade-1", "rec-2")
	second.Resolution = models.ResolutionCalendarFallback
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, record("trade-2", "rec-3")))

	records, err := store.ByTradeID(ctx, "trade-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].RecordID)
	assert.Equal(t, "rec-2", records[1].RecordID)
	assert.Equal(t, models.ResolutionCalendarFallback, records[1].Resolution)
	assert.Equal(t, models.NewDate(2023, time.December, 19), records[0].ResultDate)
	assert.Equal(t, time.UTC, records[0].SourceInstant.Location())
}

func TestStoreAppendIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := record("trade-1", "rec-1")
	require.NoError(t, store.Append(ctx, rec))
	// A retried write of an already-landed record succeeds without a
	// duplicate row.
	require.NoError(t, store.Append(ctx, rec))

	records, err := store.ByTradeID(ctx, "trade-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStoreByTradeIDEmpty(t *testing.T) {
	store := newTestStore(t)
	records, err := store.ByTradeID(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, records)
}
