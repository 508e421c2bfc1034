package calendar

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/pkg/models"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(1024, zap.NewNop())
	t.Cleanup(r.Close)
	return r
}

func TestResolveFallback(t *testing.T) {
	r := newTestRegistry(t)

	cal, fallback := r.Resolve("Asia/Tokyo")
	assert.True(t, fallback)
	// Weekend-only: Saturday is not a business day, a holiday-free Monday is.
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 16)))
	assert.True(t, cal.IsBusinessDay(date(2023, time.December, 25)))
}

func TestRegisterAndResolve(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("America/New_York", New("America/New_York",
		[]models.Date{date(2023, time.December, 25)}, nil)))

	cal, fallback := r.Resolve("America/New_York")
	assert.False(t, fallback)
	assert.False(t, cal.IsBusinessDay(date(2023, time.December, 25)))

	assert.Error(t, r.Register("", New("x", nil, nil)))
	assert.Error(t, r.Register("x", nil))
}

func TestMemoizedLookupMatchesCalendar(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("US", New("US", []models.Date{date(2023, time.December, 25)}, nil)))

	// Ask repeatedly so later answers come from the memo cache; they must
	// always match the direct predicate.
	cal, _ := r.Resolve("US")
	for i := 0; i < 3; i++ {
		for d := date(2023, time.December, 15); d.Before(date(2024, time.January, 5)); d = d.AddDays(1) {
			got, fallback := r.IsBusinessDay("US", d)
			assert.False(t, fallback)
			assert.Equal(t, cal.IsBusinessDay(d), got, "%s", d)
		}
	}
}

func TestRegisterInvalidatesMemo(t *testing.T) {
	r := newTestRegistry(t)
	holiday := date(2023, time.December, 27) // Wednesday

	require.NoError(t, r.Register("US", New("US", []models.Date{holiday}, nil)))
	business, _ := r.IsBusinessDay("US", holiday)
	assert.False(t, business)

	// Replace with a calendar that drops the holiday; the stale memoized
	// answer must not survive the replacement.
	require.NoError(t, r.Register("US", New("US", nil, nil)))
	business, _ = r.IsBusinessDay("US", holiday)
	assert.True(t, business)
}

func TestAddBusinessDaysViaRegistry(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("US", New("US", []models.Date{date(2023, time.December, 25)}, nil)))

	settlement, fallback := r.AddBusinessDays("US", date(2023, time.December, 22), 2)
	assert.False(t, fallback)
	assert.Equal(t, date(2023, time.December, 27), settlement)

	// Unregistered jurisdiction proceeds on the fallback calendar.
	settlement, fallback = r.AddBusinessDays("Europe/Paris", date(2023, time.December, 22), 2)
	assert.True(t, fallback)
	assert.Equal(t, date(2023, time.December, 26), settlement)
}

func TestConcurrentReadersDuringReplace(t *testing.T) {
	r := newTestRegistry(t)

	withHoliday := New("US", []models.Date{date(2023, time.December, 25)}, nil)
	withoutHoliday := New("US", nil, nil)
	require.NoError(t, r.Register("US", withHoliday))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				// Every observed answer must be consistent with one of the
				// two published snapshots; Monday 2023-12-18 is a business
				// day in both, Saturday in neither.
				business, fallback := r.IsBusinessDay("US", date(2023, time.December, 18))
				assert.True(t, business)
				assert.False(t, fallback)
				business, _ = r.IsBusinessDay("US", date(2023, time.December, 16))
				assert.False(t, business)
			}
		}()
	}

	for i := 0; i < 200; i++ {
		cal := withHoliday
		if i%2 == 1 {
			cal = withoutHoliday
		}
		require.NoError(t, r.Register("US", cal))
	}
	close(stop)
	wg.Wait()
}

func TestSnapshotReportsFallback(t *testing.T) {
	r := newTestRegistry(t)

	snap := r.Snapshot("Asia/Tokyo")
	assert.True(t, snap.Fallback)
	assert.Equal(t, "Asia/Tokyo", snap.JurisdictionKey)
	assert.Empty(t, snap.Holidays)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, snap.WeekendDays)

	require.NoError(t, r.Register("Asia/Tokyo", New("Asia/Tokyo", []models.Date{date(2024, time.January, 1)}, nil)))
	snap = r.Snapshot("Asia/Tokyo")
	assert.False(t, snap.Fallback)
	assert.Len(t, snap.Holidays, 1)
}
