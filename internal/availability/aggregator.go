// Package availability merges vendor availability into one time-ordered list.
package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/tirechange-hub/internal/booking"
	"github.com/wolfman30/tirechange-hub/internal/catalog"
	"github.com/wolfman30/tirechange-hub/internal/observability/metrics"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Fetcher retrieves one vendor's normalized availability.
type Fetcher interface {
	FetchAvailability(ctx context.Context, desc catalog.Descriptor) ([]booking.Slot, error)
}

// Aggregator fans out to every vendor in the catalog and merges the results.
type Aggregator struct {
	catalog  *catalog.Catalog
	fetcher  Fetcher
	cache    Cache
	metrics  *metrics.VendorMetrics
	logger   *logging.Logger
	parallel bool
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithParallel fetches vendors concurrently instead of one after another.
func WithParallel(parallel bool) AggregatorOption {
	return func(a *Aggregator) { a.parallel = parallel }
}

// WithCache serves merged results from cache until they expire or a booking
// invalidates them.
func WithCache(cache Cache) AggregatorOption {
	return func(a *Aggregator) { a.cache = cache }
}

// WithMetrics records aggregation latency.
func WithMetrics(m *metrics.VendorMetrics) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator creates an aggregator over an immutable catalog.
func NewAggregator(c *catalog.Catalog, fetcher Fetcher, logger *logging.Logger, opts ...AggregatorOption) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	a := &Aggregator{catalog: c, fetcher: fetcher, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect returns every vendor's availability sorted ascending by time.
// A failing vendor contributes nothing; Collect itself never fails.
func (a *Aggregator) Collect(ctx context.Context) []booking.Slot {
	if a.cache != nil {
		slots, ok, err := a.cache.Get(ctx)
		switch {
		case err != nil:
			a.logger.Warn("availability cache read failed", "error", err)
		case ok:
			a.logger.Debug("availability served from cache", "slots", len(slots))
			return slots
		}
	}

	start := time.Now()
	descs := a.catalog.All()
	results := make([][]booking.Slot, len(descs))
	fetched := make([]bool, len(descs))

	if a.parallel {
		var g errgroup.Group
		for i, desc := range descs {
			i, desc := i, desc
			g.Go(func() error {
				results[i], fetched[i] = a.fetchOne(ctx, desc)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, desc := range descs {
			results[i], fetched[i] = a.fetchOne(ctx, desc)
		}
	}

	var merged []booking.Slot
	failed := 0
	for i, r := range results {
		merged = append(merged, r...)
		if !fetched[i] {
			failed++
		}
	}
	sorted := a.sortByTime(merged)
	a.metrics.ObserveAggregation(time.Since(start).Seconds())
	a.logger.Info("availability aggregated", "vendors", len(descs), "failed", failed, "slots", len(sorted))

	// A partial result is served but never cached.
	switch {
	case a.cache == nil:
	case failed > 0:
		a.logger.Warn("skipping availability cache write after vendor failures", "failed", failed)
	default:
		if err := a.cache.Set(ctx, sorted); err != nil {
			a.logger.Warn("availability cache write failed", "error", err)
		}
	}
	return sorted
}

// Invalidate drops cached availability so the next Collect hits vendors.
func (a *Aggregator) Invalidate(ctx context.Context) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Invalidate(ctx)
}

// fetchOne reports ok=false when the vendor errored or panicked.
func (a *Aggregator) fetchOne(ctx context.Context, desc catalog.Descriptor) (slots []booking.Slot, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("vendor fetch panicked", "vendor", desc.Name, "panic", fmt.Sprint(r))
			slots, ok = nil, false
		}
	}()

	if a.fetcher == nil {
		return nil, false
	}
	slots, err := a.fetcher.FetchAvailability(ctx, desc)
	if err != nil {
		a.logger.Error("vendor fetch failed", "vendor", desc.Name, "error", err)
		return nil, false
	}
	return slots, true
}

type timedSlot struct {
	at   time.Time
	slot booking.Slot
}

// sortByTime stably orders slots by parsed time. Slots whose time cannot be
// parsed are dropped.
func (a *Aggregator) sortByTime(slots []booking.Slot) []booking.Slot {
	timed := make([]timedSlot, 0, len(slots))
	for _, s := range slots {
		at, err := ParseTime(s.Time)
		if err != nil {
			a.logger.Warn("dropping slot with unparseable time", "vendor", s.Location, "id", s.ID, "time", s.Time)
			continue
		}
		timed = append(timed, timedSlot{at: at, slot: s})
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].at.Before(timed[j].at)
	})

	out := make([]booking.Slot, len(timed))
	for i, t := range timed {
		out[i] = t.slot
	}
	return out
}
