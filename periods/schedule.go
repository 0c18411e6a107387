package periods

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/warp/period-engine/calendar"
)

// DefaultScheduleWorkers bounds ResolveSchedule when the caller passes 0.
const DefaultScheduleWorkers = 4

// MaxScheduleDates bounds the number of as-of dates one ResolveSchedule call
// accepts: fifty years of month-ends.
const MaxScheduleDates = 600

// ScheduledBatch is the filtered batch for one as-of date of a schedule.
type ScheduledBatch struct {
	AsOf    calendar.Date
	Periods Batch
}

// ResolveSchedule runs ResolveAll for every as-of date, sharing base's
// inception and fiscal year-end. Results keep the order of asOfs. The first
// failure cancels outstanding work and fails the whole call.
func (r *Resolver) ResolveSchedule(ctx context.Context, asOfs []calendar.Date, base TemporalContext, codes []string, opts FilterOptions, workers int) ([]ScheduledBatch, error) {
	if len(asOfs) > MaxScheduleDates {
		return nil, fmt.Errorf("%w: %d as-of dates, limit %d", ErrScheduleTooLong, len(asOfs), MaxScheduleDates)
	}
	if workers <= 0 {
		workers = DefaultScheduleWorkers
	}

	out := make([]ScheduledBatch, len(asOfs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, asOf := range asOfs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch, err := r.ResolveAll(codes, base.WithAsOf(asOf), opts)
			if err != nil {
				return &ScheduleError{AsOf: asOf, Err: err}
			}
			out[i] = ScheduledBatch{AsOf: asOf, Periods: batch}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
