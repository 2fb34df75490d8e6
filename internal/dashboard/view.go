package dashboard

import (
	"context"
	"errors"
	"sync"

	"insights-dashboard/internal/aggregate"
	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
)

// ErrSuperseded is returned by a request whose answer arrived after a newer
// request was started. Its result is discarded.
var ErrSuperseded = errors.New("dashboard: request superseded")

// Fetcher retrieves records for a selection
type Fetcher interface {
	Fetch(ctx context.Context, sel model.Selection) ([]model.Record, error)
}

// State is a snapshot of what the dashboard shows
type State struct {
	Selection model.Selection
	Records   []model.Record
	Options   map[model.Field][]string
	Loading   bool
	Err       error
}

// Failed reports whether the last completed request failed. A failed view is
// distinct from one with zero matching records.
func (s State) Failed() bool { return s.Err != nil }

// View is the dashboard's state machine. Only the latest request may change
// the state; starting a request cancels the one in flight.
type View struct {
	fetcher Fetcher
	log     logger.Logger

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
}

// NewView creates an empty view backed by fetcher
func NewView(fetcher Fetcher, log logger.Logger) *View {
	return &View{
		fetcher: fetcher,
		log:     log,
		state:   State{Selection: filter.Empty()},
	}
}

// Load fetches the whole dataset and derives the filter options from it
func (v *View) Load(ctx context.Context) error {
	return v.run(ctx, replace(filter.Empty()), true)
}

// Apply shows the records matching sel
func (v *View) Apply(ctx context.Context, sel model.Selection) error {
	return v.run(ctx, replace(sel.Clone()), false)
}

// Set changes one filter field and applies the result. An empty value clears
// the field.
func (v *View) Set(ctx context.Context, field model.Field, value string) error {
	return v.run(ctx, func(cur model.Selection) model.Selection {
		sel := cur.Clone()
		if value == "" {
			delete(sel, field)
		} else {
			sel[field] = value
		}
		return sel
	}, false)
}

// Reset clears every filter
func (v *View) Reset(ctx context.Context) error {
	return v.run(ctx, replace(filter.Empty()), false)
}

func replace(sel model.Selection) func(model.Selection) model.Selection {
	return func(model.Selection) model.Selection { return sel }
}

// run derives the next selection from the current one under the lock, so
// concurrent edits compose, then fetches it
func (v *View) run(ctx context.Context, next func(model.Selection) model.Selection, withOptions bool) error {
	v.mu.Lock()
	sel := next(v.state.Selection)
	v.seq++
	seq := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state.Selection = sel
	v.state.Loading = true
	v.mu.Unlock()

	records, err := v.fetcher.Fetch(reqCtx, sel)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()

	if seq != v.seq {
		v.log.Debug("Discarding stale response", logger.Int64("seq", int64(seq)), logger.Int64("latest", int64(v.seq)))
		return ErrSuperseded
	}
	v.cancel = nil
	v.state.Loading = false

	if err != nil {
		v.log.Warn("Dashboard fetch failed", logger.Error(err))
		v.state.Err = err
		v.state.Records = nil
		return err
	}

	v.state.Err = nil
	v.state.Records = records
	if withOptions {
		v.state.Options = filter.AllOptions(records)
	}
	return nil
}

// State returns a snapshot of the current view
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Selection = v.state.Selection.Clone()
	return s
}

// Summary aggregates the current records for a display of the given width
func (v *View) Summary(width int) model.Summary {
	s := v.State()
	return aggregate.Summarize(s.Records, aggregate.Options{TopN: aggregate.TopicLimit(width)})
}
