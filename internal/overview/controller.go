// Package overview holds the state behind the listings overview screen: the load
// status of the latest fetch, the fetched listings, and a one-shot navigation
// event for the selected listing.
package overview

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/marsestate/internal/listing"
	"github.com/jask/marsestate/internal/live"
)

// Source fetches listings for a filter.
type Source interface {
	Fetch(ctx context.Context, filter listing.Filter) ([]listing.Listing, error)
}

// Dispatcher runs state mutations on the UI-affine execution context.
type Dispatcher func(func())

// Inline runs mutations on the calling goroutine. A mutation that arrives while
// another goroutine is applying one runs after it, on that goroutine.
func Inline(fn func()) { fn() }

type Option func(*Controller)

func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) {
		if d != nil {
			c.dispatch = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithInitialFilter overrides the filter used by the construction-time fetch.
func WithInitialFilter(f listing.Filter) Option {
	return func(c *Controller) { c.filter = f }
}

// Controller owns the overview state. It is the only writer of its three slots;
// consumers observe them through the read-only accessors.
type Controller struct {
	source   Source
	dispatch Dispatcher
	log      zerolog.Logger

	status   *live.Data[listing.LoadStatus]
	items    *live.Data[[]listing.Listing]
	selected *live.Data[*live.Event[listing.Listing]]

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	idle          *sync.Cond
	queue         []step
	draining      bool
	disposed      bool
	generation    uint64
	cancelCurrent context.CancelFunc
	filter        listing.Filter
	lastErr       error
}

// New builds a controller and starts the initial fetch.
func New(source Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:   source,
		dispatch: Inline,
		log:      zerolog.Nop(),
		status:   live.NewData[listing.LoadStatus](),
		items:    live.NewData[[]listing.Listing](),
		selected: live.NewData[*live.Event[listing.Listing]](),
		ctx:      ctx,
		cancel:   cancel,
		filter:   listing.DefaultFilter,
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	c.fetch(c.filter)
	return c
}

func (c *Controller) Status() live.Observable[listing.LoadStatus] { return c.status }
func (c *Controller) Items() live.Observable[[]listing.Listing] { return c.items }
func (c *Controller) Selected() live.Observable[*live.Event[listing.Listing]] { return c.selected }

// Filter returns the filter of the most recently started fetch.
func (c *Controller) Filter() listing.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// LastError returns the cause of the most recent failed fetch, or nil once a
// later fetch succeeds. It is kept for diagnostics; observers only see StatusError.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// UpdateFilter starts a fetch for filter, cancelling any fetch still in flight.
func (c *Controller) UpdateFilter(filter listing.Filter) {
	c.fetch(filter)
}

// Reload fetches the current filter again.
func (c *Controller) Reload() {
	c.fetch(c.Filter())
}

// SelectListing publishes a navigation event for l.
func (c *Controller) SelectListing(l listing.Listing) {
	c.dispatch(func() {
		c.guard(nil, func() { c.selected.Set(live.NewEvent(l)) })
	})
}

// CompleteSelection clears the pending navigation event. Calling it again is a no-op.
func (c *Controller) CompleteSelection() {
	c.dispatch(func() {
		c.guard(nil, func() {
			if ev, ok := c.selected.Value(); ok && ev == nil {
				return
			}
			c.selected.Set(nil)
		})
	})
}

// Dispose cancels outstanding fetches and waits for any mutation already running
// to finish. No state changes after it returns. It must not be called from an
// observer callback.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.cancel()
	for c.draining {
		c.idle.Wait()
	}
	c.log.Debug().Msg("overview controller disposed")
}

func (c *Controller) fetch(filter listing.Filter) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if c.cancelCurrent != nil {
		c.cancelCurrent()
	}
	c.generation++
	gen := c.generation
	c.filter = filter
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelCurrent = cancel
	c.mu.Unlock()

	log := c.log.With().
		Str("request_id", uuid.NewString()).
		Str("filter", filter.String()).
		Logger()

	c.apply(gen, func() { c.status.Set(listing.StatusLoading) })

	// Outcomes publish items before status so status observers read matching
	// items. Each step re-checks the generation, so a fetch started while the
	// items step runs still drops the status step.
	go func() {
		defer cancel()
		log.Debug().Msg("fetching listings")
		items, err := c.source.Fetch(ctx, filter)
		if ctx.Err() != nil {
			// Superseded or disposed; the newer fetch owns the state.
			log.Debug().Msg("fetch cancelled")
			return
		}
		if err != nil {
			err = listing.NewFetchError(filter, err)
			log.Warn().Err(err).Msg("fetch failed")
			c.apply(gen,
				func() {
					c.setLastErr(gen, err)
					c.items.Set([]listing.Listing{})
				},
				func() { c.status.Set(listing.StatusError) },
			)
			return
		}
		if items == nil {
			items = []listing.Listing{}
		}
		log.Debug().Int("count", len(items)).Msg("fetch done")
		c.apply(gen,
			func() {
				c.setLastErr(gen, nil)
				c.items.Set(items)
			},
			func() { c.status.Set(listing.StatusDone) },
		)
	}()
}

// step is one queued mutation. A nil gen means the step is not tied to a fetch.
type step struct {
	gen *uint64
	fn  func()
}

// apply dispatches steps for fetch gen. The generation is checked when each step
// runs, so a Dispose or newer fetch that lands while they are queued still wins.
func (c *Controller) apply(gen uint64, fns ...func()) {
	c.dispatch(func() { c.guard(&gen, fns...) })
}

// guard queues fns and drains the queue unless another call is already draining
// it. Steps run one at a time, in queue order, with mu released so observers may
// call back into the controller. A step is skipped once the controller is
// disposed or its generation is stale.
func (c *Controller) guard(gen *uint64, fns ...func()) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	for _, fn := range fns {
		c.queue = append(c.queue, step{gen: gen, fn: fn})
	}
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	defer func() {
		c.queue = nil
		c.draining = false
		c.idle.Broadcast()
		c.mu.Unlock()
	}()

	for len(c.queue) > 0 {
		s := c.queue[0]
		c.queue = c.queue[1:]
		if c.disposed || (s.gen != nil && *s.gen != c.generation) {
			continue
		}
		c.mu.Unlock()
		c.runStep(s.fn)
		c.mu.Lock()
	}
}

// runStep reacquires mu if fn panics, so guard's deferred cleanup still holds it.
func (c *Controller) runStep(fn func()) {
	ok := false
	defer func() {
		if !ok {
			c.mu.Lock()
		}
	}()
	fn()
	ok = true
}

func (c *Controller) setLastErr(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.lastErr = err
	}
}
