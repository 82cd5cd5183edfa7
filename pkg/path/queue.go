package path

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultStepBudget is the number of nodes a request may expand per Advance.
const DefaultStepBudget = 4096

// NewRequestID returns a fresh request identity.
func NewRequestID() uuid.UUID {
	return uuid.New()
}

// QueueConfig tunes a Queue. Zero fields take defaults.
type QueueConfig struct {
	Workers      int         // Parallel searches per Advance, default GOMAXPROCS
	StepBudget   int         // Expansions per request per Advance, default DefaultStepBudget
	CacheEntries int64       // Finished results kept for identical requests, 0 disables
	Logger       *zap.Logger // Default no-op
}

func (c QueueConfig) withDefaults() QueueConfig {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.StepBudget <= 0 {
		c.StepBudget = DefaultStepBudget
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Result is the outcome of one request. Exactly one of Path and Err is set.
type Result struct {
	Path *Path
	Err  error
}

// Succeeded reports whether a path was found.
func (r Result) Succeeded() bool {
	return r.Err == nil && r.Path != nil
}

type queueEntry struct {
	id        uuid.UUID
	search    *Search
	running   bool
	finished  bool
	cancelled bool
}

// Queue schedules many path requests against one snapshot of a grid. Each
// call to Advance moves every outstanding request forward by a bounded
// number of expansions, so the caller can tick it from a frame loop or a
// timer without stalling.
//
// All methods are safe for concurrent use.
type Queue struct {
	grid    *PathTilemap
	minCost uint32
	cfg     QueueConfig
	log     *zap.Logger
	cache   *resultCache

	mu      sync.Mutex
	pending []*queueEntry
	active  map[uuid.UUID]*queueEntry
	results map[uuid.UUID]Result
}

// NewQueue creates an empty queue over a private copy of grid. A nil grid
// is treated as an empty one.
func NewQueue(grid *PathTilemap, cfg QueueConfig) (*Queue, error) {
	if grid == nil {
		grid = NewPathTilemap()
	} else {
		grid = grid.Clone()
	}
	cfg = cfg.withDefaults()
	q := &Queue{
		grid:    grid,
		minCost: grid.MinCost(),
		cfg:     cfg,
		log:     cfg.Logger,
		active:  make(map[uuid.UUID]*queueEntry),
		results: make(map[uuid.UUID]Result),
	}
	if cfg.CacheEntries > 0 {
		c, err := newResultCache(cfg.CacheEntries)
		if err != nil {
			return nil, err
		}
		q.cache = c
	}
	return q, nil
}

// Close releases the result cache. The queue must not be used afterwards.
func (q *Queue) Close() {
	if q.cache != nil {
		q.cache.close()
	}
}

// NewWithSchedules creates a queue pre-seeded with requests.
func NewWithSchedules(grid *PathTilemap, schedules iter.Seq2[uuid.UUID, Finder], cfg QueueConfig) (*Queue, error) {
	q, err := NewQueue(grid, cfg)
	if err != nil {
		return nil, err
	}
	for id, f := range schedules {
		if err := q.Add(id, f); err != nil {
			q.Close()
			return nil, err
		}
	}
	return q, nil
}

// Add submits a request. An identity may not be reused while its request is
// outstanding or its result has not been taken.
func (q *Queue) Add(id uuid.UUID, f Finder) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.active[id]; ok {
		return fmt.Errorf("%w: request %s already scheduled", ErrInvalidRequest, id)
	}
	if _, ok := q.results[id]; ok {
		return fmt.Errorf("%w: request %s has an untaken result", ErrInvalidRequest, id)
	}

	if q.cache != nil {
		if r, ok := q.cache.get(f); ok {
			q.results[id] = r
			q.log.Debug("path request served from cache", zap.Stringer("id", id))
			return nil
		}
	}

	e := &queueEntry{id: id, search: newSearch(q.grid, f, q.minCost)}
	q.active[id] = e
	q.pending = append(q.pending, e)
	return nil
}

// Advance runs one scheduling tick. It returns once every dispatched search
// has used its step budget or finished, or when ctx is cancelled.
func (q *Queue) Advance(ctx context.Context) error {
	batch := q.claim()
	if len(batch) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.cfg.Workers)
	for i, e := range batch {
		if gctx.Err() != nil {
			q.release(batch[i:])
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				q.release(batch[i : i+1])
				return err
			}
			done := e.search.Step(q.cfg.StepBudget)
			q.finish(e, done)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// claim marks every idle outstanding request as running and returns them.
func (q *Queue) claim() []*queueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = slices.DeleteFunc(q.pending, func(e *queueEntry) bool {
		return e.finished || e.cancelled
	})

	batch := make([]*queueEntry, 0, len(q.pending))
	for _, e := range q.pending {
		if e.running {
			continue
		}
		e.running = true
		batch = append(batch, e)
	}
	return batch
}

func (q *Queue) release(entries []*queueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range entries {
		e.running = false
	}
}

func (q *Queue) finish(e *queueEntry, done bool) {
	r, cached, ok := q.complete(e, done)
	if !ok {
		return
	}
	// Outside the lock: set waits for the cache buffers to flush.
	if q.cache != nil {
		q.cache.set(e.search.Finder(), cached)
	}

	path, err := r.Path, r.Err

	if err != nil {
		q.log.Debug("path request failed",
			zap.Stringer("id", e.id),
			zap.Uint32("expanded", e.search.Expanded()),
			zap.Error(err))
		return
	}
	q.log.Debug("path request succeeded",
		zap.Stringer("id", e.id),
		zap.Int("steps", path.Steps()),
		zap.Float64("cost", path.Cost),
		zap.Uint32("expanded", e.search.Expanded()))
}

// complete records the result of a finished, live entry. cached is a copy
// taken before the result becomes visible to Take.
func (q *Queue) complete(e *queueEntry, done bool) (r, cached Result, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e.running = false
	if e.cancelled || !done {
		return Result{}, Result{}, false
	}

	e.finished = true
	delete(q.active, e.id)
	path, err := e.search.Result()
	r = Result{Path: path, Err: err}
	if q.cache != nil {
		cached = copyResult(r)
	}
	q.results[e.id] = r
	return r, cached, true
}

// Cancel drops a request. Outstanding requests are removed from scheduling
// and any result they later produce is discarded; a completed but untaken
// result is deleted. It reports whether anything was dropped.
func (q *Queue) Cancel(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.active[id]; ok {
		e.cancelled = true
		delete(q.active, id)
		return true
	}
	if _, ok := q.results[id]; ok {
		delete(q.results, id)
		return true
	}
	return false
}

// IsEmpty reports whether no request is pending or in progress.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active) == 0
}

// Pending returns the number of outstanding requests.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active)
}

// Completed returns the number of results waiting to be taken.
func (q *Queue) Completed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.results)
}

// Take returns and removes the result of id. ok is false while the request
// is outstanding, after it was taken, or for unknown identities.
func (q *Queue) Take(id uuid.UUID) (Result, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	r, ok := q.results[id]
	if ok {
		delete(q.results, id)
	}
	return r, ok
}

// Drain takes every completed result.
func (q *Queue) Drain() map[uuid.UUID]Result {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.results
	q.results = make(map[uuid.UUID]Result)
	return out
}
