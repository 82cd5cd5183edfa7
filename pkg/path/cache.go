package path

import (
	"fmt"
	"slices"

	"github.com/dgraph-io/ristretto/v2"
)

// resultCache memoizes finished searches of one grid snapshot. Entries are
// keyed by the full request, so it must never be shared between grids.
type resultCache struct {
	c *ristretto.Cache[string, Result]
}

func newResultCache(entries int64) (*resultCache, error) {
	c, err := ristretto.NewCache[string, Result](&ristretto.Config[string, Result]{
		NumCounters:        entries * 10,
		MaxCost:            entries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating path cache: %w", err)
	}
	return &resultCache{c: c}, nil
}

func cacheKey(f Finder) string {
	return fmt.Sprintf("%s>%s|%t|%d", f.Origin, f.Dest, f.AllowDiagonal, f.MaxSteps)
}

// get returns a private copy of a cached result.
func (rc *resultCache) get(f Finder) (Result, bool) {
	r, ok := rc.c.Get(cacheKey(f))
	if !ok {
		return Result{}, false
	}
	return copyResult(r), true
}

// set stores r, which must not be shared with any caller.
func (rc *resultCache) set(f Finder, r Result) {
	rc.c.Set(cacheKey(f), r, 1)
	rc.c.Wait()
}

func copyResult(r Result) Result {
	if r.Path != nil {
		r.Path = &Path{Tiles: slices.Clone(r.Path.Tiles), Cost: r.Path.Cost}
	}
	return r
}

func (rc *resultCache) close() {
	rc.c.Close()
}
