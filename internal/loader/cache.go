package loader

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/afonsov/gohff/internal/ctxlog"
	"github.com/afonsov/gohff/internal/lensing"
)

// LoadFunc produces the models of one cluster.
type LoadFunc func(ctx context.Context, cluster string, reject []string) ([]Model, error)

// Entry is the memoized result of one cluster load.
type Entry struct {
	Models   []Model
	LoadID   string
	LoadedAt time.Time
}

// LensRedshift returns the redshift of the last model, which is the value a
// single per-cluster redshift has always meant. Per-model values stay on each
// Model.
func (e *Entry) LensRedshift() float64 {
	if len(e.Models) == 0 {
		return 0
	}
	return e.Models[len(e.Models)-1].Redshift
}

// Lenses returns the populated lensing models in load order.
func (e *Entry) Lenses() []lensing.Model {
	out := make([]lensing.Model, 0, len(e.Models))
	for _, m := range e.Models {
		if m.Lens != nil {
			out = append(out, m.Lens)
		}
	}
	return out
}

// Cache memoizes cluster loads. Concurrent first requests for one cluster
// share a single call to the load function; failed loads are not kept.
// Entries are never evicted.
//
// The key is the cluster id alone, so the reject list of the first
// successful load decides what later callers see. Use the Loader directly to
// bypass the cache.
type Cache struct {
	load LoadFunc

	mu      sync.RWMutex
	entries map[string]*Entry
	group   singleflight.Group
	loads   atomic.Int64
}

// NewCache returns an empty cache backed by load.
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load, entries: map[string]*Entry{}}
}

// Get returns the models of cluster, loading them on first use.
//
// The load runs detached from ctx cancellation so that one caller giving up
// does not fail the others sharing it; a cancelled caller returns ctx.Err()
// while the load completes and is cached.
func (c *Cache) Get(ctx context.Context, cluster string, reject []string) (*Entry, error) {
	if e, ok := c.Lookup(cluster); ok {
		return e, nil
	}

	ch := c.group.DoChan(cluster, func() (any, error) {
		if e, ok := c.Lookup(cluster); ok {
			return e, nil
		}
		id := uuid.NewString()
		log := ctxlog.FromContext(ctx).With("cluster", cluster, "load_id", id)
		log.Info("loading lensing models", "reject", reject)

		c.loads.Add(1)
		start := time.Now()
		models, err := c.load(ctxlog.WithLogger(context.WithoutCancel(ctx), log), cluster, reject)
		if err != nil {
			log.Warn("load failed", "error", err)
			return nil, err
		}
		e := &Entry{Models: models, LoadID: id, LoadedAt: time.Now()}

		c.mu.Lock()
		c.entries[cluster] = e
		c.mu.Unlock()

		log.Info("lensing models cached", "count", len(models), "took", time.Since(start))
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Entry), nil
	}
}

// Lookup returns a cached entry without loading.
func (c *Cache) Lookup(cluster string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cluster]
	return e, ok
}

// Clusters lists cached cluster ids in sorted order.
func (c *Cache) Clusters() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Loads reports how many times the load function has been called.
func (c *Cache) Loads() int64 { return c.loads.Load() }
