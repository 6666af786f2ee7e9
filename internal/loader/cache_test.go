package loader

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_MemoizesPerCluster(t *testing.T) {
	root := dataTree(t)
	c := NewCache(New(root, nil).Load)

	first, err := c.Get(context.Background(), "abell2744", nil)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), "abell2744", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), c.Loads())
	assert.NotEmpty(t, first.LoadID)
	assert.Equal(t, []string{"abell2744"}, c.Clusters())
}

func TestCache_SecondCallSkipsFilesystem(t *testing.T) {
	root := dataTree(t)
	c := NewCache(New(root, nil).Load)

	_, err := c.Get(context.Background(), "abell2744", nil)
	require.NoError(t, err)

	// the tree is gone; only the memoized entry can answer
	require.NoError(t, os.RemoveAll(root))

	e, err := c.Get(context.Background(), "abell2744", nil)
	require.NoError(t, err)
	assert.Len(t, e.Models, 2)
	assert.Equal(t, int64(1), c.Loads())
}

func TestCache_ConcurrentFirstLoadRunsOnce(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	c := NewCache(func(ctx context.Context, cluster string, reject []string) ([]Model, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return []Model{{Descriptor: Descriptor{Cluster: cluster, Redshift: 0.3}}}, nil
	})

	const n = 16
	var wg sync.WaitGroup
	entries := make([]*Entry, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries[i], errs[i] = c.Get(context.Background(), "macs0416", nil)
		}(i)
	}
	close(release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, entries[0], entries[i])
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(1), c.Loads())
}

func TestCache_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewCache(func(ctx context.Context, cluster string, reject []string) ([]Model, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []Model{{Descriptor: Descriptor{Cluster: cluster, Redshift: 0.396}}}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "macs1149", nil)
		firstErr <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	e, err := c.Get(context.Background(), "macs1149", nil)
	require.NoError(t, err)
	require.Len(t, e.Models, 1)
	assert.Equal(t, int64(1), c.Loads())
}

func TestCache_FailedLoadNotCached(t *testing.T) {
	boom := errors.New("disk on fire")
	fail := true
	c := NewCache(func(ctx context.Context, cluster string, reject []string) ([]Model, error) {
		if fail {
			return nil, boom
		}
		return []Model{{Descriptor: Descriptor{Cluster: cluster}}}, nil
	})

	_, err := c.Get(context.Background(), "abell370", nil)
	assert.ErrorIs(t, err, boom)
	_, ok := c.Lookup("abell370")
	assert.False(t, ok)

	fail = false
	_, err = c.Get(context.Background(), "abell370", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Loads())
}

func TestCache_KeyedByClusterOnly(t *testing.T) {
	root := dataTree(t)
	c := NewCache(New(root, nil).Load)

	e, err := c.Get(context.Background(), "abell2744", []string{"glafic"})
	require.NoError(t, err)
	require.Len(t, e.Models, 1)

	e, err = c.Get(context.Background(), "abell2744", nil)
	require.NoError(t, err)
	assert.Len(t, e.Models, 1)
}

func TestEntry_LensRedshift(t *testing.T) {
	e := &Entry{Models: []Model{
		{Descriptor: Descriptor{ShortName: "cats", Redshift: 0.308}},
		{Descriptor: Descriptor{ShortName: "glafic", Redshift: 0.305}},
	}}
	assert.Equal(t, 0.305, e.LensRedshift())
	assert.Empty(t, e.Lenses())
	assert.Zero(t, (&Entry{}).LensRedshift())
}
