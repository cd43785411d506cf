package cache

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ForecastBoard/internal/config"
	"ForecastBoard/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = val
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestKeys(t *testing.T) {
	k := ListKey(model.CardListParams{Page: 2, PageSize: 20, TagID: "climate science", SortBy: model.SortByVolume, Order: model.OrderDesc})
	assert.Equal(t, "forecast_board:card:list:page=2:size=20:tag=climate+science:sort=volume:order=desc", k)
	assert.NotEqual(t, k, ListKey(model.CardListParams{Page: 2, PageSize: 20, SortBy: model.SortByVolume, Order: model.OrderDesc}))
	assert.Equal(t, "forecast_board:card:detail:abc", DetailKey("abc"))
}

func TestLoad_CachesResult(t *testing.T) {
	mc := newMemCache()
	l := NewLoader(mc, quietLogger())
	var calls int32
	fetch := func(context.Context) (*model.Card, error) {
		atomic.AddInt32(&calls, 1)
		return &model.Card{ID: "c1", Title: "T"}, nil
	}

	for i := 0; i < 3; i++ {
		card, err := Load(context.Background(), l, DetailKey("c1"), time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, "T", card.Title)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoad_NopCacheAlwaysFetches(t *testing.T) {
	l := NewLoader(nil, quietLogger())
	var calls int32
	fetch := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}
	_, _ = Load(context.Background(), l, "k", time.Minute, fetch)
	v, err := Load(context.Background(), l, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestLoad_FetchErrorNotCached(t *testing.T) {
	mc := newMemCache()
	l := NewLoader(mc, quietLogger())
	boom := errors.New("upstream down")

	_, err := Load(context.Background(), l, "k", time.Minute, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mc.data)
}

func TestLoad_CacheFailureFallsBackToFetch(t *testing.T) {
	mc := newMemCache()
	mc.err = errors.New("redis unavailable")
	l := NewLoader(mc, quietLogger())

	v, err := Load(context.Background(), l, "k", time.Minute, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestLoad_DedupesConcurrentFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := NewLoader(newMemCache(), quietLogger())
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = Load(context.Background(), l, "same", time.Minute, fetch)
	}()
	<-started
	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Load(context.Background(), l, "same", time.Minute, fetch)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "v", r)
	}
}

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("skipping redis integration test (REDIS_ADDR not set)")
	}
	c := NewRedisCache(config.CacheConfig{Addr: addr})
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	key := DetailKey("integration-" + time.Now().Format("150405.000"))
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"id":"x"}`), 5*time.Second))
	val, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"x"}`, string(val))
}
