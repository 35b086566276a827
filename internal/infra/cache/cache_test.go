package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type item struct {
	Name string `json:"name"`
}

func TestRemember_LoadsOnceThenHits(t *testing.T) {
	c := New(newMemoryStore(), time.Minute)
	var calls int32
	load := func(context.Context) ([]item, error) {
		atomic.AddInt32(&calls, 1)
		return []item{{Name: "gpu"}}, nil
	}

	first, err := Remember(context.Background(), c, "k", load)
	require.NoError(t, err)
	second, err := Remember(context.Background(), c, "k", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemember_InvalidateForcesReload(t *testing.T) {
	c := New(newMemoryStore(), time.Minute)
	var calls int32
	load := func(context.Context) (item, error) {
		atomic.AddInt32(&calls, 1)
		return item{Name: "cpu"}, nil
	}

	_, err := Remember(context.Background(), c, "k", load)
	require.NoError(t, err)
	c.Invalidate(context.Background(), "k")
	_, err = Remember(context.Background(), c, "k", load)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemember_ErrorsAreNotCached(t *testing.T) {
	store := newMemoryStore()
	c := New(store, time.Minute)

	_, err := Remember(context.Background(), c, "k", func(context.Context) (item, error) {
		return item{}, errors.New("boom")
	})
	assert.Error(t, err)
	_, getErr := store.Get(context.Background(), "k")
	assert.ErrorIs(t, getErr, ErrMiss)
}

func TestRemember_NilCacheCallsLoader(t *testing.T) {
	var c *Cache
	got, err := Remember(context.Background(), c, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	c.Invalidate(context.Background(), "k")
}

func TestRemember_SharedLoadIgnoresCallerCancellation(t *testing.T) {
	c := New(newMemoryStore(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Remember(ctx, c, "k", func(loadCtx context.Context) ([]item, error) {
		if err := loadCtx.Err(); err != nil {
			return nil, err
		}
		return []item{{Name: "ssd"}}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "ssd"}}, got)
}
