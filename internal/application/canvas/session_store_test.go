package canvas

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()
	engine := NewEngine("area-1", nil, 1200, 800)

	session := store.Create(engine)
	require.NotEmpty(t, session.ID)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, engine, got.Engine)

	require.NoError(t, store.Delete(session.ID))
	_, err = store.Get(session.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(store.Delete(session.ID)))
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	stale := store.Create(NewEngine("area-1", nil, 100, 100))
	now = now.Add(20 * time.Minute)
	fresh := store.Create(NewEngine("area-2", nil, 100, 100))

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep(30*time.Minute))

	_, err := store.Get(stale.ID)
	assert.Error(t, err)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionStore_RunSweeperReportsSweptCount(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store.Create(NewEngine("area-1", nil, 100, 100))
	store.Create(NewEngine("area-2", nil, 100, 100))
	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	swept := make(chan int, 1)
	go store.RunSweeper(ctx, time.Millisecond, 30*time.Minute, func(n int) { swept <- n })

	select {
	case n := <-swept:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never reported removed sessions")
	}
	assert.Zero(t, store.Len())
}
