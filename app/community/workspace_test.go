package community

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.Equal(t, "a", a.ID)

	now = now.Add(20 * time.Minute)
	r.Get("b")
	assert.Equal(t, 2, r.Len())

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep(30*time.Minute), "a idle for 35m")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.Get("a"), "swept workspace starts over")

	r.Forget("a")
	r.Forget("b")
	assert.Zero(t, r.Len())
}

func TestRegistryGetKeepsAlive(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }

	r.Get("a")
	now = now.Add(25 * time.Minute)
	r.Get("a")
	now = now.Add(25 * time.Minute)

	assert.Zero(t, r.Sweep(30*time.Minute))
}

func TestRegistryRunStops(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond, time.Hour) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWorkspaceThreads(t *testing.T) {
	ws := NewRegistry().Get("ws")
	_, ok := ws.Thread("p1")
	assert.False(t, ok)

	ws.setThread("p1", sampleThread())
	_, ok = ws.Thread("p1")
	assert.True(t, ok)

	ws.DropThread("p1")
	_, ok = ws.Thread("p1")
	assert.False(t, ok)
}

func TestNewID(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}
