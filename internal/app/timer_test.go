package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseTimer_TicksDownAndExpiresOnce(t *testing.T) {
	timer := NewPhaseTimerWithInterval(2 * time.Millisecond)

	var mu sync.Mutex
	var ticks []int
	expires := 0
	var expiredGen uint64
	done := make(chan struct{})

	gen := timer.Start(3,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func(g uint64) {
			mu.Lock()
			expires++
			expiredGen = g
			mu.Unlock()
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer never expired")
	}

	// Give a stray duplicate expiry a chance to show up
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 1}, ticks)
	assert.Equal(t, 1, expires)
	assert.Equal(t, gen, expiredGen, "expiry carries its own countdown's generation")
}

func TestPhaseTimer_CancelSuppressesExpiry(t *testing.T) {
	timer := NewPhaseTimerWithInterval(5 * time.Millisecond)

	var mu sync.Mutex
	expired := false

	timer.Start(2, nil, func(uint64) {
		mu.Lock()
		expired = true
		mu.Unlock()
	})
	timer.Cancel()
	timer.Cancel() // idempotent

	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, expired)
}

func TestPhaseTimer_RestartCancelsPrevious(t *testing.T) {
	timer := NewPhaseTimerWithInterval(2 * time.Millisecond)

	var mu sync.Mutex
	var fired []uint64
	done := make(chan struct{})

	first := timer.Start(50, nil, func(g uint64) {
		mu.Lock()
		fired = append(fired, g)
		mu.Unlock()
	})
	second := timer.Start(2, nil, func(g uint64) {
		mu.Lock()
		fired = append(fired, g)
		mu.Unlock()
		close(done)
	})
	assert.NotEqual(t, first, second)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement timer never expired")
	}

	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []uint64{second}, fired, "only the live countdown may expire")
}
