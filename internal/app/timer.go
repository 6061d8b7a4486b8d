package app

import (
	"sync"
	"time"
)

// PhaseTimer is the one countdown a room may run at a time. Start cancels
// any previous countdown, ticks once per interval with the remaining
// seconds, and fires onExpire exactly once when the countdown reaches
// zero. A generation counter guards against a stale goroutine outliving
// its cancellation.
type PhaseTimer struct {
	mu       sync.Mutex
	gen      uint64
	stop     chan struct{}
	interval time.Duration
}

// NewPhaseTimer creates a timer ticking at one-second cadence
func NewPhaseTimer() *PhaseTimer {
	return NewPhaseTimerWithInterval(time.Second)
}

// NewPhaseTimerWithInterval creates a timer with a custom tick cadence.
// Tests shrink the cadence to keep countdown paths fast.
func NewPhaseTimerWithInterval(interval time.Duration) *PhaseTimer {
	return &PhaseTimer{interval: interval}
}

// Start begins a countdown of the given number of ticks. onTick receives
// the remaining count after each tick; onExpire runs once at zero with the
// countdown's generation. Start returns that same generation so a caller
// serializing expiries on its own lock can drop one that lost a race to a
// newer countdown. Either callback may be nil.
func (t *PhaseTimer) Start(seconds int, onTick func(remaining int), onExpire func(gen uint64)) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.gen++
	t.stop = make(chan struct{})

	go t.run(t.gen, t.stop, seconds, onTick, onExpire)
	return t.gen
}

// Cancel stops the active countdown and suppresses its expiry. Idempotent.
func (t *PhaseTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *PhaseTimer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// current reports whether gen is still the live generation
func (t *PhaseTimer) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

func (t *PhaseTimer) run(gen uint64, stop chan struct{}, seconds int, onTick func(int), onExpire func(uint64)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !t.current(gen) {
				return
			}
			remaining--
			if remaining <= 0 {
				if onExpire != nil {
					onExpire(gen)
				}
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}
