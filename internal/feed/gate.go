package feed

import (
	"sync"
	"time"
)

// DefaultCooldown is the manual refresh cool-down in seconds.
const DefaultCooldown = 15

// Gate rate-limits manual refreshes. An accepted request closes the gate for
// cooldown seconds; one goroutine counts down once per second and exits when
// the count reaches zero or the gate is closed for good.
type Gate struct {
	clock    Clock
	cooldown int
	onTick   func(remaining int)

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	wg        sync.WaitGroup
	shutdown  bool
}

// NewGate returns an open gate. onTick, if set, runs on the countdown
// goroutine after every decrement, without the gate's lock held.
func NewGate(clock Clock, cooldown int, onTick func(remaining int)) *Gate {
	if clock == nil {
		clock = SystemClock{}
	}
	if cooldown < 1 {
		cooldown = DefaultCooldown
	}
	return &Gate{
		clock:    clock,
		cooldown: cooldown,
		onTick:   onTick,
	}
}

// Remaining is the number of seconds until the gate opens; zero means open.
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining
}

// TryAcquire closes an open gate and starts the countdown. A closed gate is
// left untouched: the request is neither queued nor does it extend the
// cool-down.
func (g *Gate) TryAcquire() (bool, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.shutdown {
		return false, 0
	}
	if g.remaining > 0 {
		return false, g.remaining
	}

	g.remaining = g.cooldown
	g.stop = make(chan struct{})
	g.wg.Add(1)
	go g.countdown(g.clock.NewTicker(time.Second), g.stop)
	return true, g.remaining
}

func (g *Gate) countdown(t Ticker, stop chan struct{}) {
	defer g.wg.Done()
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
		}

		g.mu.Lock()
		select {
		case <-stop:
			g.mu.Unlock()
			return
		default:
		}
		g.remaining--
		left := g.remaining
		g.mu.Unlock()

		if g.onTick != nil {
			g.onTick(left)
		}
		if left <= 0 {
			return
		}
	}
}

// Close stops the countdown, resets the gate and waits for the countdown
// goroutine to exit. A closed gate rejects every later request. It must not
// be called from onTick.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.shutdown {
		g.mu.Unlock()
		return
	}
	g.shutdown = true
	g.remaining = 0
	if g.stop != nil {
		close(g.stop)
	}
	g.mu.Unlock()

	g.wg.Wait()
}
