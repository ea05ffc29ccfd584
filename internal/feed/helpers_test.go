package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pders01/jaenan/internal/alert"
)

const waitTimeout = 2 * time.Second

type manualTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (m *manualClock) NewTicker(time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time)}
	m.tickers = append(m.tickers, t)
	return t
}

func (m *manualClock) latest() *manualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tickers) == 0 {
		return nil
	}
	return m.tickers[len(m.tickers)-1]
}

func (m *manualClock) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// tick delivers one tick to the newest ticker.
func (m *manualClock) tick(t *testing.T) {
	t.Helper()
	tk := m.latest()
	if tk == nil {
		t.Fatal("no ticker started")
	}
	select {
	case tk.c <- time.Now():
	case <-time.After(waitTimeout):
		t.Fatal("ticker not being read")
	}
}

type fetchResult struct {
	page *alert.Page
	err  error
}

type fetchCall struct {
	query alert.Query
	resp  chan fetchResult
}

func (c *fetchCall) succeed(total int, texts ...string) {
	msgs := make([]alert.Message, len(texts))
	for i, text := range texts {
		msgs[i] = alert.Message{Text: text, Locations: []string{"경기도", "경기도"}, SentAt: "2024-07-10"}
	}
	c.resp <- fetchResult{page: &alert.Page{Messages: msgs, TotalPages: total}}
}

func (c *fetchCall) fail(err error) {
	c.resp <- fetchResult{err: err}
}

// scriptedSource hands every Fetch to the test, which answers it explicitly.
type scriptedSource struct {
	calls chan *fetchCall
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{calls: make(chan *fetchCall, 16)}
}

func (s *scriptedSource) Fetch(ctx context.Context, q alert.Query) (*alert.Page, error) {
	call := &fetchCall{query: q, resp: make(chan fetchResult, 1)}
	s.calls <- call
	select {
	case r := <-call.resp:
		return r.page, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *scriptedSource) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("expected a fetch")
		return nil
	}
}

func (s *scriptedSource) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected fetch for page %d", c.query.Page)
	case <-time.After(50 * time.Millisecond):
	}
}

type recorder struct {
	states  chan State
	notices chan Notice
}

func newRecorder() *recorder {
	return &recorder{
		states:  make(chan State, 256),
		notices: make(chan Notice, 16),
	}
}

func (r *recorder) options(clock Clock) Options {
	return Options{
		Clock:    clock,
		Cooldown: DefaultCooldown,
		OnChange: func(s State) { r.states <- s },
		OnNotice: func(n Notice) { r.notices <- n },
	}
}

// waitState drains snapshots until one satisfies ok.
func (r *recorder) waitState(t *testing.T, what string, ok func(State) bool) State {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case s := <-r.states:
			if ok(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state: %s", what)
			return State{}
		}
	}
}

func (r *recorder) waitNotice(t *testing.T) Notice {
	t.Helper()
	select {
	case n := <-r.notices:
		return n
	case <-time.After(waitTimeout):
		t.Fatal("expected a notice")
		return Notice{}
	}
}

func loaded(s State) bool { return !s.Loading }

func firstText(text string) func(State) bool {
	return func(s State) bool {
		return !s.Loading && len(s.Records) > 0 && s.Records[0].Text == text
	}
}

func pageTexts(page, n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("p%d-%d", page, i)
	}
	return texts
}
