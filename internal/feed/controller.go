// Package feed owns the query, the current result page and the manual refresh
// gate, and applies fetch results in issue order.
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/source"
)

// NoticeKind classifies advisory notices raised by the controller.
type NoticeKind int

const (
	NoticeFetchError NoticeKind = iota + 1
	NoticeRefreshDenied
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeFetchError:
		return "fetch-error"
	case NoticeRefreshDenied:
		return "refresh-denied"
	default:
		return "unknown"
	}
}

// Notice is a transient, user-facing message. It never changes state.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	// Remaining is set for NoticeRefreshDenied.
	Remaining int
	// Err is set for NoticeFetchError.
	Err error
}

const (
	fetchErrorTitle   = "데이터를 가져오지 못했습니다."
	fetchErrorMessage = "인터넷 연결을 확인해주세요."
	deniedTitle       = "서버 부하를 줄이기 위해 잠시 뒤 수동으로 새로고침을 할 수 있습니다!"
	deniedMessageFmt  = "%d초 뒤 가능합니다!"
)

// State is an immutable snapshot of the controller.
type State struct {
	Query      alert.Query
	Records    []alert.Message
	Visible    []alert.Message
	TotalPages int
	Loading    bool
	// CooldownRemaining is zero while manual refresh is available.
	CooldownRemaining int
	Window            alert.Window
	// Version increases with every change.
	Version uint64
}

type Options struct {
	Clock      Clock
	Cooldown   int
	PageSize   int
	WindowSize int
	// OnChange and OnNotice run on the goroutine that caused the change,
	// never with the controller's lock held. They must not block.
	OnChange func(State)
	OnNotice func(Notice)
}

// Controller drives fetches for a single query. All methods are safe for
// concurrent use.
type Controller struct {
	src        source.Source
	windowSize int
	onChange   func(State)
	onNotice   func(Notice)

	ctx    context.Context
	cancel context.CancelFunc
	gate   *Gate

	mu         sync.Mutex
	query      alert.Query
	records    []alert.Message
	totalPages int
	seq        uint64
	inflight   bool
	loaded     bool
	version    uint64
	closed     bool
}

func NewController(src source.Source, opts Options) *Controller {
	q := alert.NewQuery()
	if alert.ValidPageSize(opts.PageSize) {
		q.PageSize = opts.PageSize
	}
	if opts.WindowSize < 1 {
		opts.WindowSize = alert.DefaultWindowSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		src:        src,
		windowSize: opts.WindowSize,
		onChange:   opts.OnChange,
		onNotice:   opts.OnNotice,
		ctx:        ctx,
		cancel:     cancel,
		query:      q,
	}
	c.gate = NewGate(opts.Clock, opts.Cooldown, c.cooldownTick)
	return c
}

// Start issues the initial fetch.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	seq, q := c.issueLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(st)
	go c.fetch(seq, q)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetSearchTerm replaces the search term and fetches page 1.
func (c *Controller) SetSearchTerm(term string) {
	c.mutate(func(q *alert.Query) {
		if q.SearchTerm == term {
			return
		}
		q.SearchTerm = term
		q.Page = 1
	})
}

// ToggleRegion adds or removes one region from the filter and fetches page 1.
func (c *Controller) ToggleRegion(region string) {
	c.mutate(func(q *alert.Query) {
		*q = q.ToggleRegion(region)
		q.Page = 1
	})
}

// ClearRegions drops the region filter.
func (c *Controller) ClearRegions() {
	c.mutate(func(q *alert.Query) {
		if len(q.Regions) == 0 {
			return
		}
		q.Regions = nil
		q.Page = 1
	})
}

// SetPage fetches page. Pages below 1 or beyond the known total are ignored.
func (c *Controller) SetPage(page int) {
	c.mutate(func(q *alert.Query) { c.pageTo(q, page) })
}

func (c *Controller) NextPage() {
	c.mutate(func(q *alert.Query) { c.pageTo(q, q.Page+1) })
}

func (c *Controller) PrevPage() {
	c.mutate(func(q *alert.Query) { c.pageTo(q, q.Page-1) })
}

func (c *Controller) FirstPage() { c.SetPage(1) }

func (c *Controller) LastPage() {
	c.mutate(func(q *alert.Query) {
		if c.totalPages > 0 {
			c.pageTo(q, c.totalPages)
		}
	})
}

// PrevWindow jumps to the first page of the previous window.
func (c *Controller) PrevWindow() {
	c.mutate(func(q *alert.Query) {
		c.windowTo(q, alert.PageWindow(q.Page, c.totalPages, c.windowSize).Previous())
	})
}

// NextWindow jumps to the page after the current window.
func (c *Controller) NextWindow() {
	c.mutate(func(q *alert.Query) {
		c.windowTo(q, alert.PageWindow(q.Page, c.totalPages, c.windowSize).Next())
	})
}

// pageTo and windowTo run under c.mu.
func (c *Controller) pageTo(q *alert.Query, page int) {
	if page < 1 || (c.loaded && page > max(c.totalPages, 1)) {
		return
	}
	q.Page = page
}

func (c *Controller) windowTo(q *alert.Query, page int) {
	if alert.InRange(page, c.totalPages) {
		q.Page = page
	}
}

// SetPageSize changes how many fetched records are visible. It is a display
// setting only: no fetch is issued and the server page is unchanged.
// Sizes outside [1,10] are ignored.
func (c *Controller) SetPageSize(n int) {
	c.mu.Lock()
	if c.closed || !alert.ValidPageSize(n) || c.query.PageSize == n {
		c.mu.Unlock()
		return
	}
	c.query.PageSize = n
	c.version++
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(st)
}

// RequestManualRefresh refetches the current query if the cool-down has
// elapsed. Otherwise it raises a NoticeRefreshDenied and returns the seconds
// remaining.
func (c *Controller) RequestManualRefresh() (bool, int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, 0
	}

	accepted, remaining := c.gate.TryAcquire()
	if !accepted {
		c.mu.Unlock()
		debuglog.Debugf("manual refresh denied, %ds remaining", remaining)
		c.notify(Notice{
			Kind:      NoticeRefreshDenied,
			Title:     deniedTitle,
			Message:   fmt.Sprintf(deniedMessageFmt, remaining),
			Remaining: remaining,
		})
		return false, remaining
	}

	seq, q := c.issueLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()

	debuglog.Infof("manual refresh accepted, page %d", q.Page)
	c.emit(st)
	go c.fetch(seq, q)
	return true, remaining
}

// Close cancels in-flight fetches, stops the countdown and discards any
// result that arrives afterwards. It is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.inflight = false
	c.mu.Unlock()

	c.cancel()
	c.gate.Close()
}

func (c *Controller) mutate(fn func(q *alert.Query)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	next := c.query.Clone()
	fn(&next)
	if next.SameRequest(c.query) {
		c.mu.Unlock()
		return
	}
	c.query = next

	seq, q := c.issueLocked()
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(st)
	go c.fetch(seq, q)
}

// issueLocked tags a new fetch for the current query.
func (c *Controller) issueLocked() (uint64, alert.Query) {
	c.seq++
	c.inflight = true
	c.version++
	return c.seq, c.query.Clone()
}

func (c *Controller) fetch(seq uint64, q alert.Query) {
	log := debuglog.With(debuglog.Fields{"seq": seq, "page": q.Page})
	page, err := c.src.Fetch(c.ctx, q)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		log.Debugf("discarding stale result")
		return
	}

	if err != nil {
		c.inflight = false
		c.version++
		st := c.snapshotLocked()
		c.mu.Unlock()

		log.Errorf("fetch failed: %v", err)
		c.emit(st)
		c.notify(Notice{
			Kind:    NoticeFetchError,
			Title:   fetchErrorTitle,
			Message: fetchErrorMessage,
			Err:     err,
		})
		return
	}

	// Records and totalPages stay paired: the clamped refetch replaces both.
	if limit := max(page.TotalPages, 1); c.query.Page > limit {
		c.loaded = true
		c.query.Page = limit
		nextSeq, nq := c.issueLocked()
		st := c.snapshotLocked()
		c.mu.Unlock()

		log.Infof("page beyond %d total pages, clamping", page.TotalPages)
		c.emit(st)
		go c.fetch(nextSeq, nq)
		return
	}

	c.records = alert.Normalize(page.Messages)
	c.totalPages = page.TotalPages
	c.loaded = true
	c.inflight = false
	c.version++
	st := c.snapshotLocked()
	c.mu.Unlock()

	log.Debugf("applied %d records", len(st.Records))
	c.emit(st)
}

func (c *Controller) cooldownTick(remaining int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.version++
	st := c.snapshotLocked()
	c.mu.Unlock()

	if remaining == 0 {
		debuglog.Debugf("manual refresh available again")
	}
	c.emit(st)
}

func (c *Controller) snapshotLocked() State {
	records := append([]alert.Message(nil), c.records...)
	return State{
		Query:             c.query.Clone(),
		Records:           records,
		Visible:           alert.Visible(records, c.query.PageSize),
		TotalPages:        c.totalPages,
		Loading:           c.inflight,
		CooldownRemaining: c.gate.Remaining(),
		Window:            alert.PageWindow(c.query.Page, c.totalPages, c.windowSize),
		Version:           c.version,
	}
}

func (c *Controller) emit(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

func (c *Controller) notify(n Notice) {
	if c.onNotice != nil {
		c.onNotice(n)
	}
}
