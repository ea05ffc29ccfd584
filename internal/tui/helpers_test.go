package tui

import (
	"sync"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/feed"
	"github.com/pders01/jaenan/internal/search"
	"github.com/pders01/jaenan/internal/storage"
)

type fakeController struct {
	mu       sync.Mutex
	calls    []string
	terms    []string
	toggled  []string
	sizes    []int
	state    feed.State
	accepted bool
	remain   int
}

func newFakeController() *fakeController {
	return &fakeController{state: feed.State{Query: alert.NewQuery()}, accepted: true}
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Start()            { f.record("start") }
func (f *fakeController) State() feed.State { return f.state }
func (f *fakeController) SetSearchTerm(term string) {
	f.record("search")
	f.terms = append(f.terms, term)
}
func (f *fakeController) ToggleRegion(region string) {
	f.record("toggle")
	f.toggled = append(f.toggled, region)
}
func (f *fakeController) ClearRegions() { f.record("clear") }
func (f *fakeController) NextPage()     { f.record("next") }
func (f *fakeController) PrevPage()     { f.record("prev") }
func (f *fakeController) FirstPage()    { f.record("first") }
func (f *fakeController) LastPage()     { f.record("last") }
func (f *fakeController) PrevWindow()   { f.record("prev-window") }
func (f *fakeController) NextWindow()   { f.record("next-window") }
func (f *fakeController) SetPageSize(n int) {
	f.record("size")
	f.sizes = append(f.sizes, n)
}
func (f *fakeController) RequestManualRefresh() (bool, int) {
	f.record("refresh")
	return f.accepted, f.remain
}
func (f *fakeController) Close() { f.record("close") }

func (f *fakeController) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type fakeSharer struct {
	copied []string
	shared []string
	err    error
}

func (f *fakeSharer) Copy(text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.copied = append(f.copied, text)
	return "clipboard", nil
}

func (f *fakeSharer) Share(text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.shared = append(f.shared, text)
	return "termux-share", nil
}

type fakeRecorder struct {
	records []*storage.Interaction
}

func (f *fakeRecorder) RecordInteraction(it *storage.Interaction) error {
	f.records = append(f.records, it)
	return nil
}

var testMessages = []alert.Message{
	{ID: "1", Index: 0, Text: "[호우경보] 하천 접근 금지", Locations: []string{"경기도", "서울특별시"}, SentAt: "2024-07-01 10:00:00"},
	{Index: 1, Text: "산사태 위험 지역 대피 바랍니다", Locations: []string{"강원특별자치도"}, SentAt: "2024-07-01 09:30:00"},
	{ID: "3", Index: 2, Text: "[폭염주의보] 야외활동 자제", Locations: []string{"대구광역시"}, SentAt: "2024-07-01 09:00:00"},
}

type testApp struct {
	*App
	ctrl   *fakeController
	sharer *fakeSharer
	store  *fakeRecorder
}

func newTestApp() *testApp {
	ctrl := newFakeController()
	sharer := &fakeSharer{}
	store := &fakeRecorder{}
	app := NewApp(Deps{
		Config:     config.TestConfig(),
		Controller: ctrl,
		Sharer:     sharer,
		Store:      store,
		Index:      search.NewEngine(),
	})
	app.resize(100, 40)
	return &testApp{App: app, ctrl: ctrl, sharer: sharer, store: store}
}

// loaded pushes a state with testMessages through the app.
func (ta *testApp) loaded() {
	q := alert.NewQuery()
	ta.ctrl.state = feed.State{
		Query:      q,
		Records:    testMessages,
		Visible:    testMessages,
		TotalPages: 23,
		Window:     alert.PageWindow(1, 23, alert.DefaultWindowSize),
		Version:    2,
	}
	ta.Update(stateChangedMsg{})
}
