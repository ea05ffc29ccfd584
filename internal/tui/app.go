package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/feed"
	"github.com/pders01/jaenan/internal/search"
	"github.com/pders01/jaenan/internal/storage"
)

// Controller is the part of feed.Controller the app drives.
type Controller interface {
	Start()
	State() feed.State
	SetSearchTerm(term string)
	ToggleRegion(region string)
	ClearRegions()
	NextPage()
	PrevPage()
	FirstPage()
	LastPage()
	PrevWindow()
	NextWindow()
	SetPageSize(n int)
	RequestManualRefresh() (bool, int)
	Close()
}

// Sharer hands text to the clipboard or a share command.
type Sharer interface {
	Copy(text string) (string, error)
	Share(text string) (string, error)
}

// Recorder keeps the copy/share history.
type Recorder interface {
	RecordInteraction(it *storage.Interaction) error
}

// Deps are the collaborators the app is wired to. Store and Index may be
// nil; history and find are then unavailable.
type Deps struct {
	Config     *config.Config
	Controller Controller
	Bridge     *Bridge
	Sharer     Sharer
	Store      Recorder
	Index      search.Searcher
}

const statusTTL = 4 * time.Second

type App struct {
	config     *config.Config
	ctrl       Controller
	bridge     *Bridge
	sharer     Sharer
	store      Recorder
	index      search.Searcher
	keyHandler *KeyHandler

	state        feed.State
	indexedUpTo  uint64
	messageList  list.Model
	regionList   list.Model
	findList     list.Model
	searchInput  textinput.Model
	findInput    textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	interaction  alert.Interaction
	actionCursor int
	detail       alert.Message

	view         View
	previousView View
	status       string
	statusKind   StatusKind
	statusSeq    int
	err          error

	searchSeq      int
	searchDebounce time.Duration

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(deps Deps) *App {
	cfg := deps.Config

	messageList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	messageList.Title = "› 재난문자"
	messageList.SetShowStatusBar(false)
	messageList.SetFilteringEnabled(false)
	messageList.SetShowHelp(false)
	messageList.SetShowPagination(false)
	messageList.SetShowTitle(false)

	regionDelegate := list.NewDefaultDelegate()
	regionDelegate.ShowDescription = false
	regionList := list.New([]list.Item{}, regionDelegate, 0, 0)
	regionList.Title = "› 지역 필터"
	regionList.SetShowStatusBar(false)
	regionList.SetFilteringEnabled(false)
	regionList.SetShowHelp(false)

	findList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	findList.Title = "› 세션 검색 결과"
	findList.SetShowStatusBar(false)
	findList.SetFilteringEnabled(false)
	findList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "검색어 입력…"
	si.Prompt = "› "

	fi := textinput.New()
	fi.Placeholder = "이번 세션에서 본 문자 찾기…"
	fi.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	debounce := cfg.UI.SearchDebounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	app := &App{
		config:         cfg,
		ctrl:           deps.Controller,
		bridge:         deps.Bridge,
		sharer:         deps.Sharer,
		store:          deps.Store,
		index:          deps.Index,
		messageList:    messageList,
		regionList:     regionList,
		findList:       findList,
		searchInput:    si,
		findInput:      fi,
		viewport:       viewport.New(0, 0),
		spinner:        sp,
		view:           ViewMessages,
		previousView:   ViewMessages,
		searchDebounce: debounce,
	}
	app.keyHandler = NewKeyHandler(app, cfg.Keys.Bindings)
	app.setRegionItems()

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wrap := (a.width * 9) / 10
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 30 {
		wrap = 30
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wrap) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wrap
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	a.ctrl.Start()
	cmds := []tea.Cmd{a.spinner.Tick}
	if a.bridge != nil {
		cmds = append(cmds, a.bridge.wait())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case stateChangedMsg:
		a.applyState(a.ctrl.State())
		return a, a.rearm()

	case noticeMsg:
		a.showNotice(msg.notice)
		return a, tea.Batch(a.rearm(), a.clearStatusLater())

	case searchDebounceMsg:
		if msg.seq == a.searchSeq {
			a.ctrl.SetSearchTerm(strings.TrimSpace(a.searchInput.Value()))
		}
		return a, nil

	case actionDoneMsg:
		return a, a.finishAction(msg)

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}
		return a, nil

	case findResultsMsg:
		if a.view == ViewFind && msg.query == strings.TrimSpace(a.findInput.Value()) {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = findItem{result: r}
			}
			a.findList.SetItems(items)
		}
		return a, nil

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.err = nil
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case errorMsg:
		a.err = msg.err
		return a, a.clearStatusLater()
	}

	switch a.view {
	case ViewMessages:
		var cmd tea.Cmd
		a.messageList, cmd = a.messageList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegions:
		var cmd tea.Cmd
		a.regionList, cmd = a.regionList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewDetail:
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	listHeight := height - 8
	if listHeight < 5 {
		listHeight = 5
	}
	a.messageList.SetSize(width, listHeight)
	a.regionList.SetSize(width, listHeight)

	findHeight := height - 10
	if findHeight < 5 {
		findHeight = 5
	}
	a.findList.SetSize(width, findHeight)

	a.viewport.Width = width
	a.viewport.Height = height - 3

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = width
	}
	a.searchInput.Width = inputWidth
	a.findInput.Width = inputWidth
}

func (a *App) rearm() tea.Cmd {
	if a.bridge == nil {
		return nil
	}
	return a.bridge.wait()
}

// applyState copies a controller snapshot into the widgets. Records are
// indexed for session find once per version.
func (a *App) applyState(st feed.State) {
	a.state = st

	items := make([]list.Item, len(st.Visible))
	for i, m := range st.Visible {
		items[i] = messageItem{message: m}
	}
	a.messageList.SetItems(items)
	a.setRegionItems()

	if a.index != nil && st.Version > a.indexedUpTo && len(st.Records) > 0 {
		if err := a.index.Index(st.Records); err != nil {
			debuglog.Warnf("indexing %d records: %v", len(st.Records), err)
		}
		a.indexedUpTo = st.Version
	}
}

func (a *App) setRegionItems() {
	regions := a.config.Feed.Regions
	if len(regions) == 0 {
		regions = alert.Regions
	}
	items := make([]list.Item, len(regions))
	for i, r := range regions {
		items[i] = regionItem{name: r, selected: a.state.Query.HasRegion(r)}
	}
	a.regionList.SetItems(items)
}

func (a *App) showNotice(n feed.Notice) {
	switch n.Kind {
	case feed.NoticeFetchError:
		a.setStatus(n.Title+": "+n.Message, StatusError)
		debuglog.Warnf("fetch notice: %v", n.Err)
	case feed.NoticeRefreshDenied:
		a.setStatus(n.Message, StatusWarn)
	default:
		a.setStatus(n.Message, StatusInfo)
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
	a.err = nil
}

// clearStatusLater drops the current status after statusTTL unless a newer
// one replaced it.
func (a *App) clearStatusLater() tea.Cmd {
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (a *App) selectedMessage() (alert.Message, bool) {
	if i, ok := a.messageList.SelectedItem().(messageItem); ok {
		return i.message, true
	}
	return alert.Message{}, false
}

func (a *App) openActions(m alert.Message) {
	a.interaction.Select(m)
	a.actionCursor = 0
	a.previousView = a.view
	a.view = ViewActions
}

// runAction completes the open interaction and hands the payload off.
func (a *App) runAction(action storage.Action) tea.Cmd {
	var (
		text string
		err  error
	)
	switch action {
	case storage.ActionCopy:
		text, err = a.interaction.Copy()
	case storage.ActionShare:
		text, err = a.interaction.Share()
	}
	if err != nil {
		a.err = err
		return nil
	}
	return a.handOff(action, a.interaction.Message(), text)
}

func (a *App) cancelAction() {
	a.interaction.Cancel()
	a.interaction.Reset()
	a.view = a.previousView
	a.setStatus(MsgCancelled, StatusInfo)
}

func (a *App) finishAction(msg actionDoneMsg) tea.Cmd {
	a.interaction.Reset()
	if a.view == ViewActions {
		a.view = a.previousView
	}
	if msg.err != nil {
		a.err = wrapErr(string(msg.action), msg.err)
		return a.clearStatusLater()
	}
	done := MsgCopied
	if msg.action == storage.ActionShare {
		done = MsgShared
	}
	a.setStatus(MsgHandedOff(done, msg.method), StatusSuccess)
	return a.clearStatusLater()
}

func (a *App) openDetail(m alert.Message) tea.Cmd {
	a.detail = m
	a.previousView = a.view
	a.view = ViewDetail
	a.viewport.SetContent(renderMuted(MsgLoading))

	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg { return detailRenderedMsg{content: err.Error()} }
	}
	return renderDetail(r, m)
}

func (a *App) enterFind() {
	a.previousView = a.view
	a.view = ViewFind
	a.findInput.Reset()
	a.findInput.Focus()
	a.findList.SetItems(nil)
}

func (a *App) View() string {
	var content string
	bodyHeight := a.height - 3

	switch a.view {
	case ViewMessages, ViewSearch:
		content = a.messagesView(bodyHeight)
	case ViewRegions:
		content = lipgloss.JoinVertical(lipgloss.Top,
			a.regionList.View(),
			renderHelp(MsgSelectedRegions(a.state.Query.Regions)),
		)
	case ViewActions:
		content = a.actionsView(bodyHeight)
	case ViewDetail:
		content = a.viewport.View()
	case ViewFind:
		content = a.findView()
	}

	content = ContentWrapper(a.width, bodyHeight).Render(content)

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) messagesView(height int) string {
	st := a.state
	w := st.Window

	title := "› 재난문자"
	if st.Loading {
		title += " " + a.spinner.View()
	}
	header := renderHeader(title, MsgQuerySummary(st.Query, st.TotalPages), a.width)

	var search string
	if a.view == ViewSearch || a.searchInput.Value() != "" {
		search = renderInputFrame(a.searchInput.View(), a.view == ViewSearch, a.searchInput.Width)
	}

	pager := renderPager(st.Query.Page, st.TotalPages, w.Pages(),
		alert.InRange(w.Previous(), st.TotalPages), alert.InRange(w.Next(), st.TotalPages))

	var body string
	if len(st.Visible) == 0 {
		msg := MsgNoMessages
		if st.Loading {
			msg = MsgLoading
		}
		body = renderCentered(a.width, height-6, GetCompactBanner(msg))
	} else {
		body = a.messageList.View()
	}

	rows := []string{header}
	if search != "" {
		rows = append(rows, search)
	}
	rows = append(rows, body, pager)
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

var actionLabels = []string{"복사", "공유", "취소"}

func (a *App) actionsView(height int) string {
	m := a.interaction.Message()

	modalWidth := (a.width * 4) / 5
	if modalWidth < 20 {
		modalWidth = a.width - 4
	}

	options := make([]string, len(actionLabels))
	for i, label := range actionLabels {
		if i == a.actionCursor {
			options[i] = SelectedItemStyle.Render(" " + label + " ")
		} else {
			options[i] = ModalTextStyle.Render(" " + label + " ")
		}
	}

	return renderCentered(a.width, height, lipgloss.JoinVertical(
		lipgloss.Center,
		ModalTitleStyle.Render(alert.DisplayTitle(m)),
		"",
		ModalTextStyle.Width(modalWidth).Align(lipgloss.Center).
			Render(truncateEnd(oneLine(alert.Body(m)), modalWidth*2)),
		"",
		LocationStyle.Render(truncateEnd(m.LocationString(), modalWidth)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(options)...),
		"",
		renderHelp("c: 복사 • s: 공유 • Esc: 취소"),
	))
}

func (a *App) findView() string {
	header := renderHeader("› 세션 검색", "이번 실행 중 본 재난문자에서 찾습니다", a.width)
	input := renderInputFrame(a.findInput.View(), a.findInput.Focused(), a.findInput.Width)

	var help string
	switch {
	case a.findInput.Focused():
		help = "입력하여 검색 • Tab/↓: 결과 • Esc: 뒤로"
	case len(a.findList.Items()) > 0:
		help = "↑↓: 이동 • Enter: 보기 • Tab: 입력창 • Esc: 뒤로"
	default:
		help = MsgNoResults + " • Tab: 입력창 • Esc: 뒤로"
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		header,
		"",
		input,
		renderMuted(help),
		"",
		a.findList.View(),
	)
}

func (a *App) statusBar() string {
	right := MsgRefreshReady
	if a.state.CooldownRemaining > 0 {
		right = MsgCooldown(a.state.CooldownRemaining)
	}
	right = TimeStyle.Render(right)

	var left string
	switch {
	case a.err != nil:
		left = ErrorMessageStyle.Render("✗ " + a.err.Error())
	case a.status != "":
		left = a.statusKind.style().Render(a.status)
	default:
		left = strings.Join(a.keyHandler.GetHelpForCurrentView(), " • ")
	}

	avail := a.width - lipgloss.Width(right) - 3
	if avail < 0 {
		avail = 0
	}
	left = lipgloss.NewStyle().MaxWidth(avail).Render(left)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}
