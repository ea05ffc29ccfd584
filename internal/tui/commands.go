package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/feed"
	"github.com/pders01/jaenan/internal/search"
	"github.com/pders01/jaenan/internal/storage"
)

type stateChangedMsg struct{}

type noticeMsg struct {
	notice feed.Notice
}

type searchDebounceMsg struct {
	seq int
}

type actionDoneMsg struct {
	action storage.Action
	method string
	err    error
}

type detailRenderedMsg struct {
	content string
}

type findResultsMsg struct {
	query   string
	results []*search.Result
}

type clearStatusMsg struct {
	seq int
}

type errorMsg struct {
	err error
}

const findLimit = 50

// handOff runs the copy or share off the update loop and records the
// completed interaction. Recording failures are logged only.
func (a *App) handOff(action storage.Action, m alert.Message, text string) tea.Cmd {
	sharer, store := a.sharer, a.store
	return func() tea.Msg {
		var (
			method string
			err    error
		)
		switch action {
		case storage.ActionShare:
			method, err = sharer.Share(text)
		default:
			method, err = sharer.Copy(text)
		}
		if err != nil {
			debuglog.With(debuglog.Fields{"action": action, "key": m.Key()}).Warnf("hand-off failed: %v", err)
			return actionDoneMsg{action: action, err: err}
		}

		if store != nil {
			rec := &storage.Interaction{
				Action:     action,
				MessageKey: m.Key(),
				Title:      alert.DisplayTitle(m),
				Text:       m.Text,
				SentAt:     m.SentAt,
			}
			if err := store.RecordInteraction(rec); err != nil {
				debuglog.Warnf("recording %s: %v", action, err)
			}
		}
		return actionDoneMsg{action: action, method: method}
	}
}

func detailMarkdown(m alert.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", alert.DisplayTitle(m))
	body := strings.TrimSpace(alert.Body(m))
	if body == "" {
		body = m.Text
	}
	b.WriteString(body)
	b.WriteString("\n\n---\n\n")
	if loc := m.LocationString(); loc != "" {
		fmt.Fprintf(&b, "**발송 지역:** %s\n\n", loc)
	}
	if m.SentAt != "" {
		fmt.Fprintf(&b, "**발송일:** %s\n", m.SentAt)
	}
	return b.String()
}

func renderDetail(r *glamour.TermRenderer, m alert.Message) tea.Cmd {
	return func() tea.Msg {
		out, err := r.Render(detailMarkdown(m))
		if err != nil {
			return detailRenderedMsg{content: fmt.Sprintf("렌더링 실패: %v\n\n%s", err, m.Text)}
		}
		return detailRenderedMsg{content: out}
	}
}

// find queries the session index. Queries shorter than two characters
// return no results.
func (a *App) find(query string) tea.Cmd {
	index := a.index
	return func() tea.Msg {
		if index == nil {
			return findResultsMsg{query: query}
		}
		results, err := index.Search(query, findLimit)
		if err != nil {
			return errorMsg{err: wrapErr("session search", err)}
		}
		return findResultsMsg{query: query, results: results}
	}
}

type messageItem struct {
	message alert.Message
}

func (i messageItem) Title() string {
	title, _, ok := alert.SplitTitle(i.message.Text)
	if ok {
		return TagStyle.Render("[" + title + "]")
	}
	return UntaggedStyle.Render(alert.DefaultTitle)
}

func (i messageItem) Description() string {
	desc := truncateEnd(oneLine(alert.Body(i.message)), 72)
	meta := i.message.SentAt
	if loc := i.message.LocationString(); loc != "" {
		meta += " • " + truncateEnd(loc, 30)
	}
	return renderMuted(desc) + TimeStyle.Render(" • "+meta)
}

func (i messageItem) FilterValue() string { return i.message.Text }

type regionItem struct {
	name     string
	selected bool
}

func (i regionItem) Title() string {
	if i.selected {
		return CheckedStyle.Render("[x]") + " " + i.name
	}
	return "[ ] " + i.name
}

func (i regionItem) Description() string { return "" }
func (i regionItem) FilterValue() string { return i.name }

type findItem struct {
	result *search.Result
}

func (i findItem) Title() string {
	return TagStyle.Render(alert.DisplayTitle(i.result.Message))
}

func (i findItem) Description() string {
	snippet := i.result.Snippet
	if snippet == "" {
		snippet = alert.Body(i.result.Message)
	}
	fields := make([]string, 0, len(i.result.Matches))
	for _, m := range i.result.Matches {
		fields = append(fields, m.Field)
	}
	desc := truncateEnd(oneLine(snippet), 60)
	if len(fields) > 0 {
		desc += " • " + strings.Join(fields, ",")
	}
	return renderMuted(desc) + TimeStyle.Render(" • "+i.result.Message.SentAt)
}

func (i findItem) FilterValue() string { return i.result.Message.Text }
