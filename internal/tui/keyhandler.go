package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/storage"
)

type KeyHandler struct {
	app  *App
	keys config.KeyBindings
}

func NewKeyHandler(app *App, keys config.KeyBindings) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return true
	case ViewFind:
		return kh.app.findInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case kh.keys.Back:
		return kh.navigateBack()
	case "enter":
		if a.view == ViewSearch {
			// Commit now instead of waiting for the debounce.
			a.searchSeq++
			a.ctrl.SetSearchTerm(strings.TrimSpace(a.searchInput.Value()))
			a.searchInput.Blur()
			a.view = ViewMessages
			return a, nil
		}
		if items := a.findList.Items(); len(items) > 0 {
			if i, ok := items[0].(findItem); ok {
				return a, a.openDetail(i.result.Message)
			}
		}
		return a, nil
	case "tab", "down":
		if a.view == ViewFind && len(a.findList.Items()) > 0 {
			a.findInput.Blur()
			a.findList.Select(0)
			return a, nil
		}
	}

	return kh.delegateToTextInput(msg)
}

// delegateToTextInput passes the key to the focused input. Search edits are
// debounced; find queries run on every change.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch:
		prev := a.searchInput.Value()
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		if a.searchInput.Value() == prev {
			return a, cmd
		}
		a.searchSeq++
		seq := a.searchSeq
		wait := a.searchDebounce
		return a, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceMsg{seq: seq} }))

	case ViewFind:
		prev := a.findInput.Value()
		var cmd tea.Cmd
		a.findInput, cmd = a.findInput.Update(msg)
		query := strings.TrimSpace(a.findInput.Value())
		if query == strings.TrimSpace(prev) {
			return a, cmd
		}
		if len([]rune(query)) < 2 {
			a.findList.SetItems(nil)
			return a, cmd
		}
		return a, tea.Batch(cmd, a.find(query))
	}

	return a, nil
}

// handleCustomKeys handles the configured action keys.
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case "ctrl+c":
		return a, tea.Quit, true
	case kh.keys.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch a.view {
	case ViewMessages:
		return kh.handleMessagesKeys(key)
	case ViewRegions:
		return kh.handleRegionsKeys(key)
	case ViewActions:
		return kh.handleActionsKeys(key)
	case ViewDetail:
		return kh.handleDetailKeys(key)
	case ViewFind:
		if key == "tab" || key == "shift+tab" {
			a.findInput.Focus()
			return a, nil, true
		}
		if key == "enter" {
			if i, ok := a.findList.SelectedItem().(findItem); ok {
				return a, a.openDetail(i.result.Message), true
			}
			return a, nil, true
		}
	}
	return a, nil, false
}

func (kh *KeyHandler) handleMessagesKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	k := kh.keys

	switch key {
	case k.Quit:
		return a, tea.Quit, true
	case k.Search:
		a.view = ViewSearch
		a.searchInput.Focus()
		a.searchInput.CursorEnd()
		return a, nil, true
	case k.Regions:
		a.setRegionItems()
		a.previousView = ViewMessages
		a.view = ViewRegions
		return a, nil, true
	case k.Find:
		a.enterFind()
		return a, nil, true
	case k.Refresh:
		if accepted, _ := a.ctrl.RequestManualRefresh(); accepted {
			a.setStatus(MsgRefreshIssued, StatusInfo)
			return a, a.clearStatusLater(), true
		}
		// The denial arrives as a notice.
		return a, nil, true
	case k.NextPage:
		a.ctrl.NextPage()
		return a, nil, true
	case k.PrevPage:
		a.ctrl.PrevPage()
		return a, nil, true
	case k.NextWindow:
		a.ctrl.NextWindow()
		return a, nil, true
	case k.PrevWindow:
		a.ctrl.PrevWindow()
		return a, nil, true
	case k.FirstPage:
		a.ctrl.FirstPage()
		return a, nil, true
	case k.LastPage:
		a.ctrl.LastPage()
		return a, nil, true
	case k.MoreItems:
		a.ctrl.SetPageSize(a.state.Query.PageSize + 1)
		return a, nil, true
	case k.FewerItems:
		a.ctrl.SetPageSize(a.state.Query.PageSize - 1)
		return a, nil, true
	case k.Detail:
		if m, ok := a.selectedMessage(); ok {
			return a, a.openDetail(m), true
		}
		return a, nil, true
	case "enter":
		if m, ok := a.selectedMessage(); ok {
			a.openActions(m)
		}
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleRegionsKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case "enter", " ", "space", "x":
		if i, ok := a.regionList.SelectedItem().(regionItem); ok {
			a.ctrl.ToggleRegion(i.name)
		}
		return a, nil, true
	case "c":
		a.ctrl.ClearRegions()
		return a, nil, true
	case kh.keys.Quit:
		return a, tea.Quit, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleActionsKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case "c":
		return a, a.runAction(storage.ActionCopy), true
	case "s":
		return a, a.runAction(storage.ActionShare), true
	case "left", "up", "h", "k":
		if a.actionCursor > 0 {
			a.actionCursor--
		}
		return a, nil, true
	case "right", "down", "l", "j", "tab":
		if a.actionCursor < len(actionLabels)-1 {
			a.actionCursor++
		}
		return a, nil, true
	case "enter":
		switch a.actionCursor {
		case 0:
			return a, a.runAction(storage.ActionCopy), true
		case 1:
			return a, a.runAction(storage.ActionShare), true
		default:
			a.cancelAction()
			return a, a.clearStatusLater(), true
		}
	}
	// Swallow everything else while the modal is open.
	return a, nil, true
}

func (kh *KeyHandler) handleDetailKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case kh.keys.Quit:
		return a, tea.Quit, true
	case "enter":
		a.openActions(a.detail)
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch:
		a.searchInput.Blur()
		a.view = ViewMessages
	case ViewRegions:
		a.view = ViewMessages
	case ViewActions:
		a.cancelAction()
		return a, a.clearStatusLater()
	case ViewDetail:
		if a.previousView == ViewFind {
			a.view = ViewFind
			a.previousView = ViewMessages
		} else {
			a.view = ViewMessages
		}
	case ViewFind:
		a.findInput.Blur()
		a.view = ViewMessages
	default:
		if a.err != nil || a.status != "" {
			a.err = nil
			a.status = ""
		}
	}
	return a, nil
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewMessages:
		a.messageList, cmd = a.messageList.Update(msg)
	case ViewRegions:
		a.regionList, cmd = a.regionList.Update(msg)
	case ViewFind:
		a.findList, cmd = a.findList.Update(msg)
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

// GetHelpForCurrentView lists the key hints shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys

	switch kh.app.view {
	case ViewMessages:
		return []string{
			"Enter: 복사/공유",
			k.Detail + ": 자세히",
			k.Search + ": 검색",
			k.Regions + ": 지역",
			k.PrevPage + "/" + k.NextPage + ": 페이지",
			k.PrevWindow + k.NextWindow + ": 구간",
			k.Refresh + ": 새로고침",
			k.Find + ": 찾기",
			k.Quit + ": 종료",
		}
	case ViewSearch:
		return []string{"Enter: 적용", k.Back + ": 뒤로"}
	case ViewRegions:
		return []string{"Enter/Space: 선택", "c: 전체 해제", k.Back + ": 뒤로"}
	case ViewActions:
		return []string{"c: 복사", "s: 공유", k.Back + ": 취소"}
	case ViewDetail:
		return []string{"↑↓: 스크롤", "Enter: 복사/공유", k.Back + ": 뒤로"}
	case ViewFind:
		return []string{"Enter: 보기", k.Back + ": 뒤로"}
	default:
		return nil
	}
}
