package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyHandler_PageNavigation(t *testing.T) {
	tests := []struct {
		key  string
		call string
	}{
		{"right", "next"},
		{"left", "prev"},
		{"]", "next-window"},
		{"[", "prev-window"},
		{"g", "first"},
		{"G", "last"},
		{"r", "refresh"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ta := newTestApp()
			ta.loaded()
			ta.Update(key(tt.key))
			assert.Equal(t, tt.call, ta.ctrl.lastCall())
		})
	}
}

func TestKeyHandler_PageSize(t *testing.T) {
	ta := newTestApp()
	ta.loaded()

	ta.Update(key("-"))
	ta.Update(key("+"))
	assert.Equal(t, []int{9, 11}, ta.ctrl.sizes, "the controller rejects out-of-range sizes")
}

func TestKeyHandler_RefreshStatus(t *testing.T) {
	ta := newTestApp()
	ta.Update(key("r"))
	assert.Equal(t, MsgRefreshIssued, ta.status)

	ta = newTestApp()
	ta.ctrl.accepted = false
	ta.ctrl.remain = 5
	ta.Update(key("r"))
	assert.Empty(t, ta.status, "denial is reported through the notice")
}

func TestKeyHandler_CustomBindings(t *testing.T) {
	ta := newTestApp()
	ta.keyHandler.keys.NextPage = "n"
	ta.keyHandler.keys.Search = "s"

	ta.Update(key("n"))
	assert.Equal(t, "next", ta.ctrl.lastCall())

	ta.Update(key("right"))
	assert.Equal(t, "next", ta.ctrl.lastCall())
	assert.Len(t, ta.ctrl.calls, 1, "default binding no longer pages")

	ta.Update(key("s"))
	assert.Equal(t, ViewSearch, ta.view)
}

func TestKeyHandler_TypingDoesNotTriggerActions(t *testing.T) {
	ta := newTestApp()
	ta.Update(key("/"))
	ta.Update(key("q"))
	ta.Update(key("r"))
	ta.Update(key("g"))

	assert.Equal(t, ViewSearch, ta.view)
	assert.Equal(t, "qrg", ta.searchInput.Value())
	assert.Empty(t, ta.ctrl.calls)
}

func TestKeyHandler_ActionsModalSwallowsKeys(t *testing.T) {
	ta := newTestApp()
	ta.loaded()
	ta.Update(key("enter"))
	before := len(ta.ctrl.calls)

	ta.Update(key("right"))
	ta.Update(key("q"))
	assert.Equal(t, ViewActions, ta.view)
	assert.Len(t, ta.ctrl.calls, before)
	assert.Equal(t, 1, ta.actionCursor)
}

func TestKeyHandler_Help(t *testing.T) {
	ta := newTestApp()
	for _, v := range []View{ViewMessages, ViewSearch, ViewRegions, ViewActions, ViewDetail, ViewFind} {
		ta.view = v
		assert.NotEmpty(t, ta.keyHandler.GetHelpForCurrentView(), v.String())
	}
}
