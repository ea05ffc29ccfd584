package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/feed"
)

const noticeBuffer = 16

// Bridge carries controller callbacks into the bubbletea loop. Change
// signals coalesce: the app reads the latest state when it wakes up, so one
// pending signal is enough.
type Bridge struct {
	changed chan struct{}
	notices chan feed.Notice
	done    chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		changed: make(chan struct{}, 1),
		notices: make(chan feed.Notice, noticeBuffer),
		done:    make(chan struct{}),
	}
}

// OnChange is passed as feed.Options.OnChange.
func (b *Bridge) OnChange(feed.State) {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// OnNotice is passed as feed.Options.OnNotice.
func (b *Bridge) OnNotice(n feed.Notice) {
	select {
	case b.notices <- n:
	default:
		debuglog.Warnf("notice dropped: %s", n.Message)
	}
}

// Close releases any goroutine blocked in wait.
func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

// wait blocks until the controller reports something. The app re-arms it
// after handling each message.
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-b.notices:
			return noticeMsg{notice: n}
		case <-b.changed:
			return stateChangedMsg{}
		case <-b.done:
			return nil
		}
	}
}
