package alert

import "fmt"

// InteractionState tracks what the user is doing with a single message.
type InteractionState int

const (
	StateIdle InteractionState = iota
	StateSelected
	StateCopied
	StateShared
	StateCancelled
)

func (s InteractionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateCopied:
		return "copied"
	case StateShared:
		return "shared"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Interaction is the Idle -> Selected -> {Copied|Shared|Cancelled} -> Idle
// cycle. It produces payloads only; the clipboard and share sheet are driven
// by the caller.
type Interaction struct {
	state   InteractionState
	message Message
}

// State returns the current state.
func (i *Interaction) State() InteractionState { return i.state }

// Message returns the selected message. Only meaningful outside StateIdle.
func (i *Interaction) Message() Message { return i.message }

// Select starts an interaction. Selecting while another selection is open
// replaces it.
func (i *Interaction) Select(m Message) {
	i.state = StateSelected
	i.message = m
}

// Copy finishes the interaction as copied and returns the clipboard payload.
func (i *Interaction) Copy() (string, error) {
	return i.finish(StateCopied)
}

// Share finishes the interaction as shared and returns the share payload.
func (i *Interaction) Share() (string, error) {
	return i.finish(StateShared)
}

// Cancel abandons the selection.
func (i *Interaction) Cancel() {
	if i.state == StateSelected {
		i.state = StateCancelled
	}
}

// Reset returns to idle after a terminal state has been handled.
func (i *Interaction) Reset() {
	i.state = StateIdle
	i.message = Message{}
}

func (i *Interaction) finish(to InteractionState) (string, error) {
	if i.state != StateSelected {
		return "", fmt.Errorf("no message selected (state %s)", i.state)
	}
	i.state = to
	return ShareText(i.message), nil
}
