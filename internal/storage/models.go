package storage

import (
	"time"
)

// Action is what the user did with a message.
type Action string

const (
	ActionCopy  Action = "copy"
	ActionShare Action = "share"
)

// Interaction records one completed copy or share.
type Interaction struct {
	ID         string    `json:"id"`
	Action     Action    `json:"action"`
	MessageKey string    `json:"message_key"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	SentAt     string    `json:"sent_at"`
	At         time.Time `json:"at"`
}

// Stats summarizes the stored history.
type Stats struct {
	Total    int
	ByAction map[Action]int
	Last     time.Time
}
