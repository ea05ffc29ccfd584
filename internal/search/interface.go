// Package search finds messages already seen during the running session.
// Nothing is persisted: the index lives only as long as the process.
package search

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/debuglog"
)

// Result is one matching message.
type Result struct {
	Message alert.Message
	Score   float64
	Snippet string
	Matches []Match
}

// Match records which field a query hit.
type Match struct {
	Field  string // "title", "body", "locations"
	Text   string
	Weight float64
}

// Searcher is the session index used by the TUI and CLI.
type Searcher interface {
	// Index adds messages; re-indexing a message already seen is a no-op.
	Index(msgs []alert.Message) error
	Search(query string, limit int) ([]*Result, error)
	DocCount() (int, error)
	Close() error
}

// New returns the bleve-backed index, or the plain in-memory engine when the
// index cannot be created.
func New() Searcher {
	eng, err := NewBleveEngine()
	if err != nil {
		debuglog.Warnf("bleve index unavailable, using simple search: %v", err)
		return NewEngine()
	}
	return eng
}

// DocID identifies a message across pages. Upstream IDs are optional and
// list positions change between pages, so the content is hashed.
func DocID(m alert.Message) string {
	if m.ID != "" {
		return "id:" + m.ID
	}
	h := sha256.Sum256([]byte(m.Text + "|" + m.SentAt + "|" + strings.Join(m.Locations, alert.LocationSeparator)))
	return fmt.Sprintf("msg:%x", h[:12])
}

func tooShort(query string) bool {
	return len([]rune(strings.TrimSpace(query))) < 2
}
