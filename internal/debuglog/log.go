package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values disable logging
// so a typo never starts writing files behind the user's back.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelOff
	}
}

// DefaultPath is where log lines go when no file is configured.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jaenan", "jaenan.log")
}

var (
	mu     sync.Mutex
	level  = LevelOff
	logger *log.Logger
	closer io.Closer
)

// Setup opens path (or DefaultPath when empty) for appending and starts
// logging at lvl. LevelOff closes any open file and writes nothing.
func Setup(lvl Level, path string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	level = lvl
	if lvl == LevelOff {
		return nil
	}

	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	closer = f
	logger = log.New(f, "jaenan ", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// SetOutput routes log lines to w. Tests use it to capture output.
func SetOutput(lvl Level, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	level = lvl
	logger = log.New(w, "jaenan ", 0)
}

func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	var err error
	if closer != nil {
		err = closer.Close()
		closer = nil
	}
	logger = nil
	return err
}

func logf(lvl Level, suffix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil || level == LevelOff || lvl < level {
		return
	}
	logger.Printf("[%s] %s%s", lvl, fmt.Sprintf(format, args...), suffix)
}

func Debugf(format string, args ...any) { logf(LevelDebug, "", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "", format, args...) }

// Fields is a set of key/value pairs appended to every line of an Entry.
type Fields map[string]any

type Entry struct {
	suffix string
}

// With returns an Entry whose lines carry fields, sorted by key.
func With(fields Fields) Entry {
	if len(fields) == 0 {
		return Entry{}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return Entry{suffix: " [" + strings.Join(parts, " ") + "]"}
}

func (e Entry) Debugf(format string, args ...any) { logf(LevelDebug, e.suffix, format, args...) }
func (e Entry) Infof(format string, args ...any)  { logf(LevelInfo, e.suffix, format, args...) }
func (e Entry) Warnf(format string, args ...any)  { logf(LevelWarn, e.suffix, format, args...) }
func (e Entry) Errorf(format string, args ...any) { logf(LevelError, e.suffix, format, args...) }
