package debuglog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{Level(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("Level.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{" INFO ", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"verbose", LevelOff},
		{"", LevelOff},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jaenan.log")

	if err := Setup(LevelInfo, path); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer Close()

	Debugf("hidden %d", 1)
	Infof("fetched page %d", 3)
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[INFO] fetched page 3") {
		t.Errorf("log missing info line: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
}

func TestSetup_OffWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jaenan.log")

	if err := Setup(LevelOff, path); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	Errorf("nope")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not exist when logging is off")
	}
	if CurrentLevel() != LevelOff {
		t.Errorf("CurrentLevel() = %v, want OFF", CurrentLevel())
	}
}

func TestWith_SortedFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(LevelDebug, &buf)
	defer Close()

	With(Fields{"seq": 4, "page": 2}).Warnf("stale result")

	got := buf.String()
	if !strings.Contains(got, "[WARN] stale result [page=2 seq=4]") {
		t.Errorf("unexpected line %q", got)
	}
}

func TestWith_Empty(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(LevelDebug, &buf)
	defer Close()

	With(nil).Debugf("plain")
	if !strings.HasSuffix(strings.TrimSpace(buf.String()), "[DEBUG] plain") {
		t.Errorf("unexpected line %q", buf.String())
	}
}
