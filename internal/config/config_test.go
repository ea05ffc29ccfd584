package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Feed.Endpoint != DefaultEndpoint {
		t.Errorf("Feed.Endpoint = %s, want %s", cfg.Feed.Endpoint, DefaultEndpoint)
	}
	if cfg.Feed.RefreshCooldown != 15*time.Second {
		t.Errorf("Feed.RefreshCooldown = %v, want 15s", cfg.Feed.RefreshCooldown)
	}
	if cfg.Feed.HTTPTimeout != 0 {
		t.Errorf("Feed.HTTPTimeout = %v, want transport default (0)", cfg.Feed.HTTPTimeout)
	}
	if cfg.Feed.PageSize != 10 {
		t.Errorf("Feed.PageSize = %d, want 10", cfg.Feed.PageSize)
	}
	if cfg.Feed.PageWindow != 5 {
		t.Errorf("Feed.PageWindow = %d, want 5", cfg.Feed.PageWindow)
	}
	if len(cfg.Feed.Regions) != 13 {
		t.Errorf("len(Feed.Regions) = %d, want 13", len(cfg.Feed.Regions))
	}
	if cfg.Feed.UserAgent == "" {
		t.Error("Feed.UserAgent should not be empty")
	}
	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if cfg.UI.SummaryCount != 5 {
		t.Errorf("UI.SummaryCount = %d, want 5", cfg.UI.SummaryCount)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestCooldown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{15 * time.Second, 15},
		{30 * time.Second, 30},
		{1500 * time.Millisecond, 1},
		{0, 1},
	}
	for _, tt := range tests {
		f := FeedConfig{RefreshCooldown: tt.in}
		if got := f.Cooldown(); got != tt.want {
			t.Errorf("Cooldown(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[feed]
endpoint = "https://example.com/disaster"
source = "api"
http_timeout = "20s"
refresh_cooldown = "30s"
page_size = 5

[database]
path = "/tmp/jaenan-test.db"
timeout = "2s"

[keys.bindings]
quit = "x"
next_page = "l"
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.Endpoint != "https://example.com/disaster" {
		t.Errorf("Feed.Endpoint = %s", cfg.Feed.Endpoint)
	}
	if cfg.Feed.HTTPTimeout != 20*time.Second {
		t.Errorf("Feed.HTTPTimeout = %v, want 20s", cfg.Feed.HTTPTimeout)
	}
	if cfg.Feed.RefreshCooldown != 30*time.Second {
		t.Errorf("Feed.RefreshCooldown = %v, want 30s", cfg.Feed.RefreshCooldown)
	}
	if cfg.Feed.PageSize != 5 {
		t.Errorf("Feed.PageSize = %d, want 5", cfg.Feed.PageSize)
	}
	if cfg.Database.Path != "/tmp/jaenan-test.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Keys.Bindings.Quit != "x" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'x'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Keys.Bindings.NextPage != "l" {
		t.Errorf("Keys.Bindings.NextPage = %s, want 'l'", cfg.Keys.Bindings.NextPage)
	}
}

func TestLoad_PartialSectionKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[feed]
page_size = 3
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.PageSize != 3 {
		t.Errorf("Feed.PageSize = %d, want 3", cfg.Feed.PageSize)
	}
	if cfg.Feed.Endpoint != DefaultEndpoint {
		t.Errorf("Feed.Endpoint = %s, want default", cfg.Feed.Endpoint)
	}
	if cfg.Feed.RefreshCooldown != 15*time.Second {
		t.Errorf("Feed.RefreshCooldown = %v, want 15s", cfg.Feed.RefreshCooldown)
	}
	if cfg.Keys.Bindings.Search != "/" {
		t.Errorf("Keys.Bindings.Search = %s, want '/'", cfg.Keys.Bindings.Search)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"page size too large", "[feed]\npage_size = 11\n", "page_size"},
		{"page size zero", "[feed]\npage_size = 0\n", "page_size"},
		{"bad window", "[feed]\npage_window = 0\n", "page_window"},
		{"unknown source", "[feed]\nsource = \"ftp\"\n", "source"},
		{"empty endpoint", "[feed]\nendpoint = \"\"\n", "endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidSyntax(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[feed\nendpoint ="), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := TestConfig()
	cfg.Feed.Endpoint = "https://example.com/api"
	cfg.Feed.RefreshCooldown = 20 * time.Second
	cfg.Database.Path = "/tmp/history.db"
	cfg.Keys.Bindings.MoreItems = "="
	cfg.Share.Linux.Clipboard = []string{"xsel"}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Feed.Endpoint != cfg.Feed.Endpoint {
		t.Errorf("Feed.Endpoint = %s, want %s", loaded.Feed.Endpoint, cfg.Feed.Endpoint)
	}
	if loaded.Feed.RefreshCooldown != 20*time.Second {
		t.Errorf("Feed.RefreshCooldown = %v, want 20s", loaded.Feed.RefreshCooldown)
	}
	if loaded.Keys.Bindings.MoreItems != "=" {
		t.Errorf("Keys.Bindings.MoreItems = %s, want '='", loaded.Keys.Bindings.MoreItems)
	}
	if len(loaded.Share.Linux.Clipboard) != 1 || loaded.Share.Linux.Clipboard[0] != "xsel" {
		t.Errorf("Share.Linux.Clipboard = %v, want [xsel]", loaded.Share.Linux.Clipboard)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	if err := GenerateDefaultConfig(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.Endpoint != DefaultEndpoint {
		t.Errorf("Feed.Endpoint = %s, want default", cfg.Feed.Endpoint)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := expandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("expandPath(~/x/y.db) = %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %s, want empty", got)
	}
	if got := expandPath("rel.db"); !filepath.IsAbs(got) {
		t.Errorf("expandPath(rel.db) = %s, want absolute", got)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %s, want ':memory:'", cfg.Database.Path)
	}
	if cfg.Feed.UserAgent != "jaenan-test/1.0" {
		t.Errorf("Feed.UserAgent = %s", cfg.Feed.UserAgent)
	}
	if !cfg.Feed.AllowLocalEndpoint {
		t.Error("Feed.AllowLocalEndpoint should be true for tests")
	}
}
