package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/jaenan/internal/alert"
)

// DefaultEndpoint is the public disaster message API.
const DefaultEndpoint = "https://apis.uiharu.dev/disaster/get_disaster_messages.php"

type Config struct {
	Feed     FeedConfig     `mapstructure:"feed"`
	Database DatabaseConfig `mapstructure:"database"`
	Share    ShareConfig    `mapstructure:"share"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type FeedConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// Source selects the upstream adapter: "api", "rss" or "auto".
	Source string `mapstructure:"source"`
	// HTTPTimeout of zero leaves the transport default in place.
	HTTPTimeout        time.Duration `mapstructure:"http_timeout"`
	UserAgent          string        `mapstructure:"user_agent"`
	RefreshCooldown    time.Duration `mapstructure:"refresh_cooldown"`
	PageSize           int           `mapstructure:"page_size"`
	PageWindow         int           `mapstructure:"page_window"`
	Regions            []string      `mapstructure:"regions"`
	AllowLocalEndpoint bool          `mapstructure:"allow_local_endpoint"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ShareConfig struct {
	Darwin  ShareCommands `mapstructure:"darwin"`
	Linux   ShareCommands `mapstructure:"linux"`
	Windows ShareCommands `mapstructure:"windows"`
}

// ShareCommands lists candidate executables, first installed one wins.
type ShareCommands struct {
	Clipboard []string `mapstructure:"clipboard"`
	Share     []string `mapstructure:"share"`
}

type UIConfig struct {
	Colors         UIColors      `mapstructure:"colors"`
	SummaryCount   int           `mapstructure:"summary_count"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Search     string `mapstructure:"search"`
	Regions    string `mapstructure:"regions"`
	Refresh    string `mapstructure:"refresh"`
	Find       string `mapstructure:"find"`
	Detail     string `mapstructure:"detail"`
	PrevPage   string `mapstructure:"prev_page"`
	NextPage   string `mapstructure:"next_page"`
	PrevWindow string `mapstructure:"prev_window"`
	NextWindow string `mapstructure:"next_window"`
	FirstPage  string `mapstructure:"first_page"`
	LastPage   string `mapstructure:"last_page"`
	MoreItems  string `mapstructure:"more_items"`
	FewerItems string `mapstructure:"fewer_items"`
	Back       string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Feed: FeedConfig{
			Endpoint:        DefaultEndpoint,
			Source:          "auto",
			UserAgent:       "jaenan/1.0 (https://github.com/pders01/jaenan)",
			RefreshCooldown: 15 * time.Second,
			PageSize:        alert.DefaultPageSize,
			PageWindow:      alert.DefaultWindowSize,
			Regions:         append([]string(nil), alert.Regions...),
		},
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".jaenan", "history.db"),
			Timeout: 1 * time.Second,
		},
		Share: ShareConfig{
			Darwin: ShareCommands{
				Clipboard: []string{"pbcopy"},
				Share:     []string{"shortcuts"},
			},
			Linux: ShareCommands{
				Clipboard: []string{"wl-copy", "xclip", "xsel"},
				Share:     []string{"termux-share", "kdeconnect-cli"},
			},
			Windows: ShareCommands{
				Clipboard: []string{"clip"},
				Share:     []string{},
			},
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			SummaryCount:   5,
			SearchDebounce: 300 * time.Millisecond,
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:       "q",
				Search:     "/",
				Regions:    "f",
				Refresh:    "r",
				Find:       "ctrl+f",
				Detail:     "v",
				PrevPage:   "left",
				NextPage:   "right",
				PrevWindow: "[",
				NextWindow: "]",
				FirstPage:  "g",
				LastPage:   "G",
				MoreItems:  "+",
				FewerItems: "-",
				Back:       "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".jaenan", "jaenan.log"),
		},
	}
}

// Platform returns the share commands for the running OS.
func (c ShareConfig) Platform() ShareCommands {
	switch runtime.GOOS {
	case "darwin":
		return c.Darwin
	case "windows":
		return c.Windows
	default:
		return c.Linux
	}
}

// Cooldown returns the refresh cool-down in whole seconds, at least one.
func (f FeedConfig) Cooldown() int {
	secs := int(f.RefreshCooldown / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "jaenan")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("JAENAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so a partial section in the config
// file still inherits the remaining defaults.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("feed.endpoint", cfg.Feed.Endpoint)
	v.SetDefault("feed.source", cfg.Feed.Source)
	v.SetDefault("feed.http_timeout", cfg.Feed.HTTPTimeout)
	v.SetDefault("feed.user_agent", cfg.Feed.UserAgent)
	v.SetDefault("feed.refresh_cooldown", cfg.Feed.RefreshCooldown)
	v.SetDefault("feed.page_size", cfg.Feed.PageSize)
	v.SetDefault("feed.page_window", cfg.Feed.PageWindow)
	v.SetDefault("feed.regions", cfg.Feed.Regions)
	v.SetDefault("feed.allow_local_endpoint", cfg.Feed.AllowLocalEndpoint)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	for name, cmds := range shareMap(cfg.Share) {
		for kind, list := range cmds {
			v.SetDefault("share."+name+"."+kind, list)
		}
	}

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.summary_count", cfg.UI.SummaryCount)
	v.SetDefault("ui.search_debounce", cfg.UI.SearchDebounce)

	for key, val := range bindingMap(cfg.Keys.Bindings) {
		v.SetDefault("keys.bindings."+key, val)
	}

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

func bindingMap(b KeyBindings) map[string]string {
	return map[string]string{
		"quit":        b.Quit,
		"search":      b.Search,
		"regions":     b.Regions,
		"refresh":     b.Refresh,
		"find":        b.Find,
		"detail":      b.Detail,
		"prev_page":   b.PrevPage,
		"next_page":   b.NextPage,
		"prev_window": b.PrevWindow,
		"next_window": b.NextWindow,
		"first_page":  b.FirstPage,
		"last_page":   b.LastPage,
		"more_items":  b.MoreItems,
		"fewer_items": b.FewerItems,
		"back":        b.Back,
	}
}

func shareMap(c ShareConfig) map[string]map[string][]string {
	out := make(map[string]map[string][]string, 3)
	for name, cmds := range map[string]ShareCommands{
		"darwin":  c.Darwin,
		"linux":   c.Linux,
		"windows": c.Windows,
	} {
		out[name] = map[string][]string{
			"clipboard": cmds.Clipboard,
			"share":     cmds.Share,
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Feed.Endpoint == "" {
		return fmt.Errorf("feed.endpoint must not be empty")
	}
	if !alert.ValidPageSize(cfg.Feed.PageSize) {
		return fmt.Errorf("feed.page_size must be between %d and %d, got %d",
			alert.MinPageSize, alert.MaxPageSize, cfg.Feed.PageSize)
	}
	if cfg.Feed.PageWindow < 1 {
		return fmt.Errorf("feed.page_window must be positive, got %d", cfg.Feed.PageWindow)
	}
	switch cfg.Feed.Source {
	case "", "auto", "api", "rss":
	default:
		return fmt.Errorf("feed.source must be one of auto, api, rss; got %q", cfg.Feed.Source)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings so the TOML stays readable
	feedCfg := map[string]interface{}{
		"endpoint":             config.Feed.Endpoint,
		"source":               config.Feed.Source,
		"http_timeout":         config.Feed.HTTPTimeout.String(),
		"user_agent":           config.Feed.UserAgent,
		"refresh_cooldown":     config.Feed.RefreshCooldown.String(),
		"page_size":            config.Feed.PageSize,
		"page_window":          config.Feed.PageWindow,
		"regions":              config.Feed.Regions,
		"allow_local_endpoint": config.Feed.AllowLocalEndpoint,
	}

	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	c := config.UI.Colors
	uiCfg := map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   c.Primary,
			"secondary": c.Secondary,
			"accent":    c.Accent,
			"text":      c.Text,
			"muted":     c.Muted,
			"error":     c.Error,
			"success":   c.Success,
		},
		"summary_count":   config.UI.SummaryCount,
		"search_debounce": config.UI.SearchDebounce.String(),
	}

	v.Set("feed", feedCfg)
	v.Set("database", dbCfg)
	v.Set("share", shareMap(config.Share))
	v.Set("ui", uiCfg)
	v.Set("keys", map[string]interface{}{"bindings": bindingMap(config.Keys.Bindings)})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
