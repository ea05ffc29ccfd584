package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		Feed: FeedConfig{
			Endpoint:           "http://127.0.0.1:0/disaster",
			Source:             "api",
			HTTPTimeout:        5 * time.Second,
			UserAgent:          "jaenan-test/1.0",
			RefreshCooldown:    15 * time.Second,
			PageSize:           10,
			PageWindow:         5,
			Regions:            def.Feed.Regions,
			AllowLocalEndpoint: true,
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Share: def.Share,
		UI:    def.UI,
		Keys:  def.Keys,
		Log:   LogConfig{Level: "off"},
	}
}
