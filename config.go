package recherche

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all recherche configuration.
type Config struct {
	DBPath     string        `yaml:"db_path"`
	HTTPAddr   string        `yaml:"http_addr"` // empty = no HTTP endpoints
	MaxResults int           `yaml:"max_results"`
	Browser    BrowserConfig `yaml:"browser"`
}

// BrowserConfig controls the Chrome renderer.
type BrowserConfig struct {
	RemoteURL    string        `yaml:"remote_url"`
	UserAgent    string        `yaml:"user_agent"`
	NavTimeout   time.Duration `yaml:"nav_timeout"`
	RecycleAfter time.Duration `yaml:"recycle_after"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "recherche.db"
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 30 * time.Second
	}
	if c.Browser.RecycleAfter <= 0 {
		c.Browser.RecycleAfter = 4 * time.Hour
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
