package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source describes one syndicated feed endpoint. Sources are loaded once at
// startup and never mutated; the slice order in the config file is the
// registry order.
type Source struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Priority int    `yaml:"priority"` // 1-10, higher = more important
	Enabled  bool   `yaml:"enabled"`
}

type FetchConfig struct {
	Timeout        string `yaml:"timeout"`          // per-source fetch timeout
	Concurrency    int    `yaml:"concurrency"`      // parallel source fetches, 0 = all at once
	PerSourceLimit int    `yaml:"per_source_limit"` // max entries kept per source
}

type FilterConfig struct {
	SourceQuota         int     `yaml:"source_quota"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

type ThemesConfig struct {
	TTL        string `yaml:"ttl"`
	MaxThemes  int    `yaml:"max_themes"`
	MaxMembers int    `yaml:"max_members"`
	MinMembers int    `yaml:"min_members"`
	InputSize  int    `yaml:"input_size"` // items fed into clustering
}

type ServerConfig struct {
	Addr         string  `yaml:"addr"`
	DefaultLimit int     `yaml:"default_limit"`
	RateLimit    float64 `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst    int     `yaml:"rate_burst"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type Config struct {
	RefreshTTL        string       `yaml:"refresh_ttl"`
	BackgroundRefresh bool         `yaml:"background_refresh"`
	Fetch             FetchConfig  `yaml:"fetch"`
	Filter            FilterConfig `yaml:"filter"`
	Themes            ThemesConfig `yaml:"themes"`
	Server            ServerConfig `yaml:"server"`
	Logger            LoggerConfig `yaml:"logger"`
	AI                *AIConfig    `yaml:"ai,omitempty"`
	Sources           []Source     `yaml:"sources"`
}

// AIEnabled returns true if AI is configured with a valid API key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil {
		return false
	}
	return c.AIKey() != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("NEWSWIRE_AI_KEY")
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (c *Config) ThemesTTL() time.Duration {
	d, err := time.ParseDuration(c.Themes.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// EnabledSources returns the registry in declaration order, enabled only.
func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the distinct declared categories of enabled sources,
// lower-cased, in first-seen order.
func (c *Config) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range c.EnabledSources() {
		cat := strings.ToLower(s.Category)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newswire", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to the config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	ids := map[string]bool{}
	for i, s := range cfg.Sources {
		if s.ID == "" {
			return fmt.Errorf("source %d: id is required", i)
		}
		if ids[s.ID] {
			return fmt.Errorf("source %q: duplicate id", s.ID)
		}
		ids[s.ID] = true
		if s.Name == "" {
			return fmt.Errorf("source %q: name is required", s.ID)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.ID)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.ID, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.ID, u.Scheme)
		}
		if s.Category == "" {
			return fmt.Errorf("source %q: category is required", s.ID)
		}
		if s.Priority < 1 || s.Priority > 10 {
			return fmt.Errorf("source %q: priority must be 1-10, got %d", s.ID, s.Priority)
		}
	}
	if cfg.Filter.SimilarityThreshold < 0 || cfg.Filter.SimilarityThreshold > 1 {
		return fmt.Errorf("filter: similarity_threshold must be within [0,1], got %v", cfg.Filter.SimilarityThreshold)
	}
	return nil
}
