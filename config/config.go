package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Browser   BrowserConfig   `yaml:"browser"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Extract   ExtractConfig   `yaml:"extract"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Engine    EngineConfig    `yaml:"engine"`
	Export    ExportConfig    `yaml:"export"`
}

// EngineConfig controls the snapshot fetch dispatcher.
type EngineConfig struct {
	// EnableMultiEngine races the HTTP engine against the browser for
	// snapshots. When false, snapshots always use the browser.
	EnableMultiEngine bool `yaml:"enable_multi_engine"` // default: true

	// EscalationDelays is the staged start delay for each engine tier.
	EscalationDelays []time.Duration `yaml:"escalation_delays"` // default: [0s, 2s, 5s]

	// HTTPTimeout is the deadline for the pure HTTP engine.
	HTTPTimeout time.Duration `yaml:"http_timeout"` // default: 5s

	// DomainMemoryTTL is how long the winning engine is remembered per host.
	DomainMemoryTTL time.Duration `yaml:"domain_memory_ttl"` // default: 24h
}

// CacheConfig controls the reconcile response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int `yaml:"max_entries"` // default: 1000
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"` // default: "0.0.0.0"
	Port int    `yaml:"port"` // default: 8080
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Enabled launches a browser at startup. Without one, only HTML
	// snapshot extraction is available.
	Enabled bool `yaml:"enabled"` // default: true

	// Headless controls whether the browser runs headless.
	Headless bool `yaml:"headless"` // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int `yaml:"max_pages"` // default: 4

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string `yaml:"proxy"`

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool `yaml:"no_sandbox"` // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string `yaml:"bin"`
}

// ScraperConfig controls page navigation.
type ScraperConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration `yaml:"default_timeout"` // default: 60s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration `yaml:"max_timeout"` // default: 180s

	// NavigationTimeout is the max time for page.Navigate alone.
	NavigationTimeout time.Duration `yaml:"navigation_timeout"` // default: 20s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string `yaml:"blocked_resources"`

	// BlockTrackers drops requests to known ad and analytics hosts.
	BlockTrackers bool `yaml:"block_trackers"` // default: true
}

// ExtractConfig tunes the extraction engine.
type ExtractConfig struct {
	// Settle is how long the DOM must be quiet after a filter click.
	Settle time.Duration `yaml:"settle"` // default: 750ms
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool `yaml:"enabled"` // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string `yaml:"api_keys"`
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 `yaml:"rps"` // default: 5

	// Burst is the maximum burst size per API key.
	Burst int `yaml:"burst"` // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "json"
}

// ExportConfig selects the exporters a reconcile run feeds.
type ExportConfig struct {
	// CSVPath writes merged rows to this file when set.
	CSVPath string `yaml:"csv_path"`

	// WebhookURL posts merged rows to a spreadsheet web-app when set.
	WebhookURL string `yaml:"webhook_url"`

	// WebhookSecret signs webhook bodies with HMAC-SHA256.
	WebhookSecret string `yaml:"webhook_secret"`

	// WebhookAsync makes the server deliver webhooks in the background
	// instead of holding the reconcile response until delivery succeeds.
	WebhookAsync bool `yaml:"webhook_async"`

	// DatabaseURL upserts merged rows into Postgres when set.
	DatabaseURL string `yaml:"database_url"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, Mode: "release"},
		Browser: BrowserConfig{
			Enabled:  true,
			Headless: true,
			MaxPages: 4,
		},
		Scraper: ScraperConfig{
			DefaultTimeout:       60 * time.Second,
			MaxTimeout:           180 * time.Second,
			NavigationTimeout:    20 * time.Second,
			BlockedResourceTypes: []string{"Image", "Font", "Media"},
			BlockTrackers:        true,
		},
		Extract:   ExtractConfig{Settle: 750 * time.Millisecond},
		Auth:      AuthConfig{Enabled: true},
		RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
		Cache:     CacheConfig{MaxEntries: 1000},
		Log:       LogConfig{Level: "info", Format: "json"},
		Engine: EngineConfig{
			EnableMultiEngine: true,
			EscalationDelays:  []time.Duration{0, 2 * time.Second, 5 * time.Second},
			HTTPTimeout:       5 * time.Second,
			DomainMemoryTTL:   24 * time.Hour,
		},
	}
}

// Load builds the configuration in three layers: built-in defaults, the
// YAML file named by MATCHUP_CONFIG (if any), then MATCHUP_* environment
// variables. A .env file in the working directory is loaded first; it
// never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("MATCHUP_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = envOr("MATCHUP_HOST", cfg.Server.Host)
	cfg.Server.Port = envIntOr("MATCHUP_PORT", cfg.Server.Port)
	cfg.Server.Mode = envOr("MATCHUP_MODE", cfg.Server.Mode)

	cfg.Browser.Enabled = envBoolOr("MATCHUP_BROWSER", cfg.Browser.Enabled)
	cfg.Browser.Headless = envBoolOr("MATCHUP_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.MaxPages = envIntOr("MATCHUP_MAX_PAGES", cfg.Browser.MaxPages)
	cfg.Browser.DefaultProxy = envOr("MATCHUP_PROXY", cfg.Browser.DefaultProxy)
	cfg.Browser.NoSandbox = envBoolOr("MATCHUP_NO_SANDBOX", cfg.Browser.NoSandbox)
	cfg.Browser.BrowserBin = envOr("MATCHUP_BROWSER_BIN", cfg.Browser.BrowserBin)

	cfg.Scraper.DefaultTimeout = envDurationOr("MATCHUP_DEFAULT_TIMEOUT", cfg.Scraper.DefaultTimeout)
	cfg.Scraper.MaxTimeout = envDurationOr("MATCHUP_MAX_TIMEOUT", cfg.Scraper.MaxTimeout)
	cfg.Scraper.NavigationTimeout = envDurationOr("MATCHUP_NAV_TIMEOUT", cfg.Scraper.NavigationTimeout)
	cfg.Scraper.BlockedResourceTypes = envSliceOr("MATCHUP_BLOCKED_RESOURCES", cfg.Scraper.BlockedResourceTypes)
	cfg.Scraper.BlockTrackers = envBoolOr("MATCHUP_BLOCK_TRACKERS", cfg.Scraper.BlockTrackers)

	cfg.Extract.Settle = envDurationOr("MATCHUP_SETTLE", cfg.Extract.Settle)

	cfg.Auth.Enabled = envBoolOr("MATCHUP_AUTH_ENABLED", cfg.Auth.Enabled)
	cfg.Auth.APIKeys = envSliceOr("MATCHUP_API_KEYS", cfg.Auth.APIKeys)

	cfg.RateLimit.RequestsPerSecond = envFloatOr("MATCHUP_RATE_RPS", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Burst = envIntOr("MATCHUP_RATE_BURST", cfg.RateLimit.Burst)

	cfg.Cache.MaxEntries = envIntOr("MATCHUP_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)

	cfg.Log.Level = envOr("MATCHUP_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("MATCHUP_LOG_FORMAT", cfg.Log.Format)

	cfg.Engine.EnableMultiEngine = envBoolOr("MATCHUP_MULTI_ENGINE", cfg.Engine.EnableMultiEngine)
	cfg.Engine.EscalationDelays = envDurationSliceOr("MATCHUP_ESCALATION_DELAYS", cfg.Engine.EscalationDelays)
	cfg.Engine.HTTPTimeout = envDurationOr("MATCHUP_HTTP_TIMEOUT", cfg.Engine.HTTPTimeout)
	cfg.Engine.DomainMemoryTTL = envDurationOr("MATCHUP_DOMAIN_MEMORY_TTL", cfg.Engine.DomainMemoryTTL)

	cfg.Export.CSVPath = envOr("MATCHUP_CSV_PATH", cfg.Export.CSVPath)
	cfg.Export.WebhookURL = envOr("MATCHUP_WEBHOOK_URL", cfg.Export.WebhookURL)
	cfg.Export.WebhookSecret = envOr("MATCHUP_WEBHOOK_SECRET", cfg.Export.WebhookSecret)
	cfg.Export.WebhookAsync = envBoolOr("MATCHUP_WEBHOOK_ASYNC", cfg.Export.WebhookAsync)
	cfg.Export.DatabaseURL = envOr("MATCHUP_DATABASE_URL", cfg.Export.DatabaseURL)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
