package model

import (
	"fmt"
	"time"
)

// Config is the full runtime configuration tree.
// Hierarchy: CLI flags > REVIEWLENS_* env vars > config file > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig covers all outbound HTTP behavior.
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// FetchConfig controls acquisition across locales and providers.
type FetchConfig struct {
	// Locales is the supported marketplace set, in fallback priority order.
	Locales       []string `yaml:"locales" mapstructure:"locales"`
	DefaultLocale string   `yaml:"default_locale" mapstructure:"default_locale"`

	MaxReviews        int `yaml:"max_reviews" mapstructure:"max_reviews"`
	MaxReviewsCeiling int `yaml:"max_reviews_ceiling" mapstructure:"max_reviews_ceiling"`

	// AdapterWait bounds a single adapter call; PollInterval is the fixed
	// interval at which a pending upstream job is re-checked.
	AdapterWait  time.Duration `yaml:"adapter_wait" mapstructure:"adapter_wait"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// RequestBudget bounds the whole fetch across all locale attempts. It
	// should dominate AdapterWait * len(Locales).
	RequestBudget time.Duration `yaml:"request_budget" mapstructure:"request_budget"`

	// SyntheticFallback substitutes the deterministic generator when every
	// locale fails.
	SyntheticFallback bool `yaml:"synthetic_fallback" mapstructure:"synthetic_fallback"`

	// Rate limiting for outbound scraping calls, per host.
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`

	// Apify-compatible scraping service.
	APIToken string `yaml:"api_token" mapstructure:"api_token"`
	ActorID  string `yaml:"actor_id" mapstructure:"actor_id"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`

	// PageScrape enables the direct marketplace page adapter as a secondary
	// provider before giving up on a locale.
	PageScrape bool `yaml:"page_scrape" mapstructure:"page_scrape"`
}

// CacheConfig controls the bounded-TTL result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir" mapstructure:"dir"` // non-empty enables the disk layer
}

// AnalysisConfig holds the tunables of the analysis stages.
type AnalysisConfig struct {
	BotThreshold    float64 `yaml:"bot_threshold" mapstructure:"bot_threshold"`
	SuspiciousFloor float64 `yaml:"suspicious_floor" mapstructure:"suspicious_floor"`
	ThemeCount      int     `yaml:"theme_count" mapstructure:"theme_count"`
	TopKeywords     int     `yaml:"top_keywords" mapstructure:"top_keywords"`
	SampleCount     int     `yaml:"sample_count" mapstructure:"sample_count"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional narrative summary provider.
// The narrative never affects analysis output.
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "Reviewlens/0.2 (+https://github.com/ppiankov/reviewlens)",
		},
		Fetch: FetchConfig{
			Locales:           []string{"IN", "US", "UK", "DE", "CA"},
			DefaultLocale:     "US",
			MaxReviews:        50,
			MaxReviewsCeiling: 100,
			AdapterWait:       300 * time.Second,
			PollInterval:      2 * time.Second,
			RequestBudget:     10 * time.Minute,
			SyntheticFallback: true,
			RatePerSecond:     1,
			RateBurst:         2,
			ActorID:           "junglee~amazon-reviews-scraper",
			BaseURL:           "https://api.apify.com",
			PageScrape:        false,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Analysis: AnalysisConfig{
			BotThreshold:    0.6,
			SuspiciousFloor: 0.3,
			ThemeCount:      5,
			TopKeywords:     15,
			SampleCount:     3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30 * time.Second,
			MaxTokens: 500,
		},
		Output: OutputConfig{
			LogLevel: "info",
		},
	}
}

// Validate checks invariants that would otherwise surface deep in the pipeline.
func (c *Config) Validate() error {
	if len(c.Fetch.Locales) == 0 {
		return fmt.Errorf("fetch.locales must not be empty")
	}
	if c.Fetch.MaxReviewsCeiling <= 0 {
		return fmt.Errorf("fetch.max_reviews_ceiling must be positive")
	}
	if c.Fetch.PollInterval <= 0 {
		return fmt.Errorf("fetch.poll_interval must be positive")
	}
	if c.Analysis.BotThreshold <= 0 || c.Analysis.BotThreshold > 1 {
		return fmt.Errorf("analysis.bot_threshold must be in (0,1]")
	}
	return nil
}

// SupportedLocale reports whether loc is in the configured locale set.
func (c *Config) SupportedLocale(loc string) bool {
	for _, l := range c.Fetch.Locales {
		if l == loc {
			return true
		}
	}
	return false
}
