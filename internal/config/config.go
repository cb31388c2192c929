package config

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultSlugRegex = `(?i)^[a-z0-9]+(?:-[a-z0-9]+)*$`

	StoreBadger   = "badger"
	StoreRedis    = "redis"
	StoreInMemory = "memory"
)

// Config holds every runtime option of the service. Values come from an
// optional yaml file and from environment variables, env wins.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	// Redirect behaviour.
	HomeURL             string        `mapstructure:"HOME_URL"`
	RedirectStatusCode  int           `mapstructure:"REDIRECT_STATUS_CODE"`
	RedirectWithQuery   bool          `mapstructure:"REDIRECT_WITH_QUERY"`
	CaseSensitive       bool          `mapstructure:"CASE_SENSITIVE"`
	DisableBotAccessLog bool          `mapstructure:"DISABLE_BOT_ACCESS_LOG"`
	SlugRegex           string        `mapstructure:"SLUG_REGEX"`
	ReserveSlug         []string      `mapstructure:"RESERVE_SLUG"`
	LinkCacheTTL        time.Duration `mapstructure:"LINK_CACHE_TTL"`

	// Link storage.
	StoreBackend  string `mapstructure:"STORE_BACKEND"`
	BadgerPath    string `mapstructure:"BADGER_PATH"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Analytics store. Empty DSN disables persistent analytics.
	AnalyticsDSN     string        `mapstructure:"ANALYTICS_DSN"`
	AnalyticsDataset string        `mapstructure:"ANALYTICS_DATASET"`
	AnalyticsTimeout time.Duration `mapstructure:"ANALYTICS_TIMEOUT"`
}

// Load reads configuration from config.yaml in path (when present) and from
// the environment, then validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HOME_URL", "")
	v.SetDefault("REDIRECT_STATUS_CODE", http.StatusTemporaryRedirect)
	v.SetDefault("REDIRECT_WITH_QUERY", false)
	v.SetDefault("CASE_SENSITIVE", false)
	v.SetDefault("DISABLE_BOT_ACCESS_LOG", false)
	v.SetDefault("SLUG_REGEX", defaultSlugRegex)
	v.SetDefault("RESERVE_SLUG", []string{"dashboard"})
	v.SetDefault("LINK_CACHE_TTL", time.Minute)
	v.SetDefault("STORE_BACKEND", StoreBadger)
	v.SetDefault("BADGER_PATH", "./data/links")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ANALYTICS_DSN", "")
	v.SetDefault("ANALYTICS_DATASET", "access_logs")
	v.SetDefault("ANALYTICS_TIMEOUT", 500*time.Millisecond)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RedirectStatusCode < 300 || c.RedirectStatusCode > 399 {
		return fmt.Errorf("REDIRECT_STATUS_CODE must be a 3xx code, got %d", c.RedirectStatusCode)
	}
	if _, err := regexp.Compile(c.SlugRegex); err != nil {
		return fmt.Errorf("SLUG_REGEX does not compile: %w", err)
	}
	switch c.StoreBackend {
	case StoreBadger, StoreRedis, StoreInMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.LinkCacheTTL < 0 {
		return fmt.Errorf("LINK_CACHE_TTL must not be negative")
	}
	if c.AnalyticsTimeout <= 0 {
		return fmt.Errorf("ANALYTICS_TIMEOUT must be positive")
	}
	return nil
}
