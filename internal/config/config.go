// Package config loads travel-forecast settings from a YAML file, TRAVEL_* environment
// variables and a .env file holding the forecast API key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/travel-forecast/internal/cache"
	"github.com/pfrederiksen/travel-forecast/internal/fetcher"
	"github.com/pfrederiksen/travel-forecast/internal/geo"
	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/scraper"
	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

const (
	// FileName is the config file name searched for when --config is not given
	FileName = "travel-forecast"
	// EnvPrefix prefixes environment overrides, e.g. TRAVEL_DATABASE_URL
	EnvPrefix = "TRAVEL"
	// APIKeyEnv holds the forecast API key
	APIKeyEnv = "DARKSKY_API_KEY"

	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Config is the complete runtime configuration
type Config struct {
	Sites    SitesConfig    `mapstructure:"sites"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`

	// DebugFile receives the last forecast payload; empty disables it
	DebugFile string `mapstructure:"debug_file"`

	// APIKey is read from the environment only and must never be logged
	APIKey string `mapstructure:"-" validate:"-"`
}

type SitesConfig struct {
	TravelBaseURL   string `mapstructure:"travel_base_url" validate:"required,url"`
	WikiBaseURL     string `mapstructure:"wiki_base_url" validate:"required,url"`
	ForecastBaseURL string `mapstructure:"forecast_base_url" validate:"required,url"`
}

type HTTPConfig struct {
	Delay      time.Duration `mapstructure:"delay" validate:"gte=0s"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0s"`
	UserAgent  string        `mapstructure:"user_agent" validate:"required"`
	From       string        `mapstructure:"from"`
	CourseInfo string        `mapstructure:"course_info"`
}

type CacheConfig struct {
	Backend  string `mapstructure:"backend" validate:"oneof=file redis"`
	Path     string `mapstructure:"path" validate:"required_if=Backend file"`
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("sites.travel_base_url", scraper.BaseURL)
	v.SetDefault("sites.wiki_base_url", geo.WikiBaseURL)
	v.SetDefault("sites.forecast_base_url", weather.BaseURL)
	v.SetDefault("http.delay", fetcher.DefaultDelay)
	v.SetDefault("http.timeout", fetcher.DefaultTimeout)
	v.SetDefault("http.user_agent", fetcher.DefaultUserAgent)
	v.SetDefault("http.from", fetcher.DefaultFrom)
	v.SetDefault("http.course_info", fetcher.DefaultCourseInfo)
	v.SetDefault("cache.backend", CacheBackendFile)
	v.SetDefault("cache.path", cache.DefaultFileName)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("database.url", "postgres://localhost:5432/travel?sslmode=disable")
	v.SetDefault("debug_file", "data.json")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. configFile may be empty, in which case travel-forecast.yaml
// is searched for in the working directory and $HOME/.config/travel-forecast; a missing
// file is not an error. envFile is loaded with godotenv when it exists and never
// overrides variables already set.
func Load(configFile, envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FetcherOptions maps the http section onto fetcher options
func (c *Config) FetcherOptions() fetcher.Options {
	return fetcher.Options{
		Delay:      c.HTTP.Delay,
		Timeout:    c.HTTP.Timeout,
		UserAgent:  c.HTTP.UserAgent,
		From:       c.HTTP.From,
		CourseInfo: c.HTTP.CourseInfo,
	}
}

// LogLevel returns the configured level, lowered to DEBUG when verbose is set
func (c *Config) LogLevel(verbose bool) logger.Level {
	if verbose {
		return logger.LevelDebug
	}
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

// Fields describes the configuration for logging. Credentials are reduced to whether
// they are set.
func (c *Config) Fields() logger.Fields {
	return logger.Fields{
		"travel_base_url":   c.Sites.TravelBaseURL,
		"wiki_base_url":     c.Sites.WikiBaseURL,
		"forecast_base_url": c.Sites.ForecastBaseURL,
		"delay":             c.HTTP.Delay.String(),
		"cache_backend":     c.Cache.Backend,
		"cache_path":        c.Cache.Path,
		"debug_file":        c.DebugFile,
		"api_key_set":       c.APIKey != "",
		"database_url_set":  c.Database.URL != "",
	}
}
