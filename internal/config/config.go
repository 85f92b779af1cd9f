package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/models"
)

// weightSumTolerance is the allowed deviation of the scoring weight sum from 1.0.
const weightSumTolerance = 1e-6

// Weights defines the contribution of each scoring factor to the composite
// score. The five weights must sum to 1.0; changing them is a configuration
// change, never a code change.
type Weights struct {
	Preference float64 `mapstructure:"preference"`
	Language   float64 `mapstructure:"language"`
	Quality    float64 `mapstructure:"quality"`
	Recency    float64 `mapstructure:"recency"`
	Popularity float64 `mapstructure:"popularity"`
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Preference + w.Language + w.Quality + w.Recency + w.Popularity
}

// LimitConfig holds the default and maximum result count for one endpoint.
// Caller-supplied limits are clamped to Max server-side.
type LimitConfig struct {
	Default int `mapstructure:"default"`
	Max     int `mapstructure:"max"`
}

// ScoringConfig groups the tunables of the recommendation engine.
type ScoringConfig struct {
	Weights Weights `mapstructure:"weights"`

	// RecencyFreshYears and RecencyStaleYears bound the linear recency decay:
	// titles at most FreshYears old score 1.0, titles at least StaleYears old
	// score 0.0.
	RecencyFreshYears int `mapstructure:"recency_fresh_years"`
	RecencyStaleYears int `mapstructure:"recency_stale_years"`

	// KidsSafeRatings enumerates the age ratings permitted for kids profiles.
	// This set cannot be widened by any query parameter.
	KidsSafeRatings []string `mapstructure:"kids_safe_ratings"`

	// BandCeilings maps each age band to the maximum permitted rating tier.
	BandCeilings map[string]string `mapstructure:"band_ceilings"`
}

type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	LogLevel string `mapstructure:"log_level"`
	Store    struct {
		Provider string `mapstructure:"provider"` // "sqlite" or "memory"
		Path     string `mapstructure:"path"`
	} `mapstructure:"store"`
	Cache struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`
		TTL           string `mapstructure:"ttl"` // Go duration string like "5m", "1h"
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`
	Data struct {
		RawDir    string `mapstructure:"raw_dir"`
		ReportDir string `mapstructure:"report_dir"`
	} `mapstructure:"data"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Limits  struct {
		Recommend LimitConfig `mapstructure:"recommend"`
		Filter    LimitConfig `mapstructure:"filter"`
		Search    LimitConfig `mapstructure:"search"`
		Similar   LimitConfig `mapstructure:"similar"`
	} `mapstructure:"limits"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	globalConfig = config
	logger.Info().Str("level", level.String()).Msg("Configuration loaded")
}

// setDefaults installs the built-in configuration. The scoring defaults are
// documented engine behavior, not arbitrary fallbacks; tests assert against
// these exact values.
func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("log_level", "info")

	viper.SetDefault("store.provider", "sqlite")
	viper.SetDefault("store.path", "data/streamly.db")

	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 16)
	viper.SetDefault("cache.ttl", "5m")

	viper.SetDefault("data.raw_dir", "data/raw")
	viper.SetDefault("data.report_dir", "logs")

	viper.SetDefault("scoring.weights.preference", 0.30)
	viper.SetDefault("scoring.weights.language", 0.20)
	viper.SetDefault("scoring.weights.quality", 0.25)
	viper.SetDefault("scoring.weights.recency", 0.10)
	viper.SetDefault("scoring.weights.popularity", 0.15)
	viper.SetDefault("scoring.recency_fresh_years", 1)
	viper.SetDefault("scoring.recency_stale_years", 20)
	viper.SetDefault("scoring.kids_safe_ratings", []string{"G", "PG"})
	viper.SetDefault("scoring.band_ceilings", map[string]string{
		"<13":   "PG",
		"13-17": "13+",
		"18-24": "18+",
		"25-34": "18+",
		"35-49": "18+",
		"50+":   "18+",
	})

	viper.SetDefault("limits.recommend.default", 10)
	viper.SetDefault("limits.recommend.max", 50)
	viper.SetDefault("limits.filter.default", 50)
	viper.SetDefault("limits.filter.max", 100)
	viper.SetDefault("limits.search.default", 20)
	viper.SetDefault("limits.search.max", 50)
	viper.SetDefault("limits.similar.default", 10)
	viper.SetDefault("limits.similar.max", 20)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for fatal inconsistencies. It is run
// once at load time so that a bad weight set or inverted threshold can never
// surface as a per-request failure.
func (c *Config) Validate() error {
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"preference": w.Preference,
		"language":   w.Language,
		"quality":    w.Quality,
		"recency":    w.Recency,
		"popularity": w.Popularity,
	} {
		if v < 0 {
			return apperrors.NewInvalidConfigError("scoring.weights."+name, "weight must not be negative")
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return apperrors.NewInvalidConfigError("scoring.weights",
			fmt.Sprintf("weights sum to %.4f, expected 1.0", sum))
	}

	if c.Scoring.RecencyFreshYears < 0 {
		return apperrors.NewInvalidConfigError("scoring.recency_fresh_years", "must not be negative")
	}
	if c.Scoring.RecencyStaleYears <= c.Scoring.RecencyFreshYears {
		return apperrors.NewInvalidConfigError("scoring.recency_stale_years",
			"stale threshold must be greater than fresh threshold")
	}

	if len(c.Scoring.KidsSafeRatings) == 0 {
		return apperrors.NewInvalidConfigError("scoring.kids_safe_ratings", "must not be empty")
	}
	for _, s := range c.Scoring.KidsSafeRatings {
		if models.ParseAgeRating(s) == models.RatingUnknown {
			return apperrors.NewInvalidConfigError("scoring.kids_safe_ratings",
				fmt.Sprintf("unrecognized age rating %q", s))
		}
	}

	for band, ceiling := range c.Scoring.BandCeilings {
		if models.ParseAgeBand(band) == models.BandUnknown {
			return apperrors.NewInvalidConfigError("scoring.band_ceilings",
				fmt.Sprintf("unrecognized age band %q", band))
		}
		if models.ParseAgeRating(ceiling) == models.RatingUnknown {
			return apperrors.NewInvalidConfigError("scoring.band_ceilings",
				fmt.Sprintf("unrecognized ceiling rating %q for band %q", ceiling, band))
		}
	}

	for name, l := range map[string]LimitConfig{
		"limits.recommend": c.Limits.Recommend,
		"limits.filter":    c.Limits.Filter,
		"limits.search":    c.Limits.Search,
		"limits.similar":   c.Limits.Similar,
	} {
		if l.Default <= 0 || l.Max <= 0 {
			return apperrors.NewInvalidConfigError(name, "default and max must be positive")
		}
		if l.Default > l.Max {
			return apperrors.NewInvalidConfigError(name, "default must not exceed max")
		}
	}

	return nil
}

// KidsSafeSet returns the configured kids-safe rating set in enum form.
func (c *Config) KidsSafeSet() map[models.AgeRating]bool {
	set := make(map[models.AgeRating]bool, len(c.Scoring.KidsSafeRatings))
	for _, s := range c.Scoring.KidsSafeRatings {
		set[models.ParseAgeRating(s)] = true
	}
	return set
}

// BandCeiling returns the maximum permitted rating tier for the given band.
// The second return value is false for unknown bands; callers must fail closed.
func (c *Config) BandCeiling(band models.AgeBand) (models.AgeRating, bool) {
	ceiling, ok := c.Scoring.BandCeilings[band.String()]
	if !ok {
		return models.RatingUnknown, false
	}
	return models.ParseAgeRating(ceiling), true
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
