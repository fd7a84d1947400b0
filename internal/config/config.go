package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Rating    RatingConfig
	Recommend RecommendConfig
	SeedPath  string `env:"SEED_PATH"`
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"skill-share"`
	Environment string `env:"APP_ENV" envDefault:"development"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

type RatingConfig struct {
	// MaxAttempts bounds malformed rating lines per member. Zero keeps asking.
	MaxAttempts int `env:"RATING_MAX_ATTEMPTS" envDefault:"0"`
}

type RecommendConfig struct {
	Limit   int `env:"RECOMMEND_LIMIT" envDefault:"1"`
	Workers int `env:"RECOMMEND_WORKERS" envDefault:"4"`
}

// maxRecommendLimit matches the cap the recommender applies.
const maxRecommendLimit = 50

var errInvalidConfig = errors.New("invalid configuration")

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var invalid []string
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		invalid = append(invalid, "LOG_FORMAT")
	}
	if c.Rating.MaxAttempts < 0 {
		invalid = append(invalid, "RATING_MAX_ATTEMPTS")
	}
	if c.Recommend.Limit < 1 || c.Recommend.Limit > maxRecommendLimit {
		invalid = append(invalid, "RECOMMEND_LIMIT")
	}
	if c.Recommend.Workers < 1 {
		invalid = append(invalid, "RECOMMEND_WORKERS")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(invalid, ", "))
	}
	return nil
}
