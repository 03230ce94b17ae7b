package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/glabrego/curio-cli/internal/logger"
)

const (
	defaultCommonsAPIURL      = "https://commons.wikimedia.org/w/api.php"
	defaultUserAgent          = "curio-cli/0.1 (https://github.com/glabrego/curio-cli)"
	defaultPreloadWindow      = 6
	defaultPreloadConcurrency = 3
	defaultAPIRPS             = 5.0
)

// Config holds runtime settings for the CLI app.
type Config struct {
	DBPath             string
	CommonsAPIURL      string
	UserAgent          string
	LogPath            string
	LogLevel           string
	PreloadWindow      int
	PreloadConcurrency int
	APIRPS             float64
}

// LoadFromEnv reads .env.local and .env (when present) and then the process
// environment. Variables already set in the environment win over file values.
func LoadFromEnv() (Config, error) {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	cfg := Config{
		DBPath:        os.Getenv("CURIO_DB_PATH"),
		CommonsAPIURL: os.Getenv("CURIO_COMMONS_API_URL"),
		UserAgent:     os.Getenv("CURIO_USER_AGENT"),
		LogPath:       os.Getenv("CURIO_LOG_PATH"),
		LogLevel:      os.Getenv("CURIO_LOG_LEVEL"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "curio.db"
	}
	if cfg.CommonsAPIURL == "" {
		cfg.CommonsAPIURL = defaultCommonsAPIURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "curio.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var err error
	if cfg.PreloadWindow, err = intFromEnv("CURIO_PRELOAD_WINDOW", defaultPreloadWindow); err != nil {
		return Config{}, err
	}
	if cfg.PreloadConcurrency, err = intFromEnv("CURIO_PRELOAD_CONCURRENCY", defaultPreloadConcurrency); err != nil {
		return Config{}, err
	}
	cfg.APIRPS = defaultAPIRPS
	if raw := os.Getenv("CURIO_API_RPS"); raw != "" {
		cfg.APIRPS, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("CURIO_API_RPS must be a number: %s", raw)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %s", key, raw)
	}
	return n, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.CommonsAPIURL == "" {
		return errors.New("CommonsAPIURL is required")
	}
	parsed, err := url.Parse(c.CommonsAPIURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("CommonsAPIURL must be an absolute http(s) URL: %s", c.CommonsAPIURL)
	}
	if c.CommonsAPIURL[len(c.CommonsAPIURL)-1] == '/' {
		return fmt.Errorf("CommonsAPIURL must not end with '/': %s", c.CommonsAPIURL)
	}
	if c.PreloadWindow < 1 {
		return fmt.Errorf("PreloadWindow must be at least 1: %d", c.PreloadWindow)
	}
	if c.PreloadConcurrency < 1 {
		return fmt.Errorf("PreloadConcurrency must be at least 1: %d", c.PreloadConcurrency)
	}
	if c.APIRPS <= 0 {
		return fmt.Errorf("APIRPS must be positive: %v", c.APIRPS)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	return nil
}
