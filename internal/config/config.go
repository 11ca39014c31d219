package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath     string
	DefaultCategory string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Chart rendering configuration.
	ChartWidth      int
	ChartHeight     int
	RenderCacheSize int
	FrameInterval   time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	frameInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("FRAME_INTERVAL", "33ms"))
	if err != nil || frameInterval <= 0 {
		return nil, errors.New("invalid FRAME_INTERVAL")
	}

	width, err := parsePositiveInt("CHART_WIDTH", 1300)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("CHART_HEIGHT", 700)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetPath:     sharedcfg.EnvOrDefault("DATASET_PATH", "Sea_Levels_NOAA.csv"),
		DefaultCategory: sharedcfg.EnvOrDefault("DEFAULT_CATEGORY", "World"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ChartWidth:      width,
		ChartHeight:     height,
		RenderCacheSize: parseRenderCacheSize(),
		FrameInterval:   frameInterval,
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.ChartWidth < 400 || cfg.ChartHeight < 300 {
		return nil, errors.New("CHART_WIDTH and CHART_HEIGHT must be at least 400x300")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseRenderCacheSize() int {
	if s := os.Getenv("RENDER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
