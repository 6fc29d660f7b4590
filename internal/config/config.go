package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fraudeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Model  ModelConfig
	Log    LogConfig
	EDA    EDAConfig
}

// ServerConfig holds prediction API settings
type ServerConfig struct {
	Host            string
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// ModelConfig points at the persisted classifier
type ModelConfig struct {
	Path string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
	File  string
}

// EDAConfig holds chart rendering settings
type EDAConfig struct {
	OutputDir string
	Format    string
	// Width and Height are in inches.
	Width  float64
	Height float64
}

// Load reads configuration from environment variables. It does not
// validate; callers pick ValidateServer or ValidateEDA for their binary.
func Load() *Config {
	return &Config{
		Server: loadServerConfig(),
		Model: ModelConfig{
			Path: getEnvOrDefault("MODEL_PATH", ""),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
			File:  getEnvOrDefault("LOG_FILE", "api.log"),
		},
		EDA: loadEDAConfig(),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnvOrDefault("HOST", "0.0.0.0"),
		Port:            getEnvOrDefault("PORT", "5000"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadEDAConfig() EDAConfig {
	return EDAConfig{
		OutputDir: getEnvOrDefault("EDA_OUTPUT_DIR", "./plots"),
		Format:    strings.ToLower(getEnvOrDefault("EDA_FORMAT", "png")),
		Width:     getEnvFloatOrDefault("EDA_WIDTH", 6),
		Height:    getEnvFloatOrDefault("EDA_HEIGHT", 3),
	}
}

// ValidateServer checks the settings the prediction API needs
func (c *Config) ValidateServer() error {
	if c.Model.Path == "" {
		return errors.ConfigInvalid("MODEL_PATH is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.Wrapf(errors.ConfigInvalid("PORT must be numeric"), "invalid port %q", c.Server.Port)
	}
	return nil
}

// ValidateEDA checks the chart rendering settings
func (c *Config) ValidateEDA() error {
	switch c.EDA.Format {
	case "png", "svg", "pdf", "jpg":
	default:
		return errors.ConfigInvalid("EDA_FORMAT must be one of png, svg, pdf, jpg")
	}
	if c.EDA.Width <= 0 || c.EDA.Height <= 0 {
		return errors.ConfigInvalid("EDA_WIDTH and EDA_HEIGHT must be positive")
	}
	if c.EDA.OutputDir == "" {
		return errors.ConfigInvalid("EDA_OUTPUT_DIR is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
