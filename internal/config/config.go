// Package config loads the demo binary's runtime configuration: a JSON file
// read from the working directory, with local overrides from a .env file via
// github.com/joho/godotenv, and a handful of env-var overrides layered on
// top of the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// ConfigFileName is the name of the JSON configuration file loaded from the
// working directory.
const ConfigFileName = "fibre.json"

const (
	DefaultHTTPPort = 8080
	DefaultTickRate = "1s"
	DefaultLogLevel = "info"
)

// RuntimeConfig is the demo binary's configuration.
type RuntimeConfig struct {
	// HTTPPort is the port pkg/vizweb listens on.
	HTTPPort int `json:"httpPort,omitempty"`

	// TickRate is a time.ParseDuration-compatible string controlling how
	// often `fibre run` drives a tick via gocron.
	TickRate string `json:"tickRate,omitempty"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"logLevel,omitempty"`

	// TreePath is the YAML behaviour-tree file to load.
	TreePath string `json:"treePath,omitempty"`

	// EnableMetrics toggles the pkg/fibremetrics observer.
	EnableMetrics bool `json:"enableMetrics,omitempty"`

	// EnableTracing toggles the pkg/fibretrace observer.
	EnableTracing bool `json:"enableTracing,omitempty"`

	// DevWatch toggles internal/devwatch's fsnotify watcher on TreePath.
	DevWatch bool `json:"devWatch,omitempty"`

	configPath string
}

// defaults returns a RuntimeConfig populated with the package defaults.
func defaults() *RuntimeConfig {
	return &RuntimeConfig{
		HTTPPort: DefaultHTTPPort,
		TickRate: DefaultTickRate,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads fibre.json from dir if present, applies .env overrides via
// godotenv, then applies FIBRE_-prefixed environment variable overrides.
// A missing fibre.json is not an error — Load returns the defaults.
func Load(dir string) (*RuntimeConfig, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := defaults()
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("config: parse %s: %w", configPath, jerr)
		}
		cfg.configPath = configPath
	case os.IsNotExist(err):
		// No project file — defaults plus env overrides are enough to run.
	default:
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *RuntimeConfig) applyEnvOverrides() {
	if v := os.Getenv("FIBRE_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = port
		}
	}
	if v := os.Getenv("FIBRE_TICK_RATE"); v != "" {
		c.TickRate = v
	}
	if v := os.Getenv("FIBRE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FIBRE_TREE_PATH"); v != "" {
		c.TreePath = v
	}
}
