// Package config loads runtime parameters for captiond from a config file
// and environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr              string `json:"addr" yaml:"addr" toml:"addr"`
	RuntimeURL        string `json:"runtime_url" yaml:"runtime_url" toml:"runtime_url"`
	RuntimeAPIKey     string `json:"runtime_api_key" yaml:"runtime_api_key" toml:"runtime_api_key"`
	DefaultImageModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	DefaultTextModel  string `json:"default_llm" yaml:"default_llm" toml:"default_llm"`
	MaxUploadMB       int    `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	// CORSOrigins is a comma-separated allowlist. Empty disables CORS.
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFile     string `json:"log_file" yaml:"log_file" toml:"log_file"`
	Debug       bool   `json:"debug" yaml:"debug" toml:"debug"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays CAPTIOND_* environment variables onto cfg. Call after
// godotenv so .env values are visible.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("CAPTIOND_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CAPTIOND_RUNTIME_URL"); v != "" {
		cfg.RuntimeURL = v
	}
	if v := os.Getenv("CAPTIOND_RUNTIME_API_KEY"); v != "" {
		cfg.RuntimeAPIKey = v
	}
	if v := os.Getenv("CAPTIOND_DEFAULT_MODEL"); v != "" {
		cfg.DefaultImageModel = v
	}
	if v := os.Getenv("CAPTIOND_DEFAULT_LLM"); v != "" {
		cfg.DefaultTextModel = v
	}
	if v := os.Getenv("CAPTIOND_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxUploadMB = n
		}
	}
	if v := os.Getenv("CAPTIOND_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = v
	}
	if v := os.Getenv("CAPTIOND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CAPTIOND_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CAPTIOND_DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true") || v == "1"
	}
	return cfg
}
