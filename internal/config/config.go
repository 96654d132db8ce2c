package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the explicit wiring for one planetctl process. It is built
// from defaults, overlaid by an optional TOML file, then by
// PLANETCTL_* environment variables, and handed to constructors as a
// value; nothing reads configuration ambiently.
type Config struct {
	DatasetPath  string        `toml:"dataset_path" env:"PLANETCTL_DATASET_PATH"`
	FallbackPath string        `toml:"fallback_path" env:"PLANETCTL_FALLBACK_PATH"`
	DataRoot     string        `toml:"data_root" env:"PLANETCTL_DATA_ROOT"`
	User         string        `toml:"user" env:"PLANETCTL_USER"`
	Backend      string        `toml:"backend" env:"PLANETCTL_BACKEND"`
	ListenAddr   string        `toml:"listen_addr" env:"PLANETCTL_LISTEN_ADDR"`
	CorsOrigins  []string      `toml:"cors_origins" env:"PLANETCTL_CORS_ORIGINS"`
	LogLevel     string        `toml:"log_level" env:"PLANETCTL_LOG_LEVEL"`
	HTTPTimeout  time.Duration `toml:"-" env:"PLANETCTL_HTTP_TIMEOUT"`
}

type fileConfig struct {
	DatasetPath  string   `toml:"dataset_path"`
	FallbackPath string   `toml:"fallback_path"`
	DataRoot     string   `toml:"data_root"`
	User         string   `toml:"user"`
	Backend      string   `toml:"backend"`
	ListenAddr   string   `toml:"listen_addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	LogLevel     string   `toml:"log_level"`
	HTTPTimeout  string   `toml:"http_timeout"`
}

func Default() Config {
	return Config{
		DatasetPath:  "data/planetary_resources.csv",
		FallbackPath: "data/planetary_resources.yaml",
		DataRoot:     "data",
		Backend:      "file",
		ListenAddr:   ":8600",
		CorsOrigins:  []string{"http://localhost:3000"},
		LogLevel:     "info",
		HTTPTimeout:  30 * time.Second,
	}
}

// Load builds the effective configuration. An empty path skips the
// file overlay; environment overrides always apply last.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		applyFile(&cfg, raw, meta)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config env: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw fileConfig, meta toml.MetaData) {
	if meta.IsDefined("dataset_path") {
		cfg.DatasetPath = strings.TrimSpace(raw.DatasetPath)
	}
	if meta.IsDefined("fallback_path") {
		cfg.FallbackPath = strings.TrimSpace(raw.FallbackPath)
	}
	if meta.IsDefined("data_root") {
		cfg.DataRoot = strings.TrimSpace(raw.DataRoot)
	}
	if meta.IsDefined("user") {
		cfg.User = strings.TrimSpace(raw.User)
	}
	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("http_timeout") {
		if d, err := time.ParseDuration(strings.TrimSpace(raw.HTTPTimeout)); err == nil {
			cfg.HTTPTimeout = d
		}
	}
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DatasetPath) == "" {
		return fmt.Errorf("config missing dataset_path")
	}
	if strings.TrimSpace(cfg.DataRoot) == "" {
		return fmt.Errorf("config missing data_root")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("config missing listen_addr")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("config backend must be file or sqlite, got %q", cfg.Backend)
	}
	return nil
}
