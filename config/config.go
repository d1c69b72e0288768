// Package config loads the service's YAML configuration file, layers .env
// and process-environment overrides on top (same precedence order as the
// teacher's config.Load: file first, then environment wins), and resolves
// provider credentials either from the environment or from Vault.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"signalengine/internal/logging"
	"signalengine/internal/scan"
	"signalengine/internal/store"
)

// Config is the full application configuration, populated from
// config.yaml and then overridden from the environment.
type Config struct {
	Database  store.Config    `yaml:"database"`
	Logging   logging.Config  `yaml:"logging"`
	Redis     RedisConfig     `yaml:"redis"`
	Vault     VaultConfig     `yaml:"vault"`
	Providers ProvidersConfig `yaml:"providers"`
	Scan      ScanConfig      `yaml:"scan"`
}

// RedisConfig configures the router response cache.
type RedisConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	DB      int           `yaml:"db"`
	TTL     time.Duration `yaml:"ttl"`
}

// ScanConfig bundles the orchestrator's tunables and the named scan
// profiles spec.md §8 names (scan_type -> coin_limit, confidence_threshold,
// deadline_budget, concurrency, use_llm, filter_scope_default).
type ScanConfig struct {
	Orchestrator scan.Config              `yaml:"orchestrator"`
	Profiles     map[string]ProfileConfig `yaml:"profiles"`
}

// ProfileConfig is one named scan profile's YAML shape; Profile converts it
// to a scan.Profile.
type ProfileConfig struct {
	CronSpec            string   `yaml:"cron_spec"`
	ScanType            string   `yaml:"scan_type"`
	FilterScope         string   `yaml:"filter_scope"`
	CoinLimit           int      `yaml:"coin_limit"`
	MinPrice            *float64 `yaml:"min_price"`
	MaxPrice            *float64 `yaml:"max_price"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`
	DeadlineMinutes     int      `yaml:"deadline_minutes"`
	Concurrency         int      `yaml:"concurrency"`
	UseLLM              bool     `yaml:"use_llm"`
}

// Profile converts one named profile's YAML shape into a scan.Profile.
// DeadlineMinutes, Concurrency and UseLLM have no scan.Profile counterpart
// and are not carried over; every profile runs with the worker count and
// deadline of scan.Config.
func (p ProfileConfig) Profile() scan.Profile {
	return scan.Profile{
		Name:                p.ScanType,
		CronSpec:            p.CronSpec,
		ScanType:            p.ScanType,
		FilterScope:         store.FilterScope(p.FilterScope),
		CoinLimit:           p.CoinLimit,
		MinPrice:            p.MinPrice,
		MaxPrice:            p.MaxPrice,
		ConfidenceThreshold: p.ConfidenceThreshold,
	}
}

// Load reads config.yaml (if present), loads a .env file (if present) into
// the process environment, then applies environment-variable overrides for
// every field a deployment would reasonably need to set without editing the
// YAML: credentials, database DSN pieces, log level. Missing files are not
// an error — Load falls back to an empty Config and relies entirely on
// environment overrides, same as the teacher's Load() falling back to an
// empty Config when config.json is absent.
func Load(yamlPath string) (*Config, error) {
	cfg := &Config{}

	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config yaml: %w", err)
	}

	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if cfg.Scan.Orchestrator.WorkerCount == 0 {
		cfg.Scan.Orchestrator = scan.DefaultConfig()
	}
	if cfg.Scan.Profiles == nil {
		cfg.Scan.Profiles = defaultProfiles()
	}

	return cfg, nil
}

func defaultProfiles() map[string]ProfileConfig {
	return map[string]ProfileConfig{
		"full": {
			CronSpec: "0 */6 * * *", ScanType: "full", FilterScope: "all",
			CoinLimit: 200, ConfidenceThreshold: 0.6, DeadlineMinutes: 8, Concurrency: 8,
		},
		"alt": {
			CronSpec: "30 */6 * * *", ScanType: "alt", FilterScope: "alt",
			CoinLimit: 100, ConfidenceThreshold: 0.65, DeadlineMinutes: 8, Concurrency: 6,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the config,
// following the teacher's applyEnvOverrides shape: provider API keys are
// NOT read from the YAML file at all (they come from the environment or
// Vault, see ResolveCredentials); everything else, database user and
// password included, is file-first, env-overrides-second.
func applyEnvOverrides(cfg *Config) {
	cfg.Database.Host = getEnvOrDefault("DB_HOST", orDefault(cfg.Database.Host, "localhost"))
	cfg.Database.Port = getEnvIntOrDefault("DB_PORT", orDefaultInt(cfg.Database.Port, 5432))
	cfg.Database.User = getEnvOrDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnvOrDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnvOrDefault("DB_NAME", orDefault(cfg.Database.Database, "signalengine"))
	cfg.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", orDefault(cfg.Database.SSLMode, "disable"))

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", orDefault(cfg.Logging.Level, "INFO"))
	cfg.Logging.Output = getEnvOrDefault("LOG_OUTPUT", orDefault(cfg.Logging.Output, "stdout"))
	cfg.Logging.Component = getEnvOrDefault("LOG_COMPONENT", orDefault(cfg.Logging.Component, "signalengine"))
	cfg.Logging.JSONFormat = getEnvBoolOrDefault("LOG_JSON", cfg.Logging.JSONFormat)
	cfg.Logging.IncludeFile = getEnvBoolOrDefault("LOG_INCLUDE_FILE", cfg.Logging.IncludeFile)

	cfg.Redis.Enabled = getEnvBoolOrDefault("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = getEnvOrDefault("REDIS_ADDR", orDefault(cfg.Redis.Addr, "localhost:6379"))
	cfg.Redis.DB = getEnvIntOrDefault("REDIS_DB", cfg.Redis.DB)
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	cfg.Redis.TTL = getEnvDurationOrDefault("REDIS_TTL", cfg.Redis.TTL)

	cfg.Vault.Enabled = getEnvBoolOrDefault("VAULT_ENABLED", cfg.Vault.Enabled)
	cfg.Vault.Address = getEnvOrDefault("VAULT_ADDR", orDefault(cfg.Vault.Address, "http://localhost:8200"))
	cfg.Vault.Token = getEnvOrDefault("VAULT_TOKEN", cfg.Vault.Token)
	cfg.Vault.MountPath = getEnvOrDefault("VAULT_MOUNT_PATH", orDefault(cfg.Vault.MountPath, "secret"))
	cfg.Vault.SecretPath = getEnvOrDefault("VAULT_SECRET_PATH", orDefault(cfg.Vault.SecretPath, "signalengine/providers"))

	applyProviderEnvOverrides(cfg)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
