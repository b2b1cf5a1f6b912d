package internal

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is read once at startup
// and never mutated afterwards.
type Config struct {
	// Server holds listener and request-gate settings.
	Server struct {
		Port           int    `yaml:"port"`
		ReadTimeoutMS  int64  `yaml:"read_timeout_ms"`
		WriteTimeoutMS int64  `yaml:"write_timeout_ms"`
		IdleTimeoutMS  int64  `yaml:"idle_timeout_ms"`
		ReadHeaderMS   int64  `yaml:"read_header_timeout_ms"`
		MaxBodyBytes   int64  `yaml:"max_body_bytes"`
		RateLimitRPS   int64  `yaml:"rate_limit_rps"`
		RateLimitBurst int64  `yaml:"rate_limit_burst"`
		MetricsEnabled bool   `yaml:"metrics_enabled"`
		MetricsPath    string `yaml:"metrics_path"`
	} `yaml:"server"`
	// GitHub holds the webhook secret and App credentials.
	GitHub struct {
		WebhookSecret  string `yaml:"webhook_secret"`
		AppID          int64  `yaml:"app_id"`
		PrivateKeyPath string `yaml:"private_key_path"`
		PrivateKey     string `yaml:"private_key"`
		BaseURL        string `yaml:"base_url"`
	} `yaml:"github"`
	// Dispatch holds settings for the outbound repository_dispatch call.
	Dispatch struct {
		EventType string `yaml:"event_type"`
		TimeoutMS int64  `yaml:"timeout_ms"`
	} `yaml:"dispatch"`
}

// LoadConfig loads the configuration from a YAML file. It expands
// environment variables, applies defaults, and validates the result.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first fatal configuration problem. Missing
// credentials must fail before the listener binds.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}
	if c.GitHub.WebhookSecret == "" {
		return errors.New("github.webhook_secret is required")
	}
	if c.GitHub.AppID == 0 {
		return errors.New("github.app_id is required")
	}
	if c.GitHub.PrivateKey == "" && c.GitHub.PrivateKeyPath == "" {
		return errors.New("github.private_key or github.private_key_path is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutMS == 0 {
		cfg.Server.ReadTimeoutMS = 5000
	}
	if cfg.Server.WriteTimeoutMS == 0 {
		cfg.Server.WriteTimeoutMS = 10000
	}
	if cfg.Server.IdleTimeoutMS == 0 {
		cfg.Server.IdleTimeoutMS = 60000
	}
	if cfg.Server.ReadHeaderMS == 0 {
		cfg.Server.ReadHeaderMS = 5000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	if cfg.Dispatch.TimeoutMS == 0 {
		cfg.Dispatch.TimeoutMS = 10000
	}
}
