package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Webhook WebhookConfig `yaml:"webhook"`
	Push    PushConfig    `yaml:"push"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerMin float64 `yaml:"rate_limit_per_min"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// WebhookConfig holds the shared secret for inbound CRM webhooks.
type WebhookConfig struct {
	Token string `yaml:"token"`
}

// PushConfig holds the VAPID keys and delivery settings for web push.
// PublicKey and PrivateKey may be left empty, in which case a fresh
// keypair is generated at startup and logged for external persistence.
type PushConfig struct {
	PublicKey          string `yaml:"vapid_public_key"`
	PrivateKey         string `yaml:"vapid_private_key"`
	Subject            string `yaml:"subject"`
	TTL                int    `yaml:"ttl"`
	SendTimeoutSeconds int    `yaml:"send_timeout_seconds"`
}

// Load reads the configuration from the given path and applies
// environment variable overrides and defaults. An empty path skips the
// file and builds the configuration from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RateLimitPerMin <= 0 {
		cfg.Server.RateLimitPerMin = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.SendTimeoutSeconds <= 0 {
		cfg.Push.SendTimeoutSeconds = 10
	}

	if cfg.Webhook.Token == "" {
		return nil, fmt.Errorf("webhook token must be configured (webhook.token or WEBHOOK_TOKEN)")
	}
	if cfg.Push.Subject == "" {
		return nil, fmt.Errorf("push subject must be configured (push.subject or VAPID_SUBJECT)")
	}

	return &cfg, nil
}

// applyEnvOverrides lets deploy-sensitive values come from the environment
// instead of the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WEBHOOK_TOKEN"); v != "" {
		cfg.Webhook.Token = v
	}
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		cfg.Push.PublicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" {
		cfg.Push.PrivateKey = v
	}
	if v := os.Getenv("VAPID_SUBJECT"); v != "" {
		cfg.Push.Subject = v
	}
}
