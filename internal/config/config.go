// Package config loads immutable application configuration from a YAML file
// with environment variable overrides. The loaded Config is passed explicitly
// into every component that needs it; nothing reads configuration ambiently.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/poryadindom/leadbot/internal/database"
	"github.com/poryadindom/leadbot/internal/logger"
)

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// TelegramConfig holds Telegram transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	// Channel is the broadcast channel users must join before the survey
	// starts, in "@name" form.
	Channel                string `yaml:"channel" envconfig:"TELEGRAM_CHANNEL"`
	RunMode                string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	LongPollTimeoutSeconds int    `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook listener settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// CatalogConfig points at the optional reference document delivered to users
// who complete the survey.
type CatalogConfig struct {
	Path    string `yaml:"path" envconfig:"CATALOG_PATH"`
	Caption string `yaml:"caption" envconfig:"CATALOG_CAPTION"`
}

// CampaignConfig controls the scheduled marketing sends.
type CampaignConfig struct {
	// WarmupHour is the local hour of the every-other-day promo send.
	WarmupHour int `yaml:"warmup_hour" envconfig:"CAMPAIGN_WARMUP_HOUR"`
	// DigestHour is the local hour of the Monday news digest.
	DigestHour int    `yaml:"digest_hour" envconfig:"CAMPAIGN_DIGEST_HOUR"`
	FeedURL    string `yaml:"feed_url" envconfig:"CAMPAIGN_FEED_URL"`
}

// BroadcastConfig bounds the broadcast worker pool.
type BroadcastConfig struct {
	Workers int `yaml:"workers" envconfig:"BROADCAST_WORKERS"`
	PaceMS  int `yaml:"pace_ms" envconfig:"BROADCAST_PACE_MS"`
}

// Config aggregates all application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  database.Config `yaml:"database"`
	Logging   logger.Config   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Campaign  CampaignConfig  `yaml:"campaign"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	ch := strings.TrimSpace(cfg.Telegram.Channel)
	if ch == "" {
		return fmt.Errorf("telegram.channel is required")
	}
	if !strings.HasPrefix(ch, "@") {
		ch = "@" + ch
	}
	cfg.Telegram.Channel = ch

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Campaign.WarmupHour < 0 || cfg.Campaign.WarmupHour > 23 {
		return fmt.Errorf("campaign.warmup_hour must be within 0..23")
	}
	if cfg.Campaign.WarmupHour == 0 {
		cfg.Campaign.WarmupHour = 12
	}
	if cfg.Campaign.DigestHour < 0 || cfg.Campaign.DigestHour > 23 {
		return fmt.Errorf("campaign.digest_hour must be within 0..23")
	}
	if cfg.Campaign.DigestHour == 0 {
		cfg.Campaign.DigestHour = 9
	}
	if cfg.Campaign.FeedURL == "" {
		cfg.Campaign.FeedURL = "https://yandex.ru/news/rubric/real_estate.rss"
	}

	if cfg.Broadcast.Workers <= 0 {
		cfg.Broadcast.Workers = 4
	}
	if cfg.Broadcast.PaceMS < 0 {
		return fmt.Errorf("broadcast.pace_ms must be >= 0")
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "file.pdf"
	}

	return nil
}
