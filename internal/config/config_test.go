package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalYAML = `
telegram:
  token: "123:abc"
  admin_id: 42
  channel: poryadindom
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Channel != "@poryadindom" {
		t.Fatalf("channel = %q, want @-prefixed", cfg.Telegram.Channel)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.Campaign.WarmupHour != 12 || cfg.Campaign.DigestHour != 9 {
		t.Fatalf("campaign hours = %d/%d, want 12/9",
			cfg.Campaign.WarmupHour, cfg.Campaign.DigestHour)
	}
	if cfg.Campaign.FeedURL == "" {
		t.Fatal("feed_url default missing")
	}
	if cfg.Broadcast.Workers != 4 {
		t.Fatalf("broadcast workers = %d, want 4", cfg.Broadcast.Workers)
	}
	if cfg.Catalog.Path != "file.pdf" {
		t.Fatalf("catalog path = %q, want file.pdf", cfg.Catalog.Path)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`  run_mode: polling
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing token", "telegram:\n  admin_id: 42\n  channel: c\n"},
		{"missing admin", "telegram:\n  token: t\n  channel: c\n"},
		{"missing channel", "telegram:\n  token: t\n  admin_id: 42\n"},
		{"bad run mode", minimalYAML + "  run_mode: carrier_pigeon\n"},
		{"webhook without url", minimalYAML + "  run_mode: webhook\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
