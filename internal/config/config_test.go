package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_DRIVER")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_WebhookRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_WEBHOOK_ENABLED=true without NOTIFY_WEBHOOK_URL")
	}
}

func TestLoad_WebhookConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/blueline")
	t.Setenv("NOTIFY_WEBHOOK_TOKEN", "token-123")
	t.Setenv("NOTIFY_WEBHOOK_TIMEOUT", "4s")
	t.Setenv("NOTIFY_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.WebhookEnabled {
		t.Fatalf("expected WebhookEnabled=true")
	}
	if cfg.WebhookURL != "https://hooks.example.com/blueline" {
		t.Fatalf("unexpected WebhookURL: %q", cfg.WebhookURL)
	}
	if cfg.WebhookToken != "token-123" {
		t.Fatalf("unexpected WebhookToken")
	}
	if cfg.WebhookTimeout != 4*time.Second {
		t.Fatalf("unexpected WebhookTimeout: %s", cfg.WebhookTimeout)
	}
	if cfg.NotifyWorkers != 8 {
		t.Fatalf("unexpected NotifyWorkers: %d", cfg.NotifyWorkers)
	}
}

func TestLoad_UnlockSchedule(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UNLOCK_CRON", "0 6 * * 1")
	t.Setenv("UNLOCK_RETRY_ATTEMPTS", "5")
	t.Setenv("UNLOCK_RETRY_BACKOFF", "500ms,2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UnlockCronSpec != "0 6 * * 1" {
		t.Fatalf("unexpected UnlockCronSpec: %q", cfg.UnlockCronSpec)
	}
	if cfg.UnlockRetryAttempts != 5 {
		t.Fatalf("unexpected UnlockRetryAttempts: %d", cfg.UnlockRetryAttempts)
	}
	if len(cfg.UnlockRetryBackoff) != 2 || cfg.UnlockRetryBackoff[0] != 500*time.Millisecond || cfg.UnlockRetryBackoff[1] != 2*time.Second {
		t.Fatalf("unexpected UnlockRetryBackoff: %v", cfg.UnlockRetryBackoff)
	}
}

func TestLoad_UnlockRetryAttemptsValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UNLOCK_RETRY_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for UNLOCK_RETRY_ATTEMPTS=0")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.UnlockCronSpec != "*/5 * * * *" {
		t.Fatalf("unexpected UnlockCronSpec: %q", cfg.UnlockCronSpec)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}
