package config

import (
	"strings"
	"testing"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

var configKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_SECRET", "TELEGRAM_MODE", "ALLOW_EMPTY_SECRETS",
	"HTTP_ADDR", "PORT", "PUBLIC_BASE_URL", "ASSET_BASE_URL", "STATIC_DIR",
	"SHEETS_BACKEND", "SPREADSHEET_KEY", "GCP_SERVICE_ACCOUNT_JSON", "XLSX_PATH",
	"POSTGRES_DSN", "POSTGRES_HOST", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_PORT", "POSTGRES_SSLMODE",
	"GEMINI_API_KEY", "ESTIMATE_FLOW", "SESSION_IDLE_TIMEOUT", "FORM_TOKEN_TTL",
	"SELECT_OPTIONS_PATH", "PRICE_TABLES_PATH", "TIMEZONE",
}

// clearEnv har bir testni toza muhitdan boshlaydi.
func clearEnv(t *testing.T, set map[string]string) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	for k, v := range set {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN":      "123:abc",
		"TELEGRAM_WEBHOOK_SECRET": "s3cret",
		"PUBLIC_BASE_URL":         "https://bot.example.com/",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TelegramMode != ModeWebhook || cfg.SheetsBackend != SheetsMemory {
		t.Errorf("mode=%s backend=%s", cfg.TelegramMode, cfg.SheetsBackend)
	}
	if cfg.EstimateFlow != entity.VariantPattern {
		t.Errorf("flow = %s", cfg.EstimateFlow)
	}
	if cfg.HTTPAddr != ":8080" || cfg.PublicBaseURL != "https://bot.example.com" {
		t.Errorf("addr=%s public=%s", cfg.HTTPAddr, cfg.PublicBaseURL)
	}
	if cfg.FormTokenTTL != constants.DefaultFormTokenTTL || cfg.SessionIdleTimeout != 0 {
		t.Errorf("ttl=%s idle=%s", cfg.FormTokenTTL, cfg.SessionIdleTimeout)
	}
	if cfg.PostgresDSN != "" {
		t.Errorf("dsn = %q, want memory stores", cfg.PostgresDSN)
	}
	if cfg.Timezone != constants.DefaultTimezone {
		t.Errorf("tz = %s", cfg.Timezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN":   "123:abc",
		"TELEGRAM_MODE":        "POLLING",
		"PORT":                 "9000",
		"XLSX_PATH":            "/tmp/sheets.xlsx",
		"ESTIMATE_FLOW":        "detailed",
		"SESSION_IDLE_TIMEOUT": "1800",
		"FORM_TOKEN_TTL":       "30m",
		"POSTGRES_DSN":         "postgres://u:p@db:5432/bot?sslmode=disable",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TelegramMode != ModePolling || cfg.HTTPAddr != ":9000" {
		t.Errorf("mode=%s addr=%s", cfg.TelegramMode, cfg.HTTPAddr)
	}
	if cfg.SheetsBackend != SheetsXLSX || cfg.EstimateFlow != entity.VariantDetailed {
		t.Errorf("backend=%s flow=%s", cfg.SheetsBackend, cfg.EstimateFlow)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute || cfg.FormTokenTTL != 30*time.Minute {
		t.Errorf("idle=%s ttl=%s", cfg.SessionIdleTimeout, cfg.FormTokenTTL)
	}
	if cfg.PostgresDSN != "postgres://u:p@db:5432/bot?sslmode=disable" {
		t.Errorf("dsn = %s", cfg.PostgresDSN)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"no token", map[string]string{"TELEGRAM_WEBHOOK_SECRET": "s"}, "TELEGRAM_BOT_TOKEN"},
		{"webhook without secret", map[string]string{"TELEGRAM_BOT_TOKEN": "t"}, "TELEGRAM_WEBHOOK_SECRET"},
		{"bad mode", map[string]string{"TELEGRAM_BOT_TOKEN": "t", "TELEGRAM_MODE": "push"}, "TELEGRAM_MODE"},
		{"bad flow", map[string]string{"TELEGRAM_BOT_TOKEN": "t", "TELEGRAM_MODE": "polling", "ESTIMATE_FLOW": "quick"}, "ESTIMATE_FLOW"},
		{"google without credentials", map[string]string{"TELEGRAM_BOT_TOKEN": "t", "TELEGRAM_MODE": "polling", "SPREADSHEET_KEY": "abc"}, "GCP_SERVICE_ACCOUNT_JSON"},
		{"xlsx without path", map[string]string{"TELEGRAM_BOT_TOKEN": "t", "TELEGRAM_MODE": "polling", "SHEETS_BACKEND": "xlsx"}, "XLSX_PATH"},
		{"unknown backend", map[string]string{"TELEGRAM_BOT_TOKEN": "t", "TELEGRAM_MODE": "polling", "SHEETS_BACKEND": "csv"}, "SHEETS_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, tt.env)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAllowEmptySecrets(t *testing.T) {
	clearEnv(t, map[string]string{"ALLOW_EMPTY_SECRETS": "yes"})
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.AllowEmptySecrets || cfg.TelegramToken != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "garbage")
	if getEnvBool("X_BOOL", true) {
		t.Error("off should be false")
	}
	if getEnvInt("X_INT", 7) != 7 {
		t.Error("bad int should fall back")
	}
	if getEnvDuration("X_DUR", time.Minute) != time.Minute {
		t.Error("bad duration should fall back")
	}
}
