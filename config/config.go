package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/storage"
)

// Telegram rejimlari
const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

// Jadval backendlari
const (
	SheetsGoogle = "google"
	SheetsXLSX   = "xlsx"
	SheetsMemory = "memory"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken     string
	WebhookSecret     string
	TelegramMode      string
	AllowEmptySecrets bool

	HTTPAddr      string
	PublicBaseURL string
	AssetBaseURL  string
	StaticDir     string

	SheetsBackend      string
	SpreadsheetKey     string
	ServiceAccountJSON string
	XLSXPath           string

	PostgresDSN  string
	GeminiAPIKey string

	EstimateFlow       entity.FlowVariant
	SessionIdleTimeout time.Duration
	FormTokenTTL       time.Duration
	SelectOptionsPath  string
	PriceTablesPath    string
	Timezone           string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookSecret:      os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		TelegramMode:       strings.ToLower(getEnv("TELEGRAM_MODE", ModeWebhook)),
		AllowEmptySecrets:  getEnvBool("ALLOW_EMPTY_SECRETS", false),
		HTTPAddr:           httpAddr(),
		PublicBaseURL:      strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		AssetBaseURL:       strings.TrimRight(os.Getenv("ASSET_BASE_URL"), "/"),
		StaticDir:          os.Getenv("STATIC_DIR"),
		SpreadsheetKey:     os.Getenv("SPREADSHEET_KEY"),
		ServiceAccountJSON: os.Getenv("GCP_SERVICE_ACCOUNT_JSON"),
		XLSXPath:           os.Getenv("XLSX_PATH"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		EstimateFlow:       entity.FlowVariant(strings.ToLower(getEnv("ESTIMATE_FLOW", string(entity.VariantPattern)))),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 0),
		FormTokenTTL:       getEnvDuration("FORM_TOKEN_TTL", constants.DefaultFormTokenTTL),
		SelectOptionsPath:  os.Getenv("SELECT_OPTIONS_PATH"),
		PriceTablesPath:    os.Getenv("PRICE_TABLES_PATH"),
		Timezone:           getEnv("TIMEZONE", constants.DefaultTimezone),
	}

	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = storage.BuildPostgresDSN(
			os.Getenv("POSTGRES_HOST"),
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("POSTGRES_DB"),
			getEnv("POSTGRES_PORT", "5432"),
			os.Getenv("POSTGRES_SSLMODE"),
		)
	}

	cfg.SheetsBackend = strings.ToLower(strings.TrimSpace(os.Getenv("SHEETS_BACKEND")))
	if cfg.SheetsBackend == "" {
		switch {
		case cfg.SpreadsheetKey != "":
			cfg.SheetsBackend = SheetsGoogle
		case cfg.XLSXPath != "":
			cfg.SheetsBackend = SheetsXLSX
		default:
			cfg.SheetsBackend = SheetsMemory
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate Validatsiya
func (c *Config) validate() error {
	switch c.TelegramMode {
	case ModeWebhook, ModePolling:
	default:
		return fmt.Errorf("TELEGRAM_MODE noto'g'ri: %q (webhook yoki polling)", c.TelegramMode)
	}
	switch c.EstimateFlow {
	case entity.VariantPattern, entity.VariantDetailed:
	default:
		return fmt.Errorf("ESTIMATE_FLOW noto'g'ri: %q (pattern yoki detailed)", c.EstimateFlow)
	}
	switch c.SheetsBackend {
	case SheetsGoogle:
		if c.SpreadsheetKey == "" || c.ServiceAccountJSON == "" {
			return fmt.Errorf("google backend uchun SPREADSHEET_KEY va GCP_SERVICE_ACCOUNT_JSON kerak")
		}
	case SheetsXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("xlsx backend uchun XLSX_PATH kerak")
		}
	case SheetsMemory:
	default:
		return fmt.Errorf("SHEETS_BACKEND noto'g'ri: %q", c.SheetsBackend)
	}

	if c.AllowEmptySecrets {
		return nil
	}
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	if c.TelegramMode == ModeWebhook && c.WebhookSecret == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET environment variable bo'sh")
	}
	return nil
}

func httpAddr() string {
	if addr := strings.TrimSpace(os.Getenv("HTTP_ADDR")); addr != "" {
		return addr
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":8080"
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration "90s", "30m" yoki soniyalar soni
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
