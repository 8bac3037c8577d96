package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yourusername/print-estimate-bot/config"
	"github.com/yourusername/print-estimate-bot/internal/delivery/telegram"
	"github.com/yourusername/print-estimate-bot/internal/delivery/web"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/gemini"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/storage"
	"github.com/yourusername/print-estimate-bot/internal/pricing"
	"github.com/yourusername/print-estimate-bot/internal/presenter"
	"github.com/yourusername/print-estimate-bot/internal/usecase"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

func main() {
	// Logger ni ishga tushirish
	logger.Init()
	logger.InfoLogger.Println("🚀 Ilova ishga tushmoqda...")

	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}
	initDefaultTimezone(cfg.Timezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 1. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	// 2. Sessiya va token omborlari
	stores := storage.NewStores(storage.PostgresOptions{DSN: cfg.PostgresDSN})
	defer stores.Close()
	logger.InfoLogger.Printf("✅ Sessiya ombori tayyor (%s)", stores.Backend)

	// 3. Jadval
	sheet, closeSheet, err := openSpreadsheet(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Jadval ochilmadi: %v", err)
	}
	defer closeSheet()
	store := sheets.NewStore(sheet, rec)
	logger.InfoLogger.Printf("✅ Jadval tayyor (%s)", cfg.SheetsBackend)

	// 4. Narx jadvali
	engine, err := loadEngine(cfg.PriceTablesPath)
	if err != nil {
		log.Fatalf("❌ Narx jadvali yuklanmadi: %v", err)
	}
	logger.InfoLogger.Printf("✅ Narx jadvali tayyor (versiya %s)", engine.Version())

	// 5. Use cases
	view := presenter.New(cfg.AssetBaseURL, cfg.PublicBaseURL)
	quotes := usecase.NewQuoteUseCase(store, stores.Tokens, engine, view, nil, rec, cfg.FormTokenTTL)
	catalog := usecase.NewCatalogUseCase(store, stores.Tokens, rec, cfg.FormTokenTTL)
	flow := usecase.NewEstimateFlow(cfg.EstimateFlow, stores.Sessions, engine, quotes, view, rec)
	logger.InfoLogger.Printf("✅ Use cases tayyor (flow: %s)", flow.Variant())

	// 6. Gemini FAQ (ixtiyoriy)
	var assistant repository.Assistant
	if isEmptyOrDisabled(cfg.GeminiAPIKey) {
		logger.WarnLogger.Println("⚠️ GEMINI_API_KEY yo'q: erkin matnga javob berilmaydi")
	} else {
		ai, err := gemini.NewAssistant(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("❌ Gemini client yaratilmadi: %v", err)
		}
		defer ai.Close()
		assistant = ai
		logger.InfoLogger.Printf("✅ Gemini AI client tayyor (%s)", constants.GeminiModelName)
	}
	chat := usecase.NewChatUseCase(flow, quotes, assistant, view)

	// 7. Telegram bot
	var updates web.UpdateHandler
	if isEmptyOrDisabled(cfg.TelegramToken) {
		// faqat ALLOW_EMPTY_SECRETS bilan bu yerga yetib keladi
		logger.WarnLogger.Println("⚠️ TELEGRAM_BOT_TOKEN yo'q: faqat web formalar ishlaydi")
	} else {
		botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, chat, rec)
		if err != nil {
			log.Fatalf("❌ Bot handler yaratilmadi: %v", err)
		}
		quotes.SetMessenger(botHandler)
		logger.InfoLogger.Printf("✅ Telegram bot tayyor: @%s", botHandler.GetBotUsername())

		if cfg.TelegramMode == config.ModePolling {
			go func() {
				if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.ErrorLogger.Printf("❌ Bot xatosi: %v", err)
				}
			}()
		} else {
			updates = botHandler
		}
	}

	// 8. Idle sessiyalarni tozalash
	if cfg.SessionIdleTimeout > 0 {
		go flow.RunSweeper(ctx, constants.SessionSweepInterval, cfg.SessionIdleTimeout)
	}

	// 9. HTTP server
	options, err := web.LoadSelectOptions(cfg.SelectOptionsPath)
	if err != nil {
		log.Fatalf("❌ Select options yuklanmadi: %v", err)
	}
	router := web.NewRouter(web.Deps{
		Updates:       updates,
		WebhookSecret: cfg.WebhookSecret,
		Quotes:        quotes,
		Catalog:       catalog,
		Options:       options,
		StaticDir:     cfg.StaticDir,
		Gatherer:      reg,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Printf("❌ HTTP server xatosi: %v", err)
			sigChan <- syscall.SIGTERM
		}
	}()

	logger.InfoLogger.Printf("🤖 Bot ishlayapti (%s, %s). To'xtatish uchun Ctrl+C ni bosing.", cfg.TelegramMode, cfg.HTTPAddr)

	// Signal kutish
	<-sigChan
	logger.InfoLogger.Println("⏳ To'xtatish signali qabul qilindi...")

	// Graceful shutdown
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Printf("HTTP server to'xtatilmadi: %v", err)
	}
	logger.InfoLogger.Println("✅ Bot to'xtatildi.")
}

// openSpreadsheet tanlangan backend va uni yopish funksiyasi
func openSpreadsheet(ctx context.Context, cfg *config.Config) (sheets.Spreadsheet, func(), error) {
	switch cfg.SheetsBackend {
	case config.SheetsGoogle:
		g, err := sheets.NewGoogle(ctx, cfg.SpreadsheetKey, cfg.ServiceAccountJSON)
		if err != nil {
			return nil, nil, err
		}
		return g, func() {}, nil
	case config.SheetsXLSX:
		x, err := sheets.OpenXLSX(cfg.XLSXPath)
		if err != nil {
			return nil, nil, err
		}
		return x, func() {
			if err := x.Close(); err != nil {
				logger.ErrorLogger.Printf("xlsx yopilmadi: %v", err)
			}
		}, nil
	default:
		logger.WarnLogger.Println("⚠️ Jadval memory da: qatorlar qayta ishga tushganda yo'qoladi")
		return sheets.NewMemory(), func() {}, nil
	}
}

func loadEngine(path string) (*pricing.Engine, error) {
	if strings.TrimSpace(path) == "" {
		return pricing.NewDefaultEngine()
	}
	t, err := pricing.LoadTablesFile(path)
	if err != nil {
		return nil, err
	}
	return pricing.NewEngine(t), nil
}

func initDefaultTimezone(tzName string) {
	if tzName == "" {
		tzName = constants.DefaultTimezone
	}
	if loc, err := time.LoadLocation(tzName); err == nil {
		time.Local = loc
		return
	}
	// tzdata yo'q konteynerlar uchun
	time.Local = time.FixedZone(tzName, 9*60*60)
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}
