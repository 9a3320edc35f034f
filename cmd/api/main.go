package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staybook/internal/api"
	"staybook/internal/catalog"
	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/export"
	"staybook/internal/google"
	"staybook/internal/logging"
	"staybook/internal/metrics"
	"staybook/internal/notify"
	"staybook/internal/repository"
	"staybook/internal/service"
	"staybook/internal/telegram"
	"staybook/internal/verification"
	"staybook/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	redisClient, sessionRepo := initSessionRepository(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	mailer, err := notify.New(cfg.Mailer, &logger)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus()
	hotels := catalog.New(cfg.Hotels)

	// Зеркало в Google Sheets опционально: без него работает только xlsx.
	sheetsService := initGoogleSheets(ctx, cfg, db, &logger)

	exporter := export.NewExcelExporter(db, cfg.Exports.Path, &logger)
	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	exportWorker := worker.NewExportWorker(exporter, sheetsMirror(sheetsService), redisClient, retryPolicy, &logger)
	go exportWorker.Start(ctx)

	if sheetsService != nil {
		subscribeSheetsSync(ctx, eventBus, exportWorker, &logger)
	}

	if cfg.Telegram.Enabled {
		notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.Managers, &logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Telegram notifier disabled")
		} else {
			notifier.Subscribe(eventBus)
		}
	}

	codeGen := verification.NewCodeGenerator()
	verificationService := service.NewVerificationService(sessionRepo, mailer, codeGen, eventBus, cfg.Verification.CodeTTL(), &logger)
	bookingService := service.NewBookingService(db, sessionRepo, mailer, codeGen, eventBus, exportWorker, hotels, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		go startPrometheus(cfg.Monitoring.PrometheusPort, &logger)
	}

	apiServer := api.NewHTTPServer(cfg.API, verificationService, bookingService, hotels, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

// initSessionRepository собирает хранилище сессий: redis как основное,
// память как запасное при его недоступности.
func initSessionRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.SessionRepository) {
	ttl := cfg.Verification.CodeTTL()

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	fallback := repository.NewMemorySessionRepository(ttl)
	if redisClient == nil {
		return nil, fallback
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return redisClient, repository.NewFailoverSessionRepository(primary, fallback, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingSpreadSheetID, db)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

// sheetsMirror обходит нетипизированный nil в интерфейсе.
func sheetsMirror(s *google.SheetsService) worker.SheetsMirror {
	if s == nil {
		return nil
	}
	return s
}

func subscribeSheetsSync(ctx context.Context, bus *events.EventBus, exportWorker *worker.ExportWorker, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingCreated, func(_ *events.Event) error {
		if err := exportWorker.EnqueueSheetsSync(ctx); err != nil {
			logger.Error().Err(err).Msg("event bus: enqueue sheets sync")
		}
		return nil
	})
}

func startPrometheus(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Prometheus metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Prometheus server error")
	}
}
