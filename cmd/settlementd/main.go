package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/api"
	"github.com/finclear/settlement-engine/internal/audit"
	"github.com/finclear/settlement-engine/internal/calendar"
	"github.com/finclear/settlement-engine/internal/config"
	"github.com/finclear/settlement-engine/internal/settlement"
	"github.com/finclear/settlement-engine/pkg/logger"
	"github.com/finclear/settlement-engine/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "path to settlement.yaml (optional)")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create logger
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Tracing
	shutdownTracing, err := setupTracing()
	if err != nil {
		zapLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	// Durable audit storage and the asynchronous persistence worker
	store, err := audit.NewStore(cfg.Audit.DSN)
	if err != nil {
		zapLogger.Fatal("Failed to open audit store", zap.Error(err))
	}
	worker := audit.NewWorker(store, audit.WorkerConfig{
		BufferSize:   cfg.Audit.BufferSize,
		MaxAttempts:  cfg.Audit.MaxAttempts,
		RetryBackoff: cfg.Audit.RetryBackoff,
	}, zapLogger)
	trail := audit.NewTrail(worker, zapLogger)

	// Surface persistence failures; the engine never drops them silently.
	go func() {
		for alert := range worker.Alerts() {
			zapLogger.Error("audit record persistence failed",
				zap.String("record_id", alert.Record.RecordID),
				zap.String("trade_id", alert.Record.TradeID),
				zap.Int("attempts", alert.Attempts),
				zap.Error(alert.Err))
		}
	}()

	// Calendar registry with seed calendars from configuration
	registry := calendar.NewRegistry(cfg.Cache.MaxEntries, zapLogger)
	if err := seedCalendars(registry, cfg.Calendars); err != nil {
		zapLogger.Fatal("Failed to seed calendars", zap.Error(err))
	}

	calculator := settlement.NewCalculator(registry, trail, zapLogger)

	// Create API server
	apiServer := api.NewServer(zapLogger, calculator, registry, trail)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiServer.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("Starting API server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	// Wait for interrupt to shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	// Drain buffered audit records before exit.
	worker.Close()
	registry.Close()

	if err := shutdownTracing(ctx); err != nil {
		zapLogger.Error("Failed to shut down tracing", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}

// setupTracing installs a stdout trace exporter. The otelgin middleware picks
// the provider up through the otel global.
func setupTracing() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// seedCalendars registers the configured jurisdiction calendars so the engine
// starts with real holiday data instead of the weekend-only fallback.
func seedCalendars(registry *calendar.Registry, seeds []config.SeedCalendar) error {
	for _, seed := range seeds {
		holidays := make([]models.Date, 0, len(seed.Holidays))
		for _, raw := range seed.Holidays {
			d, err := models.ParseDate(raw)
			if err != nil {
				return err
			}
			holidays = append(holidays, d)
		}

		weekend := make([]time.Weekday, 0, len(seed.WeekendDays))
		for _, raw := range seed.WeekendDays {
			parsed, ok := weekdayByName(raw)
			if !ok {
				return errUnknownWeekday(raw)
			}
			weekend = append(weekend, parsed)
		}

		cal := calendar.New(seed.Jurisdiction, holidays, weekend)
		if err := registry.Register(seed.Jurisdiction, cal); err != nil {
			return err
		}
	}
	return nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

type errUnknownWeekday string

func (e errUnknownWeekday) Error() string { return "unknown weekday " + string(e) }
