package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vanguardsim/vanguard-server-go/internal/battle"
	"github.com/vanguardsim/vanguard-server-go/internal/config"
	"github.com/vanguardsim/vanguard-server-go/internal/game"
	"github.com/vanguardsim/vanguard-server-go/internal/history"
	"github.com/vanguardsim/vanguard-server-go/internal/notify"
	"github.com/vanguardsim/vanguard-server-go/internal/repository"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battle state server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	stats := db.Stats()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)

	battleRepo := repository.NewBattleStateRepository(db, logger)
	roomRepo := repository.NewRoomRepository(db)
	deckRepo := repository.NewDeckRepository(db)
	cardRepo := repository.NewCardCatalogRepository(db)
	actionRepo := repository.NewActionRepository(db)

	recorder := history.NewRecorder(actionRepo, logger)

	var notifier game.Notifier
	if cfg.Redis.Enabled {
		publisher, pubErr := notify.NewPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if pubErr != nil {
			logger.Warn("failed to connect event publisher; mutations will not be fanned out", zap.Error(pubErr))
		} else {
			defer publisher.Close()
			notifier = publisher
			logger.Info("event publisher initialized", zap.String("redis_addr", cfg.Redis.Addr))
		}
	}

	engine := game.NewEngine(game.EngineParams{
		Store:       battleRepo,
		Recorder:    recorder,
		Notifier:    notifier,
		SaveRetries: cfg.Engine.SaveRetries,
		Logger:      logger,
	})

	initializer := game.NewInitializer(battleRepo, roomRepo, deckRepo, cardRepo, nil, logger)

	// The session layer consumes the battle surface through in-process calls;
	// this binary carries no game-facing network surface.
	svc := battle.NewService(engine, initializer, battleRepo, db.Pool(), logger)

	logger.Info("battle service initialized",
		zap.Int("save_retries", cfg.Engine.SaveRetries),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Healthy(r.Context()); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	metricsSrv := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", zap.String("address", cfg.Server.MetricsAddress))
		if srvErr := metricsSrv.ListenAndServe(); srvErr != nil && srvErr != http.ErrServerClosed {
			logger.Error("metrics server error", zap.Error(srvErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", zap.Error(err))
	}

	logger.Info("battle state server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
