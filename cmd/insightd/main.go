package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trust_insight/pkg/circle"
	"trust_insight/pkg/config"
	"trust_insight/pkg/engine"
	"trust_insight/pkg/provider"
	"trust_insight/pkg/scheduler"
	"trust_insight/pkg/store"
	"trust_insight/pkg/utils"
)

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
	debug      = flag.Bool("debug", false, "Enable debug mode")
)

// App wires the insight services together
type App struct {
	engine    *engine.Engine
	circleSvc *circle.Service
	warmer    *scheduler.Scheduler
	pgStore   *store.PostgresStore
	logger    *zap.Logger
}

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logCfg := utils.DefaultLogConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Debug = *debug
	logger, err := utils.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer app.close()

	// Serve insight requests until shutdown
	if err := app.serve(ctx, cancel, cfg); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func initializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client, err := provider.NewClient(&provider.ClientConfig{
		Endpoint:         cfg.Provider.Endpoint,
		Timeout:          cfg.Provider.Timeout,
		TrustPredicateID: cfg.Provider.TrustPredicateID,
		TrustObjectID:    cfg.Provider.TrustObjectID,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing provider client: %w", err)
	}

	app := &App{logger: logger}

	var kv store.Store
	if cfg.Cache.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Cache.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing postgres store: %w", err)
		}
		app.pgStore = pg
		kv = pg
	} else {
		kv = store.NewMemoryStore()
	}

	cache := circle.NewCache(kv, cfg.Cache.TTL, logger)
	app.circleSvc = circle.NewService(client, cache, logger)
	app.engine = engine.New(client, app.circleSvc, logger)

	if cfg.Warmer.Enabled {
		app.warmer = scheduler.NewScheduler(&cfg.Warmer, logger)
		if err := app.warmer.Start(); err != nil {
			return nil, fmt.Errorf("starting cache warmer: %w", err)
		}
	}

	return app, nil
}

func (a *App) close() {
	if a.warmer != nil {
		if err := a.warmer.Stop(); err != nil {
			a.logger.Warn("Stopping cache warmer", zap.Error(err))
		}
	}
	if a.pgStore != nil {
		a.pgStore.Close()
	}
}

// serve runs the insight HTTP endpoint with graceful shutdown.
func (a *App) serve(ctx context.Context, cancel context.CancelFunc, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /insight", a.handleInsight)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Insight endpoint listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.logger.Info("Shutting down", zap.String("signal", sig.String()))
		cancel()
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !provider.IsAccountAddress(req.TargetAddress) {
		http.Error(w, "target_address must be a well-formed account address", http.StatusBadRequest)
		return
	}

	report, err := a.engine.Analyze(r.Context(), req)
	if err != nil {
		a.logger.Error("Insight request failed",
			zap.String("target", req.TargetAddress),
			zap.Error(err))
		http.Error(w, "insight unavailable", http.StatusBadGateway)
		return
	}

	// Keep this user's circle warm for subsequent transactions.
	if a.warmer != nil && req.UserAddress != "" {
		if err := a.warmer.TrackUser(req.UserAddress, a.circleSvc); err != nil {
			a.logger.Warn("Tracking user for cache warming", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		a.logger.Warn("Encoding insight response", zap.Error(err))
	}
}
