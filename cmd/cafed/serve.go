package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"console-cafe-backend/config"
	"console-cafe-backend/internal/api"
	"console-cafe-backend/internal/cafe"
	"console-cafe-backend/internal/clock"
	"console-cafe-backend/internal/dashboard"
	"console-cafe-backend/internal/ledger"
	"console-cafe-backend/internal/metrics"
	"console-cafe-backend/internal/registry"
	"console-cafe-backend/internal/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.shutdown(context.Background())
	log := a.log

	set := settings.New(a.store, a.cfg.Venue, a.cfg.Server.CacheTTL, log)
	if err := a.seed(ctx, set); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	if a.cfg.Logging.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	wallClock := clock.Real{}
	handler := api.NewHandler(api.Deps{
		Registry:  registry.New(a.store, log),
		Ledger:    ledger.New(a.store, set, wallClock, log),
		Dashboard: dashboard.New(a.store, wallClock, a.cfg.Venue.Location),
		Settings:  set,
		Cafe:      cafe.New(a.store, wallClock, log),
		Health:    a.store,
		Logger:    log,
	})
	router := api.NewRouter(handler, routerConfig(a.cfg, reg), log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.Int("port", a.cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

func routerConfig(cfg *config.Config, gatherer prometheus.Gatherer) api.RouterConfig {
	return api.RouterConfig{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:        cfg.Server.CacheTTL,
		Gatherer:        gatherer,
	}
}
