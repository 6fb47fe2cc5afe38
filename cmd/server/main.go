package main

import (
	"context"
	"delivery-route-sim/internal/api"
	"delivery-route-sim/internal/api/handlers"
	"delivery-route-sim/internal/app"
	"delivery-route-sim/internal/config"
	"delivery-route-sim/internal/platform/logger"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// main is the application composition root.
// It simulates the configured day once, then serves queries over the result.
func main() {
	log := logger.New("server")
	if err := run(log); err != nil {
		log.Errorf("server: %v", err)
		os.Exit(1)
	}
}

func run(log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Get("DRS_CONFIG", ""))
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, prometheus.DefaultRegisterer, logger.New("app"))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("app close: %v", err)
		}
	}()

	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	log.Infof("server: simulated run_id=%s total_miles=%.1f", res.RunID, res.Mileage().Total)

	handlers.SetLogger(logger.New("api"))
	router := api.NewRouter(res, prometheus.DefaultGatherer, logger.New("http"))

	log.Infof("Server listening addr=:%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
