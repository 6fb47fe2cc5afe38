package main

import (
	"context"
	"delivery-route-sim/internal/app"
	"delivery-route-sim/internal/config"
	"delivery-route-sim/internal/platform/logger"
	"flag"
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

// dbtool stages the package CSV into the configured record store.
func main() {
	configPath := flag.String("config", config.Get("DRS_CONFIG", ""), "configuration file (yaml or json)")
	flag.Parse()

	log := logger.New("dbtool")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, prometheus.NewRegistry(), log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer a.Close()

	log.Infof("Seeding %s store from %s...", cfg.Store.Backend, cfg.Data.Packages)
	n, err := a.Seed(ctx)
	if err != nil {
		log.Errorf("seeding failed: %v", err)
		_ = a.Close()
		os.Exit(1)
	}
	log.Infof("Seeding complete: %d records.", n)
}
