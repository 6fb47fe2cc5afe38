package api

import (
	"delivery-route-sim/internal/api/handlers"
	"delivery-route-sim/internal/platform/logger"
	"delivery-route-sim/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the query handlers over one simulated day and returns an
// http.Handler. gatherer backs /metrics; nil uses the default registry.
func NewRouter(res *services.Result, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Result: res}
	fleetHandler := &handlers.FleetHandler{Result: res}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", pkgHandler.List)
	mux.HandleFunc("/packages/{id}", pkgHandler.Get)
	mux.HandleFunc("/status", fleetHandler.Status)
	mux.HandleFunc("/mileage", fleetHandler.Mileage)
	mux.HandleFunc("/routes", fleetHandler.Routes)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux, log))
}
