package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Quotes         *QuoteHandler
	Stream         http.Handler
	Health         http.Handler
	Metrics        *metrics.QuoteMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func NewRouter(d RouterDeps) *mux.Router {
	router := mux.NewRouter()

	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware(d.AllowedOrigins))
	if d.Metrics != nil {
		router.Use(MetricsMiddleware(d.Metrics))
	}

	if d.Health != nil {
		router.Handle("/health", d.Health).Methods(http.MethodGet)
	}
	if d.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/crypto-price", d.Quotes.GetCryptoPrice).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/convert", d.Quotes.GetConversion).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/currencies", d.Quotes.GetCurrencies).Methods(http.MethodGet, http.MethodOptions)

	if d.Stream != nil {
		router.Handle("/ws/convert", d.Stream).Methods(http.MethodGet)
	}
	return router
}
