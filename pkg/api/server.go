// Package api exposes a RuneKV store over a REST API: raw key/value pairs,
// merge-backed tag lists, and merge-backed counters, with Prometheus
// metrics and API-key authentication.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes builds the HTTP handler tree for the server.
func Routes(s *Server, cfg ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Unprotected, for scraping.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.APIKey != "" {
			r.Use(apiKeyMiddleware(cfg.APIKey))
		}

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Put("/kv/{key}", s.metrics.InstrumentHandler("PUT", "/api/v1/kv/{key}", s.handlePutKV))
		r.Get("/kv/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/kv/{key}", s.handleGetKV))
		r.Delete("/kv/{key}", s.metrics.InstrumentHandler("DELETE", "/api/v1/kv/{key}", s.handleDeleteKV))
		r.Get("/kv", s.metrics.InstrumentHandler("GET", "/api/v1/kv", s.handleListKV))
		r.Delete("/kv", s.metrics.InstrumentHandler("DELETE", "/api/v1/kv", s.handleClearKV))

		r.Post("/tags/{key}", s.metrics.InstrumentHandler("POST", "/api/v1/tags/{key}", s.handleMutateTags))
		r.Get("/tags/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/tags/{key}", s.handleGetTags))

		r.Post("/counters/{key}", s.metrics.InstrumentHandler("POST", "/api/v1/counters/{key}", s.handleAddCounter))
		r.Get("/counters/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/counters/{key}", s.handleGetCounter))
	})

	return r
}

// StartServer opens the standard families on the store behind families,
// wires metrics onto the default Prometheus registry, and serves until the
// listener fails.
func StartServer(families *Families, cfg ServerConfig, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	server := NewServer(families, NewMetrics(prometheus.DefaultRegisterer), log)

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	log.Info("starting REST API server", zap.String("addr", addr))
	return http.ListenAndServe(addr, Routes(server, cfg))
}
