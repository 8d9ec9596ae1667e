// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package api provides the HTTP surface: routing via Chi, request
// middleware, and the recommendation and account handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vitrina/internal/middleware"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config selects the secure
// defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes) // /recommend/p-1/ and /recommend/p-1 both match
	r.Use(router.chiMiddleware.CORS())

	// Recommendation queries.
	r.Route("/recommend", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/{productID}", router.handler.Recommend)
	})

	// Retrain trigger. Stricter limit, training is a full pipeline run.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitTrain())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/update-and-train-product-recommend", router.handler.Train)
	})

	// Account endpoints. Strict rate limiting for brute force prevention.
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", router.handler.Register)
		r.Post("/login", router.handler.Login)
	})

	// Observability.
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
