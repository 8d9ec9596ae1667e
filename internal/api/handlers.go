// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/vitrina/internal/auth"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/recommend"
	"github.com/tomtom215/vitrina/internal/recommend/storage"
)

// trainSuccessMessage is the response body clients of the retrain endpoint
// key on.
const trainSuccessMessage = "Data fetched, model trained and saved successfully"

// Recommender is the recommendation engine surface the handlers need.
type Recommender interface {
	Train(ctx context.Context) error
	Recommend(ctx context.Context, productID string, topN int) ([]string, error)
	LastTrainedAt() time.Time
	ProductCount() int
}

// UserStore is the account persistence surface the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Pinger reports backing-store health for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	recommender Recommender
	users       UserStore
	db          Pinger
	tokens      *auth.JWTManager
	topN        int
	startedAt   time.Time
}

// NewHandler creates a handler with the given dependencies. topN <= 0
// selects the engine default.
func NewHandler(recommender Recommender, users UserStore, db Pinger, tokens *auth.JWTManager, topN int) *Handler {
	if topN <= 0 {
		topN = recommend.DefaultTopN
	}
	return &Handler{
		recommender: recommender,
		users:       users,
		db:          db,
		tokens:      tokens,
		topN:        topN,
		startedAt:   time.Now(),
	}
}

// Recommend handles GET /recommend/{productID}.
// Responds with the IDs of the most similar products, ranked by descending
// similarity. The "n" query parameter overrides the configured count.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "product id is required", nil)
		return
	}
	topN := getIntParam(r, "n", h.topN)

	start := time.Now()
	ids, err := h.recommender.Recommend(r.Context(), productID, topN)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrUnknownProduct):
			metrics.RecordRecommendation(time.Since(start), "unknown_product")
			respondError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, recommend.ErrModelUnavailable), errors.Is(err, storage.ErrModelNotFound):
			metrics.RecordRecommendation(time.Since(start), "model_unavailable")
			respondError(w, http.StatusInternalServerError, "recommendation model is not available, train it first", err)
		default:
			metrics.RecordRecommendation(time.Since(start), "internal")
			respondError(w, http.StatusInternalServerError, "failed to compute recommendations", err)
		}
		return
	}
	metrics.RecordRecommendation(time.Since(start), "")

	// Empty result is a valid response, but an empty JSON array, not null.
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{
		"recommended_products": ids,
	})
}

// Train handles GET /update-and-train-product-recommend.
// Runs the full pipeline synchronously: fetch catalog, build the similarity
// matrix, persist the artifact, swap it in.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := h.recommender.Train(r.Context())
	metrics.RecordTraining("http", time.Since(start), h.recommender.ProductCount(), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "training failed: "+err.Error(), err)
		return
	}

	logging.Info().
		Int("products", h.recommender.ProductCount()).
		Dur("duration", time.Since(start)).
		Msg("retrain triggered via HTTP completed")

	respondJSON(w, http.StatusOK, map[string]string{
		"message": trainSuccessMessage,
	})
}

// Health handles GET /health. Reports process liveness, database
// reachability, and current model state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbStatus := "ok"
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	body := map[string]any{
		"status":         "ok",
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"model": map[string]any{
			"product_count": h.recommender.ProductCount(),
		},
	}
	if trained := h.recommender.LastTrainedAt(); !trained.IsZero() {
		body["model"].(map[string]any)["trained_at"] = trained.UTC().Format(time.RFC3339)
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	respondJSON(w, status, body)
}
