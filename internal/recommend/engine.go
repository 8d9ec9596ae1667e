// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package recommend implements the product recommendation pipeline:
// catalog fetch, feature synthesis, TF-IDF similarity matrix computation,
// model persistence, and top-K nearest-neighbor queries.
//
// The package depends on the catalog only through the ProductSource
// interface, so the pipeline is a pure function of (data source, store,
// query parameters) and testable without a live database.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/recommend/storage"
)

// DefaultTopN is the number of products returned when the caller does not
// specify one.
const DefaultTopN = 5

// ProductSource supplies the product catalog for training.
// Implemented by the database layer.
type ProductSource interface {
	// FetchProducts returns every row of the products table.
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// Engine trains and serves the content-similarity model.
// It is safe for concurrent use: queries read the current model under a
// read lock while Train swaps in a replacement after a successful save.
type Engine struct {
	source ProductSource
	store  *storage.Store
	logger zerolog.Logger

	// model is the current in-memory artifact plus its ID index.
	// Guarded by mu; replaced wholesale on retrain.
	mu    sync.RWMutex
	model *model

	// lastTrainedAt is guarded by mu alongside model.
	lastTrainedAt time.Time

	// trainMu serializes concurrent retrain invocations.
	trainMu sync.Mutex
}

// model pairs the persisted artifact with the row index built on load.
type model struct {
	artifact *storage.Artifact
	index    map[string]int
}

// NewEngine creates an engine over the given catalog source and model store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(source ProductSource, store *storage.Store, logger zerolog.Logger) *Engine {
	return &Engine{
		source: source,
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Train runs the full pipeline on the calling goroutine:
// fetch -> synthesize -> build matrix -> save -> verify -> swap in memory.
// The first error encountered propagates; on failure the previous model
// keeps serving.
func (e *Engine) Train(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()

	products, err := e.source.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	if len(products) == 0 {
		return ErrNoProducts
	}

	records := make([]storage.ProductRecord, len(products))
	corpus := make([]string, len(products))
	for i, p := range products {
		combined, err := CombineFeatures(p)
		if err != nil {
			return fmt.Errorf("synthesize features: %w", err)
		}
		records[i] = newProductRecord(p, combined)
		corpus[i] = combined
	}

	matrix, err := BuildSimilarityMatrix(corpus)
	if err != nil {
		return fmt.Errorf("build similarity matrix: %w", err)
	}

	artifact := &storage.Artifact{Products: records, Matrix: matrix}
	meta := storage.Metadata{
		TrainedAt:          start,
		TrainingDurationMS: time.Since(start).Milliseconds(),
	}
	if err := e.store.Save(ctx, artifact, meta); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := e.store.Verify(ctx); err != nil {
		return fmt.Errorf("verify saved model: %w", err)
	}

	e.swapModel(artifact, start)

	e.logger.Info().
		Int("products", len(products)).
		Dur("duration", time.Since(start)).
		Str("path", e.store.Path()).
		Msg("model trained and saved")

	return nil
}

// Recommend returns up to topN product IDs most similar to productID,
// ranked by descending similarity. The query product itself is excluded by
// identifier, and ties keep the catalog's row order (stable sort).
// topN <= 0 selects DefaultTopN.
func (e *Engine) Recommend(ctx context.Context, productID string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	m, err := e.currentModel(ctx)
	if err != nil {
		return nil, err
	}

	idx, ok := m.index[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	row := m.artifact.Matrix[idx]

	type scored struct {
		row   int
		score float64
	}
	candidates := make([]scored, 0, len(row)-1)
	for i, score := range row {
		// Exclude by identifier so duplicate rows for the query product
		// can never recommend it back to itself.
		if m.artifact.Products[i].ID == productID {
			continue
		}
		candidates = append(candidates, scored{row: i, score: score})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = m.artifact.Products[c.row].ID
	}
	return ids, nil
}

// LastTrainedAt returns when the in-memory model was last trained, or the
// zero time if no training has happened in this process.
func (e *Engine) LastTrainedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastTrainedAt
}

// ProductCount returns the number of products in the current model, or 0
// when no model is loaded.
func (e *Engine) ProductCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.model == nil {
		return 0
	}
	return len(e.model.artifact.Products)
}

// currentModel returns the in-memory model, lazily loading the persisted
// artifact on first use (a restart serves the last trained model without
// retraining).
func (e *Engine) currentModel(ctx context.Context) (*model, error) {
	e.mu.RLock()
	m := e.model
	e.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model, nil
	}

	artifact, meta, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	e.model = &model{artifact: artifact, index: buildIndex(artifact)}
	e.lastTrainedAt = meta.TrainedAt

	e.logger.Info().
		Int("products", len(artifact.Products)).
		Time("trained_at", meta.TrainedAt).
		Msg("loaded persisted model")

	return e.model, nil
}

// swapModel replaces the in-memory model. Readers holding the previous
// pointer finish their query against the old snapshot.
func (e *Engine) swapModel(artifact *storage.Artifact, trainedAt time.Time) {
	m := &model{artifact: artifact, index: buildIndex(artifact)}
	e.mu.Lock()
	e.model = m
	e.lastTrainedAt = trainedAt
	e.mu.Unlock()
}

func buildIndex(artifact *storage.Artifact) map[string]int {
	index := make(map[string]int, len(artifact.Products))
	for i, p := range artifact.Products {
		index[p.ID] = i
	}
	return index
}

func newProductRecord(p models.Product, combined string) storage.ProductRecord {
	names := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		names[i] = c.CategoryName
	}
	return storage.ProductRecord{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Brand:            p.Brand,
		CountryOfOrigin:  p.CountryOfOrigin,
		CategoryNames:    names,
		Tags:             p.Tags,
		CombinedFeatures: combined,
	}
}
