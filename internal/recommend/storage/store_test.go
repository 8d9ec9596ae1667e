// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testArtifact() *Artifact {
	return &Artifact{
		Products: []ProductRecord{
			{
				ID:               "p-1",
				Name:             "Red Shoe",
				Description:      "Leather shoe",
				Brand:            "Aster",
				CountryOfOrigin:  "Italy",
				CategoryNames:    []string{"Footwear"},
				Tags:             []string{"shoe", "red"},
				CombinedFeatures: "Red Shoe Leather shoe Aster Italy Footwear shoe red",
			},
			{
				ID:               "p-2",
				Name:             "Blue Hat",
				Description:      "Wool hat",
				Brand:            "Northloom",
				CountryOfOrigin:  "Norway",
				CombinedFeatures: "Blue Hat Wool hat Northloom Norway",
			},
		},
		Matrix: [][]float64{
			{1.0, 0.1234567},
			{0.1234567, 1.0},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "model", "recommender.gob.gz"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "model.gob.gz")
		if _, err := NewStore(path); err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			t.Errorf("parent directory not created: %v", err)
		}
	})

	t.Run("empty path rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewStore(""); err == nil {
			t.Error("NewStore(\"\") should error")
		}
	})
}

func TestStoreSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	trainedAt := time.Now().Add(-time.Minute)
	artifact := testArtifact()
	if err := store.Save(ctx, artifact, Metadata{TrainedAt: trainedAt, TrainingDurationMS: 42}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, meta, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(loaded.Products) != len(artifact.Products) {
		t.Fatalf("loaded %d products, want %d", len(loaded.Products), len(artifact.Products))
	}
	for i, p := range loaded.Products {
		if p.ID != artifact.Products[i].ID || p.CombinedFeatures != artifact.Products[i].CombinedFeatures {
			t.Errorf("product %d = %+v, want %+v", i, p, artifact.Products[i])
		}
	}
	for i := range artifact.Matrix {
		for j := range artifact.Matrix[i] {
			if math.Abs(loaded.Matrix[i][j]-artifact.Matrix[i][j]) > 1e-12 {
				t.Errorf("matrix[%d][%d] = %v, want %v", i, j, loaded.Matrix[i][j], artifact.Matrix[i][j])
			}
		}
	}

	if !meta.TrainedAt.Equal(trainedAt) {
		t.Errorf("meta.TrainedAt = %v, want %v", meta.TrainedAt, trainedAt)
	}
	if meta.ProductCount != 2 {
		t.Errorf("meta.ProductCount = %d, want 2", meta.ProductCount)
	}
	if meta.Checksum == "" {
		t.Error("meta.Checksum is empty")
	}
	if meta.SizeBytes <= 0 {
		t.Errorf("meta.SizeBytes = %d, want > 0", meta.SizeBytes)
	}
	if meta.SavedAt.IsZero() {
		t.Error("meta.SavedAt is zero")
	}
	if meta.TrainingDurationMS != 42 {
		t.Errorf("meta.TrainingDurationMS = %d, want 42", meta.TrainingDurationMS)
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, _, err := store.Load(context.Background())
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() error = %v, want ErrModelNotFound", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(store.Path(), []byte("not a gob stream"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, _, err := store.Load(ctx)
	if !errors.Is(err, ErrModelCorrupt) {
		t.Errorf("Load() error = %v, want ErrModelCorrupt", err)
	}
}

func TestStoreLoadTruncated(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testArtifact(), Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(store.Path(), data[:len(data)/2], 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, _, err := store.Load(ctx); !errors.Is(err, ErrModelCorrupt) {
		t.Errorf("Load() of truncated file error = %v, want ErrModelCorrupt", err)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := testArtifact()
	if err := store.Save(ctx, first, Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}

	second := testArtifact()
	second.Products = second.Products[:1]
	second.Matrix = [][]float64{{1.0}}
	if err := store.Save(ctx, second, Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	loaded, meta, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Products) != 1 || meta.ProductCount != 1 {
		t.Errorf("loaded %d products (meta %d), want 1", len(loaded.Products), meta.ProductCount)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testArtifact(), Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("model directory holds %v, want exactly the artifact", names)
	}
}

func TestStoreExists(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if store.Exists() {
		t.Error("Exists() = true before any save")
	}
	if err := store.Save(context.Background(), testArtifact(), Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !store.Exists() {
		t.Error("Exists() = false after save")
	}
}

func TestStoreVerify(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Verify(ctx); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Verify() on empty store error = %v, want ErrModelNotFound", err)
	}

	if err := store.Save(ctx, testArtifact(), Metadata{TrainedAt: time.Now()}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Verify(ctx); err != nil {
		t.Errorf("Verify() after save error: %v", err)
	}
}

func TestStoreContextCanceled(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, testArtifact(), Metadata{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() with canceled context error = %v, want context.Canceled", err)
	}
	if _, _, err := store.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with canceled context error = %v, want context.Canceled", err)
	}
}
