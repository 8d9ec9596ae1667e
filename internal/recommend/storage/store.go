// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package storage persists the trained recommendation model.
//
// The artifact is a snapshot of the product table plus the pairwise
// similarity matrix, serialized with gob, gzip-compressed, and written
// as one file at a fixed path. A SHA-256 checksum in the metadata is
// verified on every load.
//
// # Atomicity
//
// Save writes to a temporary file in the same directory and renames it
// into place, so a reader racing a retrain always observes either the
// complete previous artifact or the complete new one, never a torn file.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// ErrModelNotFound indicates no artifact exists at the store path.
	ErrModelNotFound = errors.New("model file not found")

	// ErrModelCorrupt indicates the artifact exists but cannot be
	// decoded, decompressed, or fails its checksum.
	ErrModelCorrupt = errors.New("model file corrupt")
)

// ProductRecord is one row of the product snapshot embedded in the
// artifact. Row order matches the similarity matrix's row order.
type ProductRecord struct {
	ID               string
	Name             string
	Description      string
	Brand            string
	CountryOfOrigin  string
	CategoryNames    []string
	Tags             []string
	CombinedFeatures string
}

// Artifact is the persisted model: the product table snapshot paired with
// the square cosine-similarity matrix computed over it.
type Artifact struct {
	Products []ProductRecord
	Matrix   [][]float64
}

// Metadata describes a stored artifact.
type Metadata struct {
	TrainedAt          time.Time
	SavedAt            time.Time
	ProductCount       int
	Checksum           string
	SizeBytes          int64
	TrainingDurationMS int64
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store persists one model artifact at a fixed path.
// All operations are safe for concurrent use.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a store for the given artifact path, creating the
// parent directory if missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("model path is required")
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create model directory %s: %w", dir, err)
		}
	}
	return &Store{path: path}, nil
}

// Path returns the artifact path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether an artifact is present at the store path.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path)
	return err == nil
}

// Save serializes the artifact and atomically replaces the file at the
// store path. The previous artifact, if any, is overwritten wholesale.
//
//nolint:gocritic // meta is passed by value; the stamped copy is written
func (s *Store) Save(ctx context.Context, artifact *Artifact, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(artifact); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.ProductCount = len(artifact.Products)

	// Write to a temp file in the target directory so the rename stays on
	// one filesystem and is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpPath := tmp.Name()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close()        //nolint:errcheck // cleanup path
		_ = os.Remove(tmpPath) //nolint:errcheck // cleanup path
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // cleanup path
		return fmt.Errorf("close temp model file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // cleanup path
		return fmt.Errorf("replace model file: %w", err)
	}

	return nil
}

// Load reads and validates the artifact at the store path.
func (s *Store) Load(ctx context.Context) (*Artifact, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrModelNotFound, s.path)
		}
		return nil, nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("%w: read file: %v", ErrModelCorrupt, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress: %v", ErrModelCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress: %v", ErrModelCorrupt, err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s",
			ErrModelCorrupt, sf.Metadata.Checksum, checksum)
	}

	var artifact Artifact
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&artifact); err != nil {
		return nil, nil, fmt.Errorf("%w: decode: %v", ErrModelCorrupt, err)
	}

	return &artifact, &sf.Metadata, nil
}

// Verify loads and discards the artifact, reporting whether the persisted
// model is readable. A post-write sanity check with no side effects.
func (s *Store) Verify(ctx context.Context) error {
	_, _, err := s.Load(ctx)
	return err
}
