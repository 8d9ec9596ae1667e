// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import "errors"

var (
	// ErrModelUnavailable indicates no trained model exists in memory or
	// on disk. Train must run before recommendations can be served.
	ErrModelUnavailable = errors.New("recommendation model unavailable: train the model first")

	// ErrUnknownProduct indicates the queried product ID is not part of
	// the trained model. Exact match only, no fuzzy fallback.
	ErrUnknownProduct = errors.New("unknown product id")

	// ErrNoProducts indicates the catalog returned zero rows; there is no
	// corpus to fit.
	ErrNoProducts = errors.New("no products found in the database")

	// ErrEmptyVocabulary indicates every document tokenized to nothing
	// (stop words only, or empty text).
	ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words")
)
