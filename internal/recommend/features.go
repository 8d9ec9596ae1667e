// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"fmt"
	"strings"

	"github.com/tomtom215/vitrina/internal/models"
)

// CombineFeatures flattens a product into the single text string used as
// its document in the similarity corpus: name, description, brand, country
// of origin, category names, and tags, space-separated.
//
// The four scalar text fields are required; an empty one is an error rather
// than a silently degraded document. Categories and tags may be empty.
func CombineFeatures(p models.Product) (string, error) {
	required := []struct {
		field, value string
	}{
		{"name", p.Name},
		{"description", p.Description},
		{"brand", p.Brand},
		{"country_of_origin", p.CountryOfOrigin},
	}
	for _, r := range required {
		if r.value == "" {
			return "", fmt.Errorf("product %q: missing required field %q", p.ID, r.field)
		}
	}

	parts := make([]string, 0, 4+len(p.Categories)+len(p.Tags))
	parts = append(parts, p.Name, p.Description, p.Brand, p.CountryOfOrigin)
	for _, c := range p.Categories {
		if c.CategoryName != "" {
			parts = append(parts, c.CategoryName)
		}
	}
	for _, t := range p.Tags {
		if t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " "), nil
}
