// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package models defines the data structures shared across the catalog,
// recommendation pipeline, and API layers.
package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Category is one entry of a product's categories column.
type Category struct {
	CategoryName string `json:"category_name"`
}

// Product is a row of the products table. The pipeline treats the catalog
// as read-only; products are never written back.
type Product struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Brand           string     `json:"brand"`
	CountryOfOrigin string     `json:"country_of_origin"`
	Categories      []Category `json:"categories"`
	Tags            []string   `json:"tags"`
}

// DecodeCategories parses the JSON-encoded categories column.
// An empty column decodes to no categories.
func DecodeCategories(raw string) ([]Category, error) {
	if raw == "" {
		return nil, nil
	}
	var cats []Category
	if err := json.Unmarshal([]byte(raw), &cats); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return cats, nil
}

// DecodeTags parses the JSON-encoded tags column.
// An empty column decodes to no tags.
func DecodeTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the database layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
