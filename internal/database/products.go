// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/models"
)

// FetchProducts returns every row of the products table in insertion
// order. JSON-encoded categories and tags columns are decoded; SQL NULL
// text columns come back as empty strings and the feature synthesizer
// decides whether that is acceptable.
func (db *DB) FetchProducts(ctx context.Context) (products []models.Product, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, description, brand, country_of_origin, categories, tags
		FROM products
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // error on close after read is not actionable

	for rows.Next() {
		var p models.Product
		var description, brand, country, categoriesRaw, tagsRaw sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &brand, &country, &categoriesRaw, &tagsRaw); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = description.String
		p.Brand = brand.String
		p.CountryOfOrigin = country.String

		if p.Categories, err = models.DecodeCategories(categoriesRaw.String); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		if p.Tags, err = models.DecodeTags(tagsRaw.String); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// seedMockProducts inserts a small sample catalog when the table is
// empty. Development convenience behind database.seed_mock_data.
func (db *DB) seedMockProducts(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := [][]string{
		{"p-1001", "Trail Runner Shoe", "Lightweight trail running shoe with aggressive grip", "Northpeak", "Vietnam",
			`[{"category_name":"Footwear"},{"category_name":"Running"}]`, `["outdoor","running","trail"]`},
		{"p-1002", "Road Runner Shoe", "Cushioned road running shoe for daily training", "Northpeak", "Vietnam",
			`[{"category_name":"Footwear"},{"category_name":"Running"}]`, `["running","road"]`},
		{"p-1003", "Canvas Sneaker", "Classic canvas sneaker for everyday wear", "Urbanloom", "Portugal",
			`[{"category_name":"Footwear"}]`, `["casual","canvas"]`},
		{"p-1004", "Merino Beanie", "Soft merino wool beanie for cold weather", "Urbanloom", "New Zealand",
			`[{"category_name":"Accessories"},{"category_name":"Headwear"}]`, `["wool","winter"]`},
		{"p-1005", "Insulated Bottle", "Vacuum insulated steel bottle keeps drinks cold", "Hydropeak", "China",
			`[{"category_name":"Accessories"}]`, `["outdoor","steel"]`},
	}

	for _, row := range seed {
		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO products (id, name, description, brand, country_of_origin, categories, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row[0], row[1], row[2], row[3], row[4], row[5], row[6]); err != nil {
			return fmt.Errorf("insert seed product %s: %w", row[0], err)
		}
	}

	return nil
}
