// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package models

import (
	"reflect"
	"testing"
)

func TestDecodeCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []Category
		wantErr bool
	}{
		{
			name: "two categories",
			raw:  `[{"category_name":"Footwear"},{"category_name":"Outdoor"}]`,
			want: []Category{{CategoryName: "Footwear"}, {CategoryName: "Outdoor"}},
		},
		{
			name: "empty column",
			raw:  "",
			want: nil,
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []Category{},
		},
		{
			name:    "malformed json",
			raw:     `[{"category_name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeCategories(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCategories: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeCategories = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "three tags",
			raw:  `["leather","waterproof","hiking"]`,
			want: []string{"leather", "waterproof", "hiking"},
		},
		{
			name: "empty column",
			raw:  "",
			want: nil,
		},
		{
			name:    "not an array",
			raw:     `{"tag":"leather"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeTags(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeTags: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeTags = %v, want %v", got, tt.want)
			}
		})
	}
}
