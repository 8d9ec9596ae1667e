// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Red-Shoe, Leather!",
			want: []string{"red", "shoe", "leather"},
		},
		{
			name: "drops single characters",
			text: "a b cd e f2",
			want: []string{"cd", "f2"},
		},
		{
			name: "drops english stop words",
			text: "the shoe and the hat",
			want: []string{"shoe", "hat"},
		},
		{
			name: "digits kept",
			text: "model 42 size 10",
			want: []string{"model", "42", "size", "10"},
		},
		{
			name: "length filter counts runes not bytes",
			text: "é éclair übergröße",
			want: []string{"éclair", "übergröße"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only stop words",
			text: "the and of",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFitTFIDF(t *testing.T) {
	t.Parallel()

	corpus := []string{
		"red leather shoe",
		"blue wool hat",
		"red canvas shoe",
	}

	vectorizer, vectors, err := fitTFIDF(corpus)
	if err != nil {
		t.Fatalf("fitTFIDF() unexpected error: %v", err)
	}

	if len(vectors) != len(corpus) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(corpus))
	}

	// Vocabulary covers every distinct token.
	wantTerms := []string{"blue", "canvas", "hat", "leather", "red", "shoe", "wool"}
	if len(vectorizer.vocabulary) != len(wantTerms) {
		t.Fatalf("vocabulary size = %d, want %d", len(vectorizer.vocabulary), len(wantTerms))
	}
	for i, term := range wantTerms {
		idx, ok := vectorizer.vocabulary[term]
		if !ok {
			t.Fatalf("vocabulary missing term %q", term)
		}
		// Sorted vocabulary means index equals sorted position.
		if idx != i {
			t.Errorf("vocabulary[%q] = %d, want %d", term, idx, i)
		}
	}

	// Every non-empty document vector has unit L2 norm.
	for i, vec := range vectors {
		var sumSq float64
		for _, v := range vec {
			sumSq += v * v
		}
		if math.Abs(sumSq-1.0) > 1e-9 {
			t.Errorf("vector %d norm^2 = %v, want 1.0", i, sumSq)
		}
	}

	// "red" appears in 2 of 3 documents, "wool" in 1. The rarer term must
	// carry the larger IDF weight.
	redIDF := vectorizer.idf[vectorizer.vocabulary["red"]]
	woolIDF := vectorizer.idf[vectorizer.vocabulary["wool"]]
	if woolIDF <= redIDF {
		t.Errorf("idf(wool)=%v should exceed idf(red)=%v", woolIDF, redIDF)
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	wantRed := math.Log(4.0/3.0) + 1
	if math.Abs(redIDF-wantRed) > 1e-9 {
		t.Errorf("idf(red) = %v, want %v", redIDF, wantRed)
	}
}

func TestFitTFIDFEmptyVocabulary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		corpus []string
	}{
		{name: "all stop words", corpus: []string{"the and", "of a"}},
		{name: "empty documents", corpus: []string{"", ""}},
		{name: "punctuation only", corpus: []string{"!!!", "---"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := fitTFIDF(tt.corpus)
			if !errors.Is(err, ErrEmptyVocabulary) {
				t.Errorf("fitTFIDF() error = %v, want ErrEmptyVocabulary", err)
			}
		})
	}
}

func TestL2Normalize(t *testing.T) {
	t.Parallel()

	vec := []float64{3, 4}
	l2Normalize(vec)
	if math.Abs(vec[0]-0.6) > 1e-9 || math.Abs(vec[1]-0.8) > 1e-9 {
		t.Errorf("l2Normalize([3 4]) = %v, want [0.6 0.8]", vec)
	}

	zero := []float64{0, 0, 0}
	l2Normalize(zero)
	for i, v := range zero {
		if v != 0 {
			t.Errorf("zero vector changed at %d: %v", i, v)
		}
	}
}
