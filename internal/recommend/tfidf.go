// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize lowercases text and splits it into runs of letters and digits,
// keeping tokens of length >= 2 and dropping English stop words. Single
// characters carry no signal for catalog text.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tfidfVectorizer fits a term-frequency inverse-document-frequency model
// over a document corpus. IDF uses the smoothed form ln((1+n)/(1+df)) + 1
// and document vectors are L2-normalized, so the dot product of two
// vectors is their cosine similarity.
type tfidfVectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fitTFIDF builds the vocabulary and per-document TF-IDF vectors for a
// corpus. The vocabulary is sorted so the output is deterministic for a
// given corpus. Returns ErrEmptyVocabulary when no document yields tokens.
func fitTFIDF(corpus []string) (*tfidfVectorizer, [][]float64, error) {
	docTokens := make([][]string, len(corpus))
	termSet := make(map[string]struct{})
	for i, doc := range corpus {
		docTokens[i] = tokenize(doc)
		for _, t := range docTokens[i] {
			termSet[t] = struct{}{}
		}
	}
	if len(termSet) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(termSet))
	for t := range termSet {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	// Document frequency per term.
	df := make([]int, len(terms))
	for _, tokens := range docTokens {
		seen := make(map[int]struct{}, len(tokens))
		for _, t := range tokens {
			seen[vocab[t]] = struct{}{}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([][]float64, len(corpus))
	for i, tokens := range docTokens {
		vec := make([]float64, len(terms))
		for _, t := range tokens {
			vec[vocab[t]]++
		}
		for j := range vec {
			vec[j] *= idf[j]
		}
		l2Normalize(vec)
		vectors[i] = vec
	}

	return &tfidfVectorizer{vocabulary: vocab, idf: idf}, vectors, nil
}

// l2Normalize scales a vector to unit length in place. The zero vector is
// left untouched.
func l2Normalize(vec []float64) {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] /= norm
	}
}
