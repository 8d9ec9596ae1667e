// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

// BuildSimilarityMatrix vectorizes a corpus with TF-IDF and returns the
// full N x N pairwise cosine-similarity matrix. The matrix is symmetric,
// values lie in [0,1] (TF-IDF weights are non-negative), and the diagonal
// is 1.0 for every document that produced at least one token.
//
// Fails with ErrNoProducts on an empty corpus and ErrEmptyVocabulary when
// no document survives tokenization.
func BuildSimilarityMatrix(corpus []string) ([][]float64, error) {
	if len(corpus) == 0 {
		return nil, ErrNoProducts
	}

	_, vectors, err := fitTFIDF(corpus)
	if err != nil {
		return nil, err
	}

	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	// Vectors are unit length, so cosine similarity is the dot product.
	// Compute the upper triangle and mirror for exact symmetry.
	for i := 0; i < n; i++ {
		matrix[i][i] = dot(vectors[i], vectors[i])
		for j := i + 1; j < n; j++ {
			sim := dot(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	return matrix, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
