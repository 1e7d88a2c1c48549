// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import (
	"fmt"
	"math"
	"strings"
)

// Vector is a sparse term-weight vector.
type Vector map[string]float64

// DocumentVectorizer converts normalized documents into TF-IDF vectors.
//
// The vectorizer must be fitted on a corpus before Transform is called,
// and the SAME fitted instance must vectorize both the corpus and any
// query documents so that term weights are comparable. IDF uses add-one
// smoothing, so single-document corpora fit without error.
//
// A DocumentVectorizer is not safe for concurrent mutation; the service
// builds a fresh instance per request.
type DocumentVectorizer struct {
	idf    map[string]float64
	fitted bool
}

// NewDocumentVectorizer returns an unfitted vectorizer.
func NewDocumentVectorizer() *DocumentVectorizer {
	return &DocumentVectorizer{}
}

// Fitted reports whether the vectorizer has learned corpus statistics.
func (v *DocumentVectorizer) Fitted() bool {
	return v.fitted
}

// Fit learns IDF weights from the corpus. An empty corpus fits to an
// empty vocabulary; every later Transform then yields empty vectors.
func (v *DocumentVectorizer) Fit(corpus []string) {
	docCount := len(corpus)
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range strings.Fields(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// Smoothed IDF: ln((1+N)/(1+df)) + 1. Never zero, never divides by
	// zero, and well defined for a one-document corpus.
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+docCount)/float64(1+count)) + 1
	}

	v.idf = idf
	v.fitted = true
}

// Transform vectorizes documents with the fitted vocabulary. Terms unseen
// during Fit are ignored. Vectors are L2-normalized; an all-unknown or
// empty document yields an empty vector.
//
// Returns ErrInvalidState if called before Fit.
func (v *DocumentVectorizer) Transform(docs []string) ([]Vector, error) {
	if !v.fitted {
		return nil, fmt.Errorf("%w: transform called before fit", ErrInvalidState)
	}

	vectors := make([]Vector, len(docs))
	for i, doc := range docs {
		vectors[i] = v.vectorize(doc)
	}
	return vectors, nil
}

// FitTransform fits on the corpus and returns its vectors in one step.
func (v *DocumentVectorizer) FitTransform(corpus []string) []Vector {
	v.Fit(corpus)
	vectors, _ := v.Transform(corpus)
	return vectors
}

func (v *DocumentVectorizer) vectorize(doc string) Vector {
	counts := make(map[string]int)
	for _, term := range strings.Fields(doc) {
		if _, known := v.idf[term]; known {
			counts[term]++
		}
	}

	vec := make(Vector, len(counts))
	var sumSquares float64
	for term, count := range counts {
		w := float64(count) * v.idf[term]
		vec[term] = w
		sumSquares += w * w
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for term := range vec {
			vec[term] /= norm
		}
	}

	return vec
}
