// Package match implements the face identification core: parsing feature
// vectors from their wire encoding and selecting the best cosine match
// above a confidence threshold.
package match

import (
	"math"
	"strconv"

	"github.com/your-org/conversa/internal/apperr"
)

// DefaultThreshold is the inclusive similarity lower bound used when a
// caller does not supply one.
const DefaultThreshold = 0.6

// Candidate is one known person's stored embedding.
type Candidate struct {
	PersonID string
	Name     string
	Vector   []float32
}

// Result is the outcome of a match scan. When Matched is false, Confidence
// still carries the best similarity seen (0 if no candidate had a vector).
type Result struct {
	Matched    bool
	PersonID   string
	PersonName string
	Confidence float64
}

// ParseVector converts a wire-format vector (decimal components encoded as
// strings) into floats. An empty or malformed probe is a validation error.
func ParseVector(components []string) ([]float32, error) {
	if len(components) == 0 {
		return nil, apperr.Validation("face_embedding", "must not be empty")
	}
	vec := make([]float32, len(components))
	for i, c := range components {
		f, err := strconv.ParseFloat(c, 32)
		if err != nil {
			return nil, apperr.Validation("face_embedding", "component "+strconv.Itoa(i)+" is not a number")
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

// CosineSimilarity computes cosine similarity between two vectors,
// accumulating in float64. Mismatched lengths or a zero-magnitude vector
// yield exactly 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1.0, math.Max(-1.0, sim))
}

// Best scans candidates for the one with the strictly greatest similarity
// to probe. On equal similarity the first-seen candidate wins. Candidates
// with mismatched length or zero magnitude score 0 and are never matched.
// The threshold is an inclusive lower bound.
func Best(probe []float32, candidates []Candidate, threshold float64) (Result, error) {
	if len(probe) == 0 {
		return Result{}, apperr.Validation("face_embedding", "must not be empty")
	}
	if threshold < 0 || threshold > 1 {
		return Result{}, apperr.Validation("threshold", "must be between 0 and 1")
	}

	best := Result{}
	found := false
	bestComparable := false
	for _, c := range candidates {
		sim := CosineSimilarity(probe, c.Vector)
		if !found || sim > best.Confidence {
			best = Result{PersonID: c.PersonID, PersonName: c.Name, Confidence: sim}
			bestComparable = vectorsComparable(probe, c.Vector)
			found = true
		}
	}

	if !found {
		return Result{}, nil
	}
	if bestComparable && best.Confidence >= threshold {
		best.Matched = true
		return best, nil
	}
	return Result{Confidence: best.Confidence}, nil
}

// vectorsComparable reports whether two vectors can produce a meaningful
// cosine: equal lengths and both non-zero magnitude.
func vectorsComparable(a, b []float32) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	var normA, normB float64
	for i := range a {
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return normA != 0 && normB != 0
}
