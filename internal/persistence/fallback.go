package persistence

import (
	"errors"
	"fmt"
	"medilens/internal/models"
	"medilens/internal/persistence/interfaces"
)

// Tier reports which rendition of the history reached the medium.
type Tier string

const (
	TierFull     Tier = "full"
	TierStripped Tier = "stripped"
	TierFailed   Tier = "failed"
)

// WriteFunc persists one rendition of the collection.
type WriteFunc func(results []models.AnalysisResult) error

// StripImages returns a copy of results with every image payload dropped.
// The input slice and its records are left untouched.
func StripImages(results []models.AnalysisResult) []models.AnalysisResult {
	stripped := make([]models.AnalysisResult, len(results))
	for i, r := range results {
		stripped[i] = r.WithoutImage()
	}
	return stripped
}

// SaveWithFallback writes the full collection and, only when the medium reports a
// quota error, retries once with images stripped. Other failures are returned as-is.
func SaveWithFallback(results []models.AnalysisResult, write WriteFunc) (Tier, error) {
	err := write(results)
	if err == nil {
		return TierFull, nil
	}
	if !errors.Is(err, interfaces.ErrQuotaExceeded) {
		return TierFailed, err
	}

	if err := write(StripImages(results)); err != nil {
		return TierFailed, fmt.Errorf("image-stripped retry: %w", err)
	}
	return TierStripped, nil
}
