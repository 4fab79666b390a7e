package models

import "time"

// AnalysisResult is one completed analysis. ImageURL holds the inline data URI
// of the photographed document and is empty for text analyses.
type AnalysisResult struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	ImageURL  string `json:"imageUrl,omitempty"`
	RawText   string `json:"rawText"`
}

func NewAnalysisResult(id string, createdAt time.Time, imageURL, rawText string) AnalysisResult {
	return AnalysisResult{
		ID:        id,
		Timestamp: createdAt.UnixMilli(),
		ImageURL:  imageURL,
		RawText:   rawText,
	}
}

func (r AnalysisResult) IsImage() bool {
	return r.ImageURL != ""
}

func (r AnalysisResult) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// WithoutImage returns a copy with the image payload dropped.
func (r AnalysisResult) WithoutImage() AnalysisResult {
	r.ImageURL = ""
	return r
}
