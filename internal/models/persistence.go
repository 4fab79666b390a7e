package models

import json "github.com/goccy/go-json"

// HistoryVersion is the current persisted envelope version.
// Version 0 is the bare JSON array written by the browser client.
const HistoryVersion = 1

// HistoryEnvelope is the on-medium format of the history collection.
type HistoryEnvelope struct {
	Version int              `json:"version"`
	Results []AnalysisResult `json:"results"`
}

// HistoryEnvelopeProbe decodes only the version so the loader can pick a migration.
type HistoryEnvelopeProbe struct {
	Version int             `json:"version"`
	Results json.RawMessage `json:"results"`
}
