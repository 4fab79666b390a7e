package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"medilens/internal/models"

	json "github.com/goccy/go-json"
)

var ErrCorruptHistory = errors.New("corrupt history payload")

// migrate decodes any known payload version into the current record list.
// Version 0 is the bare array written by the browser client.
func migrate(raw []byte) ([]models.AnalysisResult, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty payload", ErrCorruptHistory)
	}

	if trimmed[0] == '[' {
		var results []models.AnalysisResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCorruptHistory, err)
		}
		return results, 0, nil
	}

	var probe models.HistoryEnvelopeProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCorruptHistory, err)
	}

	switch probe.Version {
	case 1:
		var results []models.AnalysisResult
		if len(probe.Results) > 0 {
			if err := json.Unmarshal(probe.Results, &results); err != nil {
				return nil, probe.Version, fmt.Errorf("%w: %w", ErrCorruptHistory, err)
			}
		}
		return results, probe.Version, nil
	default:
		return nil, probe.Version, fmt.Errorf("%w: unsupported version %d", ErrCorruptHistory, probe.Version)
	}
}

// dropInvalid removes records that cannot be addressed or rendered.
func dropInvalid(results []models.AnalysisResult) ([]models.AnalysisResult, int) {
	kept := results[:0]
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		kept = append(kept, r)
	}
	return kept, len(results) - len(kept)
}
