package persistence

import (
	"errors"
	"fmt"
	"medilens/internal/models"
	"medilens/internal/persistence/interfaces"
	"medilens/internal/providers"
	"medilens/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

// HistoryStore persists the whole collection under one key of a capacity-bounded medium.
type HistoryStore struct {
	key        string
	medium     interfaces.MediumInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewHistoryStore(conf *structures.Config, medium interfaces.MediumInterface, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.HistoryStoreInterface {
	return &HistoryStore{
		key:        conf.Persistence.Key,
		medium:     medium,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (s *HistoryStore) encode(results []models.AnalysisResult) ([]byte, error) {
	if results == nil {
		results = []models.AnalysisResult{}
	}
	jsonData, err := json.Marshal(models.HistoryEnvelope{
		Version: models.HistoryVersion,
		Results: results,
	})
	if err != nil {
		return nil, err
	}
	return s.compressor.Compress(jsonData)
}

func (s *HistoryStore) write(results []models.AnalysisResult) error {
	data, err := s.encode(results)
	if err != nil {
		return err
	}
	return s.medium.Set(s.key, data)
}

// Save replaces the persisted collection, shedding images when the medium is full.
// results is never modified.
func (s *HistoryStore) Save(results []models.AnalysisResult) error {
	start := time.Now()
	tier, err := SaveWithFallback(results, s.write)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.metrics.IncPersistenceWrites(string(tier))

	switch tier {
	case TierStripped:
		s.logger.Warnf(providers.TypeApp, "Storage quota exceeded, saved %d entries without images", len(results))
	case TierFailed:
		s.logger.Errorf(providers.TypeApp, "Failed to persist history: %s", err)
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Load never fails hard: a missing payload is an empty history and a broken one
// is reported alongside an empty history.
func (s *HistoryStore) Load() ([]models.AnalysisResult, error) {
	data, err := s.medium.Get(s.key)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return []models.AnalysisResult{}, nil
		}
		s.logger.Errorf(providers.TypeApp, "Failed to read history: %s", err)
		return []models.AnalysisResult{}, fmt.Errorf("read history: %w", err)
	}

	raw, err := s.compressor.Decompress(data)
	if err != nil {
		// payloads imported from the browser client are plain JSON
		raw = data
	}

	results, version, err := migrate(raw)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Discarding unreadable history: %s", err)
		return []models.AnalysisResult{}, err
	}
	if version != models.HistoryVersion {
		s.logger.Warnf(providers.TypeApp, "Migrated history from version %d to %d", version, models.HistoryVersion)
	}

	results, dropped := dropInvalid(results)
	if dropped > 0 {
		s.logger.Warnf(providers.TypeApp, "Dropped %d history entries without a unique id", dropped)
	}
	if results == nil {
		results = []models.AnalysisResult{}
	}
	return results, nil
}
