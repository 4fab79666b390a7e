package services

import (
	"medilens/internal/models"
	"medilens/internal/persistence/interfaces"
	"medilens/internal/providers"
	"sync"
)

type HistoryServiceInterface interface {
	Restore() error
	Persist() error
	Append(result models.AnalysisResult) []models.AnalysisResult
	Remove(id string) []models.AnalysisResult
	List() []models.AnalysisResult
	Snapshot() (uint64, []models.AnalysisResult)
	Generation() uint64
	Get(id string) (models.AnalysisResult, bool)
	Len() int
}

// HistoryService owns the in-memory history, newest first. Every mutation is
// saved under the lock, so saves complete in the order mutations were made.
// A failed save never rolls back the in-memory change.
type HistoryService struct {
	mu         sync.Mutex
	results    []models.AnalysisResult
	generation uint64
	store   interfaces.HistoryStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewHistoryService(store interfaces.HistoryStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) HistoryServiceInterface {
	return &HistoryService{
		results: make([]models.AnalysisResult, 0),
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Restore replaces the in-memory history with the persisted one. On error the
// history is left empty and the session continues.
func (hs *HistoryService) Restore() error {
	results, err := hs.store.Load()

	hs.mu.Lock()
	defer hs.mu.Unlock()
	if results == nil {
		results = make([]models.AnalysisResult, 0)
	}
	hs.results = results
	hs.generation++
	hs.metrics.SetHistorySize(len(hs.results))

	if err != nil {
		hs.logger.Warnf(providers.TypeApp, "History restore failed, starting empty: %s", err)
		return err
	}
	hs.logger.Infof(providers.TypeApp, "Restored %d history entries", len(results))
	return nil
}

func (hs *HistoryService) Persist() error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.store.Save(hs.results)
}

func (hs *HistoryService) Append(result models.AnalysisResult) []models.AnalysisResult {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	next := make([]models.AnalysisResult, 0, len(hs.results)+1)
	next = append(next, result)
	for _, r := range hs.results {
		if r.ID != result.ID {
			next = append(next, r)
		}
	}
	hs.results = next
	hs.save()

	return hs.snapshot()
}

// Remove drops the entry with id. Unknown ids leave the history untouched.
func (hs *HistoryService) Remove(id string) []models.AnalysisResult {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	idx := hs.indexOf(id)
	if idx < 0 {
		return hs.snapshot()
	}

	next := make([]models.AnalysisResult, 0, len(hs.results)-1)
	next = append(next, hs.results[:idx]...)
	next = append(next, hs.results[idx+1:]...)
	hs.results = next
	hs.save()

	return hs.snapshot()
}

func (hs *HistoryService) List() []models.AnalysisResult {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.snapshot()
}

// Snapshot returns the history together with the generation it belongs to.
// The generation changes on every mutation.
func (hs *HistoryService) Snapshot() (uint64, []models.AnalysisResult) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.generation, hs.snapshot()
}

func (hs *HistoryService) Generation() uint64 {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.generation
}

func (hs *HistoryService) Get(id string) (models.AnalysisResult, bool) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if idx := hs.indexOf(id); idx >= 0 {
		return hs.results[idx], true
	}
	return models.AnalysisResult{}, false
}

func (hs *HistoryService) Len() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.results)
}

func (hs *HistoryService) save() {
	hs.generation++
	hs.metrics.SetHistorySize(len(hs.results))
	if err := hs.store.Save(hs.results); err != nil {
		hs.logger.Debugf(providers.TypeApp, "History kept in memory only: %s", err)
	}
}

func (hs *HistoryService) indexOf(id string) int {
	for i, r := range hs.results {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (hs *HistoryService) snapshot() []models.AnalysisResult {
	out := make([]models.AnalysisResult, len(hs.results))
	copy(out, hs.results)
	return out
}
