package interfaces

import "medilens/internal/models"

type HistoryStoreInterface interface {
	Load() ([]models.AnalysisResult, error)
	Save(results []models.AnalysisResult) error
}
