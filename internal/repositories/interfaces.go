package repositories

import (
	"context"

	"github.com/chrisdamba/ridersim/internal/models"
)

// StoredResult is a SimulationResult tagged with the experiment it belongs to
// and its position in that experiment.
type StoredResult struct {
	ExperimentID string
	Seed         int64
	Position     int
	models.SimulationResult
}

type SimulationResultRepository interface {
	EnsureSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, results []*StoredResult) error
	GetByExperiment(ctx context.Context, experimentID string) ([]*StoredResult, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// NewStoredResults tags an experiment's ordered results for persistence.
func NewStoredResults(experimentID string, seed int64, results []models.SimulationResult) []*StoredResult {
	stored := make([]*StoredResult, len(results))
	for i, r := range results {
		stored[i] = &StoredResult{
			ExperimentID:     experimentID,
			Seed:             seed,
			Position:         i,
			SimulationResult: r,
		}
	}
	return stored
}
