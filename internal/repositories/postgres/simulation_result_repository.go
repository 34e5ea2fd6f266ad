package postgres

import (
	"context"

	"github.com/chrisdamba/ridersim/internal/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SimulationResultRepository struct {
	pool *pgxpool.Pool
}

func NewSimulationResultRepository(pool *pgxpool.Pool) *SimulationResultRepository {
	return &SimulationResultRepository{pool: pool}
}

// Connect opens a pool and checks it is reachable.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (r *SimulationResultRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS simulation_results (
            experiment_id    TEXT NOT NULL,
            seed             BIGINT NOT NULL,
            position         INTEGER NOT NULL,
            num_riders       INTEGER NOT NULL,
            completed_orders INTEGER NOT NULL,
            avg_wait         DOUBLE PRECISION NOT NULL,
            max_wait         INTEGER NOT NULL,
            calls_waited     INTEGER NOT NULL,
            max_queue        INTEGER NOT NULL,
            total_arrivals   INTEGER NOT NULL,
            still_queued     INTEGER NOT NULL,
            created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (experiment_id, position)
        )
    `)
	return err
}

func (r *SimulationResultRepository) BulkCreate(ctx context.Context, results []*repositories.StoredResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO simulation_results (
            experiment_id, seed, position, num_riders, completed_orders,
            avg_wait, max_wait, calls_waited, max_queue,
            total_arrivals, still_queued
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	for _, result := range results {
		_, err = tx.Exec(ctx, query,
			result.ExperimentID,
			result.Seed,
			result.Position,
			result.NumRiders,
			result.CompletedOrders,
			result.AvgWait,
			result.MaxWait,
			result.CallsWaited,
			result.MaxQueue,
			result.TotalArrivals,
			result.StillQueued,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *SimulationResultRepository) GetByExperiment(ctx context.Context, experimentID string) ([]*repositories.StoredResult, error) {
	query := `
        SELECT
            experiment_id, seed, position, num_riders, completed_orders,
            avg_wait, max_wait, calls_waited, max_queue,
            total_arrivals, still_queued
        FROM simulation_results
        WHERE experiment_id = $1
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query, experimentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*repositories.StoredResult
	for rows.Next() {
		result := &repositories.StoredResult{}
		err := rows.Scan(
			&result.ExperimentID,
			&result.Seed,
			&result.Position,
			&result.NumRiders,
			&result.CompletedOrders,
			&result.AvgWait,
			&result.MaxWait,
			&result.CallsWaited,
			&result.MaxQueue,
			&result.TotalArrivals,
			&result.StillQueued,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (r *SimulationResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM simulation_results").Scan(&count)
	return count, err
}

func (r *SimulationResultRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE simulation_results")
	return err
}
