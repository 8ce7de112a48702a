package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activacion-real/internal/domain/entity"
	"github.com/jhoicas/activacion-real/internal/domain/repository"
)

var _ repository.ActivationResultRepository = (*ActivationResultRepo)(nil)

// ActivationResultRepo implementación sobre PostgreSQL (usable con pool o tx).
type ActivationResultRepo struct {
	q Querier
}

// NewActivationResultRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivationResultRepository(q Querier) *ActivationResultRepo {
	return &ActivationResultRepo{q: q}
}

// CreateBatch inserta las filas con COPY; position conserva el orden de primera aparición.
func (r *ActivationResultRepo) CreateBatch(ctx context.Context, runID string, results []entity.ActivationResult) error {
	if len(results) == 0 {
		return nil
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("run id %q: %w", runID, err)
	}
	_, err = r.q.CopyFrom(ctx,
		pgx.Identifier{"activation_results"},
		[]string{"run_id", "position", "phone_number", "real_activation_date"},
		pgx.CopyFromSlice(len(results), func(i int) ([]any, error) {
			var date any
			if d := results[i].RealActivationDate; d != nil {
				date = *d
			}
			return []any{id, int32(i), results[i].PhoneNumber, date}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy activation results: %w", err)
	}
	return nil
}

// ListByRun devuelve las filas de una ejecución en orden.
func (r *ActivationResultRepo) ListByRun(ctx context.Context, runID string) ([]entity.ActivationResult, error) {
	query := `
		SELECT phone_number, real_activation_date
		FROM activation_results WHERE run_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list activation results: %w", err)
	}
	defer rows.Close()
	list := make([]entity.ActivationResult, 0)
	for rows.Next() {
		var res entity.ActivationResult
		var date *time.Time
		if err := rows.Scan(&res.PhoneNumber, &date); err != nil {
			return nil, fmt.Errorf("scan activation result: %w", err)
		}
		res.RealActivationDate = date
		list = append(list, res)
	}
	return list, rows.Err()
}
