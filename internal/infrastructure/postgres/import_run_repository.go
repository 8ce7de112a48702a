package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
	"github.com/jhoicas/activacion-real/internal/domain/repository"
)

var _ repository.ImportRunRepository = (*ImportRunRepo)(nil)

const importRunColumns = `id, source_name, records, phone_numbers, resolved, unresolved, resolved_pct, started_at, finished_at, created_by`

// ImportRunRepo implementación sobre PostgreSQL (usable con pool o tx).
type ImportRunRepo struct {
	q Querier
}

// NewImportRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportRunRepository(q Querier) *ImportRunRepo {
	return &ImportRunRepo{q: q}
}

// Create persiste una ejecución.
func (r *ImportRunRepo) Create(ctx context.Context, run *entity.ImportRun) error {
	query := `INSERT INTO import_runs (` + importRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if run.CreatedBy != "" {
		createdBy = &run.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		run.ID, run.SourceName, run.Records, run.PhoneNumbers, run.Resolved, run.Unresolved,
		run.ResolvedPct, run.StartedAt, run.FinishedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create import run: %w", err)
	}
	return nil
}

// GetByID obtiene una ejecución por ID; nil si no existe.
func (r *ImportRunRepo) GetByID(ctx context.Context, id string) (*entity.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs WHERE id = $1`
	run, err := scanImportRun(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import run: %w", err)
	}
	return run, nil
}

// List lista ejecuciones, más recientes primero.
func (r *ImportRunRepo) List(ctx context.Context, limit, offset int) ([]*entity.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs ORDER BY started_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

func scanImportRun(row pgx.Row) (*entity.ImportRun, error) {
	var run entity.ImportRun
	var createdBy *string
	if err := row.Scan(
		&run.ID, &run.SourceName, &run.Records, &run.PhoneNumbers, &run.Resolved, &run.Unresolved,
		&run.ResolvedPct, &run.StartedAt, &run.FinishedAt, &createdBy,
	); err != nil {
		return nil, err
	}
	if createdBy != nil {
		run.CreatedBy = *createdBy
	}
	return &run, nil
}
