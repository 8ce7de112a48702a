package postgres

import (
	"context"
	"fmt"
)

// schemaStatements crea las tablas si no existen (idempotente).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS import_runs (
		id            UUID PRIMARY KEY,
		source_name   TEXT NOT NULL DEFAULT '',
		records       INTEGER NOT NULL,
		phone_numbers INTEGER NOT NULL,
		resolved      INTEGER NOT NULL,
		unresolved    INTEGER NOT NULL,
		resolved_pct  NUMERIC(5,2) NOT NULL,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ NOT NULL,
		created_by    TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS activation_results (
		run_id               UUID NOT NULL REFERENCES import_runs (id) ON DELETE CASCADE,
		position             INTEGER NOT NULL,
		phone_number         TEXT NOT NULL,
		real_activation_date DATE,
		PRIMARY KEY (run_id, position)
	)`,
}

// EnsureSchema aplica el esquema de tablas de ejecuciones y resultados.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return nil
}
