package repository

import (
	"context"

	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// ActivationResultRepository define el puerto de persistencia de las filas de resultado.
// Las filas se devuelven en el orden en que se insertaron (orden de primera aparición).
type ActivationResultRepository interface {
	CreateBatch(ctx context.Context, runID string, results []entity.ActivationResult) error
	ListByRun(ctx context.Context, runID string) ([]entity.ActivationResult, error)
}
