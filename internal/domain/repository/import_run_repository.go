package repository

import (
	"context"

	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// ImportRunRepository define el puerto de persistencia para ejecuciones de cálculo.
type ImportRunRepository interface {
	Create(ctx context.Context, run *entity.ImportRun) error
	GetByID(ctx context.Context, id string) (*entity.ImportRun, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ImportRun, error)
}
