package activation

import (
	"context"
	"io"

	"github.com/jhoicas/activacion-real/internal/domain/entity"
	"github.com/jhoicas/activacion-real/internal/domain/repository"
)

// Report resultado completo de una ejecución: resumen más una fila por número,
// en orden de primera aparición.
type Report struct {
	Run     entity.ImportRun
	Results []entity.ActivationResult
}

// ResultWriter serializa un Report (CSV, XLSX, PDF...). Lo implementa infrastructure/export.
type ResultWriter interface {
	Write(ctx context.Context, w io.Writer, report Report) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la ejecución y sus filas se guardan juntas o no se guardan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		runRepo repository.ImportRunRepository,
		resultRepo repository.ActivationResultRepository,
	) error) error
}
