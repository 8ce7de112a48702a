package activation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
	"github.com/jhoicas/activacion-real/internal/domain/repository"
)

// ResolveUseCase calcula la fecha de activación real de cada número de un archivo,
// escribe el reporte y, si hay base de datos configurada, guarda la ejecución.
type ResolveUseCase struct {
	txRunner   TxRunner
	runRepo    repository.ImportRunRepository
	resultRepo repository.ActivationResultRepository
	now        func() time.Time
}

// NewResolveUseCase construye el caso de uso. Con txRunner nil la persistencia queda deshabilitada.
func NewResolveUseCase(
	txRunner TxRunner,
	runRepo repository.ImportRunRepository,
	resultRepo repository.ActivationResultRepository,
) *ResolveUseCase {
	return &ResolveUseCase{
		txRunner:   txRunner,
		runRepo:    runRepo,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// ResolveInput entrada del cálculo.
// Si Output es nil no se escribe reporte (p. ej. la API responde JSON).
type ResolveInput struct {
	Source     io.Reader
	SourceName string
	Options    IngestOptions
	Persist    bool
	CreatedBy  string
	Output     io.Writer
	Writer     ResultWriter
}

// ResolveOutput reporte calculado y si quedó guardado.
type ResolveOutput struct {
	Report    Report
	Persisted bool
}

// PersistenceEnabled indica si hay repositorios configurados.
func (uc *ResolveUseCase) PersistenceEnabled() bool {
	return uc.txRunner != nil && uc.runRepo != nil && uc.resultRepo != nil
}

// Resolve ejecuta ingesta → reporte → persistencia opcional → escritura opcional.
func (uc *ResolveUseCase) Resolve(ctx context.Context, in ResolveInput) (*ResolveOutput, error) {
	if in.Source == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.Output != nil && in.Writer == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.Persist && !uc.PersistenceEnabled() {
		return nil, domain.ErrPersistenceDisabled
	}

	started := uc.now()
	agg := NewAggregator()
	if err := agg.Ingest(ctx, in.Source, in.Options); err != nil {
		return nil, err
	}

	report := agg.Report()
	report.Run.ID = uuid.New().String()
	report.Run.SourceName = in.SourceName
	report.Run.CreatedBy = in.CreatedBy
	report.Run.StartedAt = started
	report.Run.FinishedAt = uc.now()

	out := &ResolveOutput{Report: report}
	if in.Persist {
		err := uc.txRunner.Run(ctx, func(
			runRepo repository.ImportRunRepository,
			resultRepo repository.ActivationResultRepository,
		) error {
			if err := runRepo.Create(ctx, &out.Report.Run); err != nil {
				return err
			}
			return resultRepo.CreateBatch(ctx, out.Report.Run.ID, out.Report.Results)
		})
		if err != nil {
			return nil, fmt.Errorf("guardar ejecución: %w", err)
		}
		out.Persisted = true
	}

	if in.Output != nil {
		if err := in.Writer.Write(ctx, in.Output, out.Report); err != nil {
			return nil, fmt.Errorf("escribir reporte: %w", err)
		}
	}
	return out, nil
}

// GetRun devuelve una ejecución guardada con sus filas.
func (uc *ResolveUseCase) GetRun(ctx context.Context, id string) (*Report, error) {
	if !uc.PersistenceEnabled() {
		return nil, domain.ErrPersistenceDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidInput
	}
	run, err := uc.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	results, err := uc.resultRepo.ListByRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Report{Run: *run, Results: results}, nil
}

// ListRuns lista ejecuciones guardadas, más recientes primero.
func (uc *ResolveUseCase) ListRuns(ctx context.Context, limit, offset int) ([]*entity.ImportRun, error) {
	if !uc.PersistenceEnabled() {
		return nil, domain.ErrPersistenceDisabled
	}
	return uc.runRepo.List(ctx, limit, offset)
}
