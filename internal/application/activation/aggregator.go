package activation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
	"github.com/jhoicas/activacion-real/internal/domain/ledger"
)

const shardBuffer = 1024

// Aggregator agrupa los registros por número (un DateLedger por número) y arma el reporte.
// Ciclo de vida en dos fases: Ingest (escritura) y luego Report/Run (lectura).
// Tras la primera lectura el agregador queda sellado.
type Aggregator struct {
	ledgers map[string]*ledger.DateLedger
	order   []string // números en orden de primera aparición
	records int
	sealed  bool
}

// NewAggregator construye un agregador vacío.
func NewAggregator() *Aggregator {
	return &Aggregator{ledgers: make(map[string]*ledger.DateLedger)}
}

// Len cantidad de números distintos vistos.
func (a *Aggregator) Len() int { return len(a.order) }

// Records cantidad de filas ingresadas.
func (a *Aggregator) Records() int { return a.records }

// IngestFile abre path e ingresa su contenido.
func (a *Aggregator) IngestFile(ctx context.Context, path string, opts IngestOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir entrada: %w", err)
	}
	defer f.Close()
	return a.Ingest(ctx, f, opts)
}

// Ingest lee el CSV y registra cada fecha no vacía en el ledger de su número.
// Un ParseError o DuplicateDateError aborta la lectura.
func (a *Aggregator) Ingest(ctx context.Context, r io.Reader, opts IngestOptions) error {
	if a.sealed {
		return domain.ErrAggregatorSealed
	}
	rr, err := NewRecordReader(r, opts)
	if err != nil {
		return err
	}
	if opts.Workers > 1 {
		return a.ingestSharded(ctx, rr, opts.Workers)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.ledgerFor(rec.PhoneNumber).AddRecord(rec); err != nil {
			return err
		}
		a.records++
	}
}

type shardItem struct {
	l   *ledger.DateLedger
	rec entity.ActivationRecord
}

// shardError primer error de un shard y la línea del registro que lo causó.
type shardError struct {
	line int
	err  error
}

// ingestSharded: una goroutine lee y crea los ledgers (único escritor del mapa y del orden);
// cada ledger pertenece a un único shard, así que no hay escrituras concurrentes sobre él.
//
// El error devuelto es el mismo que en la ingesta secuencial: todo registro encolado
// precede a la fila donde falló el lector, así que gana el error de shard de menor línea
// y solo si no hay ninguno se devuelve el del lector.
func (a *Aggregator) ingestSharded(ctx context.Context, rr *RecordReader, workers int) error {
	stop, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	shardErrs := make([]*shardError, workers)
	shards := make([]chan shardItem, workers)
	for i := range shards {
		i := i
		ch := make(chan shardItem, shardBuffer)
		shards[i] = ch
		g.Go(func() error {
			// Tras el primer error se sigue drenando para no bloquear al lector.
			for it := range ch {
				if shardErrs[i] != nil {
					continue
				}
				if err := it.l.AddRecord(it.rec); err != nil {
					shardErrs[i] = &shardError{line: it.rec.Line, err: err}
					cancel()
				}
			}
			return nil
		})
	}

	var readErr error
	g.Go(func() error {
		defer func() {
			for _, ch := range shards {
				close(ch)
			}
		}()
		for {
			if stop.Err() != nil {
				// nil si la cancelación vino de un shard.
				readErr = ctx.Err()
				return nil
			}
			rec, err := rr.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				readErr = err
				return nil
			}
			it := shardItem{l: a.ledgerFor(rec.PhoneNumber), rec: rec}
			select {
			case shards[shardOf(rec.PhoneNumber, workers)] <- it:
				a.records++
			case <-stop.Done():
				// nil si la cancelación vino de un shard.
				readErr = ctx.Err()
				return nil
			}
		}
	})
	_ = g.Wait()

	var first *shardError
	for _, se := range shardErrs {
		if se != nil && (first == nil || se.line < first.line) {
			first = se
		}
	}
	if first != nil {
		return first.err
	}
	return readErr
}

func shardOf(phone string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(phone))
	return int(h.Sum32() % uint32(n))
}

// ledgerFor obtiene o crea el ledger del número.
func (a *Aggregator) ledgerFor(phone string) *ledger.DateLedger {
	l, ok := a.ledgers[phone]
	if !ok {
		l = ledger.New(phone)
		a.ledgers[phone] = l
		a.order = append(a.order, phone)
	}
	return l
}

// Results devuelve una fila por número en orden de primera aparición y sella el agregador.
func (a *Aggregator) Results() []entity.ActivationResult {
	a.sealed = true
	out := make([]entity.ActivationResult, 0, len(a.order))
	for _, phone := range a.order {
		out = append(out, a.ledgers[phone].Result())
	}
	return out
}

// Report arma resultados y resumen (sin ID ni tiempos; los completa el caso de uso).
func (a *Aggregator) Report() Report {
	results := a.Results()
	return Report{Run: Summarize(results, a.records), Results: results}
}

// Run escribe el reporte con rw sobre w.
func (a *Aggregator) Run(ctx context.Context, w io.Writer, rw ResultWriter) error {
	return rw.Write(ctx, w, a.Report())
}

// RunFile crea path y escribe el reporte en él.
func (a *Aggregator) RunFile(ctx context.Context, path string, rw ResultWriter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear salida: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar salida: %w", cerr)
		}
	}()
	return a.Run(ctx, f, rw)
}
