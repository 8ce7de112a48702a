// Comando activation: calcula la fecha de activación real de cada número de teléfono
// a partir de un CSV de activaciones/desactivaciones y escribe el reporte.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/infrastructure/export"
	"github.com/jhoicas/activacion-real/internal/infrastructure/postgres"
	"github.com/jhoicas/activacion-real/pkg/config"
	"github.com/jhoicas/activacion-real/pkg/logger"
)

func main() {
	fs := pflag.NewFlagSet("activation", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.Input.Path == "" && fs.NArg() > 0 {
		cfg.Input.Path = fs.Arg(0)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Str("input", cfg.Input.Path).Msg("cálculo de activaciones")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) (err error) {
	if cfg.Input.Path == "" {
		return errors.New("falta el archivo de entrada (--input o INPUT_PATH)")
	}
	format, err := export.ForFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	uc := activation.NewResolveUseCase(nil, nil, nil)
	if cfg.DB.Persist {
		if !cfg.DB.Enabled() {
			return errors.New("--persist requiere DATABASE_URL o DB_HOST")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		uc = activation.NewResolveUseCase(
			postgres.NewTxRunner(pool),
			postgres.NewImportRunRepository(pool),
			postgres.NewActivationResultRepository(pool),
		)
	}

	in, err := os.Open(cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("abrir entrada: %w", err)
	}
	defer in.Close()

	// os.Create truncaría la entrada antes de leerla.
	inInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("abrir entrada: %w", err)
	}
	if outInfo, err := os.Stat(cfg.Output.Path); err == nil && os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("%w: la salida %q es el mismo archivo que la entrada", domain.ErrInvalidInput, cfg.Output.Path)
	}

	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("crear salida: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar salida: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(cfg.Output.Path)
		}
	}()

	res, err := uc.Resolve(ctx, activation.ResolveInput{
		Source:     in,
		SourceName: filepath.Base(cfg.Input.Path),
		Options: activation.IngestOptions{
			HasHeader: cfg.Input.HasHeader,
			Encoding:  cfg.Input.Encoding,
			Workers:   cfg.Input.Workers,
		},
		Persist: cfg.DB.Persist,
		Output:  out,
		Writer:  format.Writer,
	})
	if err != nil {
		return err
	}

	summary := res.Report.Run
	log.Info().
		Str("run_id", summary.ID).
		Str("output", cfg.Output.Path).
		Str("format", format.Name).
		Int("records", summary.Records).
		Int("phone_numbers", summary.PhoneNumbers).
		Int("resolved", summary.Resolved).
		Int("unresolved", summary.Unresolved).
		Str("resolved_pct", summary.ResolvedPct.StringFixed(2)).
		Bool("persisted", res.Persisted).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("reporte generado")
	return nil
}
