package export

// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del reporte        │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: registros / números / resueltos / %               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Número | Fecha de activación real                   │
//	└─────────────────────────────────────────────────────────────┘

import (
	"context"
	"fmt"
	"io"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/domain"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ activation.ResultWriter = (*PDFWriter)(nil)

// PDFWriter genera el reporte imprimible con Maroto v2.
type PDFWriter struct{}

// NewPDFWriter construye el writer.
func NewPDFWriter() *PDFWriter { return &PDFWriter{} }

// Write genera el PDF y copia sus bytes a w.
func (PDFWriter) Write(ctx context.Context, w io.Writer, report activation.Report) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fecha de activación real por número", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryBlock(report)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for i, r := range report.Results {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		m.AddRows(tableRow(r.PhoneNumber, nonEmpty(activation.FormatDate(r.RealActivationDate), "—")))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report activation.Report) core.Row {
	generated := "—"
	if !report.Run.FinishedAt.IsZero() {
		generated = report.Run.FinishedAt.Format(domain.DateLayout)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ACTIVACIÓN REAL POR NÚMERO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(report.Run.SourceName, "entrada sin nombre"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generated, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryBlock(report activation.Report) []core.Row {
	rows := make([]core.Row, 0, 8)
	for _, kv := range summaryRows(report.Run) {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(kv[0]+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(kv[1], props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, a align.Type) core.Col {
		return col.New(6).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Número", align.Left),
		h("Fecha de activación real", align.Center),
	)
}

func tableRow(phone, date string) core.Row {
	return row.New(6).Add(
		col.New(6).Add(text.New(phone, props.Text{Size: 8, Align: align.Left, Top: 1})),
		col.New(6).Add(text.New(date, props.Text{Size: 8, Align: align.Center, Top: 1})),
	)
}
