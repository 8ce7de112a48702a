package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/activacion-real/internal/application/activation"
)

var _ activation.ResultWriter = (*XLSXWriter)(nil)

// Hojas del libro.
const (
	SheetResults = "resultado"
	SheetSummary = "resumen"
)

// XLSXWriter genera un libro con la hoja de resultados y una hoja de resumen.
type XLSXWriter struct{}

// NewXLSXWriter construye el writer.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

// Write genera el libro en memoria y lo copia a w.
func (XLSXWriter) Write(ctx context.Context, w io.Writer, report activation.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetResults)
	if err != nil {
		return fmt.Errorf("xlsx: hoja %s: %w", SheetResults, err)
	}
	f.SetActiveSheet(idx)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetResults)
	if err != nil {
		return fmt.Errorf("xlsx: stream: %w", err)
	}
	if err := sw.SetColWidth(1, 2, 24); err != nil {
		return fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}
	if err := sw.SetRow("A1", []any{
		excelize.Cell{StyleID: headerStyle, Value: HeaderPhoneNumber},
		excelize.Cell{StyleID: headerStyle, Value: HeaderRealActivationDate},
	}); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}
	for i, r := range report.Results {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
		// Texto: los números telefónicos conservan ceros a la izquierda.
		if err := sw.SetRow(cell, []any{r.PhoneNumber, activation.FormatDate(r.RealActivationDate)}); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("xlsx: hoja %s: %w", SheetSummary, err)
	}
	summary := summaryRows(report.Run)
	for i, kv := range summary {
		a, b := fmt.Sprintf("A%d", i+1), fmt.Sprintf("B%d", i+1)
		if err := f.SetCellStr(SheetSummary, a, kv[0]); err != nil {
			return fmt.Errorf("xlsx: celda %s: %w", a, err)
		}
		if err := f.SetCellStr(SheetSummary, b, kv[1]); err != nil {
			return fmt.Errorf("xlsx: celda %s: %w", b, err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), headerStyle); err != nil {
		return fmt.Errorf("xlsx: estilo resumen: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx: hoja por defecto: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
