package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/activacion-real/internal/application/activation"
)

var _ activation.ResultWriter = (*CSVWriter)(nil)

// CSVWriter escribe PHONE_NUMBER,REAL_ACTIVATION_DATE; fecha vacía si no hay activación vigente.
type CSVWriter struct{}

// NewCSVWriter construye el writer.
func NewCSVWriter() *CSVWriter { return &CSVWriter{} }

// Write vuelca el reporte fila por fila.
func (CSVWriter) Write(ctx context.Context, w io.Writer, report activation.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeaderPhoneNumber, HeaderRealActivationDate}); err != nil {
		return fmt.Errorf("csv: encabezado: %w", err)
	}
	for i, r := range report.Results {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{r.PhoneNumber, activation.FormatDate(r.RealActivationDate)}); err != nil {
			return fmt.Errorf("csv: fila %s: %w", r.PhoneNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
