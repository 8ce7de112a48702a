// Package export serializa el reporte de activaciones reales en CSV, XLSX o PDF.
package export

import (
	"fmt"
	"strings"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/domain"
)

// Formatos soportados.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Encabezados de la salida.
const (
	HeaderPhoneNumber        = "PHONE_NUMBER"
	HeaderRealActivationDate = "REAL_ACTIVATION_DATE"
)

// Format describe un writer y cómo servirlo por HTTP.
type Format struct {
	Name        string
	ContentType string
	Writer      activation.ResultWriter
}

// ForFormat devuelve el writer del formato indicado (vacío = csv).
func ForFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatCSV:
		return Format{Name: FormatCSV, ContentType: "text/csv; charset=utf-8", Writer: NewCSVWriter()}, nil
	case FormatXLSX:
		return Format{
			Name:        FormatXLSX,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Writer:      NewXLSXWriter(),
		}, nil
	case FormatPDF:
		return Format{Name: FormatPDF, ContentType: "application/pdf", Writer: NewPDFWriter()}, nil
	}
	return Format{}, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, name)
}
