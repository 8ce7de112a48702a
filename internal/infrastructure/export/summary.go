package export

import (
	"strconv"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// summaryRows pares etiqueta/valor del resumen, compartidos por XLSX y PDF.
func summaryRows(run entity.ImportRun) [][2]string {
	rows := [][2]string{
		{"Archivo", nonEmpty(run.SourceName, "—")},
		{"Registros", strconv.Itoa(run.Records)},
		{"Números", strconv.Itoa(run.PhoneNumbers)},
		{"Con activación real", strconv.Itoa(run.Resolved)},
		{"Sin activación vigente", strconv.Itoa(run.Unresolved)},
		{"% resueltos", run.ResolvedPct.StringFixed(2) + "%"},
	}
	if run.ID != "" {
		rows = append(rows, [2]string{"Ejecución", run.ID})
	}
	if !run.FinishedAt.IsZero() {
		rows = append(rows, [2]string{"Generado", run.FinishedAt.Format(domain.DateLayout + " 15:04:05")})
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
