package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRun resume una ejecución del cálculo sobre un archivo de entrada.
type ImportRun struct {
	ID           string
	SourceName   string
	Records      int
	PhoneNumbers int
	Resolved     int             // números con fecha de activación real
	Unresolved   int             // números sin activación vigente
	ResolvedPct  decimal.Decimal // Resolved / PhoneNumbers * 100, 2 decimales
	StartedAt    time.Time
	FinishedAt   time.Time
	CreatedBy    string
}
