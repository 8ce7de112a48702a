package activation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Summarize cuenta números resueltos y sin activación vigente.
// ResolvedPct = Resolved / PhoneNumbers * 100 redondeado a 2 decimales (0 si no hay números).
func Summarize(results []entity.ActivationResult, records int) entity.ImportRun {
	run := entity.ImportRun{
		Records:      records,
		PhoneNumbers: len(results),
		ResolvedPct:  decimal.Zero,
	}
	for _, r := range results {
		if r.Resolved() {
			run.Resolved++
		}
	}
	run.Unresolved = run.PhoneNumbers - run.Resolved
	if run.PhoneNumbers > 0 {
		run.ResolvedPct = decimal.NewFromInt(int64(run.Resolved)).
			Div(decimal.NewFromInt(int64(run.PhoneNumbers))).
			Mul(hundred).
			Round(2)
	}
	return run
}
