package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// RunResponse resumen de una ejecución.
type RunResponse struct {
	ID           string          `json:"id"`
	SourceName   string          `json:"source_name"`
	Records      int             `json:"records"`
	PhoneNumbers int             `json:"phone_numbers"`
	Resolved     int             `json:"resolved"`
	Unresolved   int             `json:"unresolved"`
	ResolvedPct  decimal.Decimal `json:"resolved_pct"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// ResultResponse fila de salida. RealActivationDate vacío = sin activación vigente.
type ResultResponse struct {
	PhoneNumber        string `json:"phone_number"`
	RealActivationDate string `json:"real_activation_date"`
}

// ReportResponse ejecución con sus filas.
type ReportResponse struct {
	Run       RunResponse      `json:"run"`
	Results   []ResultResponse `json:"results"`
	Persisted bool             `json:"persisted"`
}

// RunListResponse lista paginada de ejecuciones.
type RunListResponse struct {
	Items []RunResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ToRunResponse mapea la entidad a la respuesta.
func ToRunResponse(r entity.ImportRun) RunResponse {
	return RunResponse{
		ID:           r.ID,
		SourceName:   r.SourceName,
		Records:      r.Records,
		PhoneNumbers: r.PhoneNumbers,
		Resolved:     r.Resolved,
		Unresolved:   r.Unresolved,
		ResolvedPct:  r.ResolvedPct,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		CreatedBy:    r.CreatedBy,
	}
}

// ToReportResponse mapea un reporte completo.
func ToReportResponse(report activation.Report, persisted bool) ReportResponse {
	results := make([]ResultResponse, 0, len(report.Results))
	for _, r := range report.Results {
		results = append(results, ResultResponse{
			PhoneNumber:        r.PhoneNumber,
			RealActivationDate: activation.FormatDate(r.RealActivationDate),
		})
	}
	return ReportResponse{
		Run:       ToRunResponse(report.Run),
		Results:   results,
		Persisted: persisted,
	}
}
