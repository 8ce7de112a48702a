package http

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/application/dto"
	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/infrastructure/export"
	"github.com/jhoicas/activacion-real/pkg/logger"
)

// formatJSON respuesta por defecto de /resolve.
const formatJSON = "json"

// ActivationHandler maneja el cálculo de activaciones reales y la consulta de ejecuciones (protegido).
type ActivationHandler struct {
	uc  *activation.ResolveUseCase
	log *logger.Logger
}

// NewActivationHandler construye el handler.
func NewActivationHandler(uc *activation.ResolveUseCase, log *logger.Logger) *ActivationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivationHandler{uc: uc, log: log}
}

// Resolve godoc
// @Summary      Calcular fecha de activación real por número
// @Tags         activations
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json,text/csv,application/pdf
// @Param        file        formData  file    true   "CSV PHONE_NUMBER,ACTIVATION_DATE,DEACTIVATION_DATE"
// @Param        has_header  formData  bool    false  "La primera fila es encabezado (por defecto true)"
// @Param        encoding    formData  string  false  "utf-8 | latin1"
// @Param        format      query     string  false  "json | csv | xlsx | pdf"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/activations/resolve [post]
func (h *ActivationHandler) Resolve(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo 'file' es requerido"})
	}
	hasHeader := true
	if v := strings.TrimSpace(c.FormValue("has_header")); v != "" {
		hasHeader, err = strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "has_header debe ser true o false"})
		}
	}

	formatName := strings.ToLower(c.Query("format", formatJSON))
	var format export.Format
	if formatName != formatJSON {
		format, err = export.ForFormat(formatName)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
	}

	src, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer src.Close()

	in := activation.ResolveInput{
		Source:     src,
		SourceName: fh.Filename,
		Options: activation.IngestOptions{
			HasHeader: hasHeader,
			Encoding:  c.FormValue("encoding"),
		},
		Persist:   h.uc.PersistenceEnabled(),
		CreatedBy: GetUserID(c),
	}
	var buf bytes.Buffer
	if format.Writer != nil {
		in.Output = &buf
		in.Writer = format.Writer
	}

	out, err := h.uc.Resolve(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info().
		Str("run_id", out.Report.Run.ID).
		Str("source", fh.Filename).
		Int("records", out.Report.Run.Records).
		Int("phone_numbers", out.Report.Run.PhoneNumbers).
		Bool("persisted", out.Persisted).
		Msg("activaciones resueltas")

	if format.Writer == nil {
		return c.JSON(dto.ToReportResponse(out.Report, out.Persisted))
	}
	c.Attachment("resultado." + format.Name)
	c.Set(fiber.HeaderContentType, format.ContentType)
	return c.Send(buf.Bytes())
}

// ListRuns godoc
// @Summary      Listar ejecuciones guardadas
// @Tags         activations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (por defecto 20, máximo 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.RunListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/activations/runs [get]
func (h *ActivationHandler) ListRuns(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit y offset deben ser enteros"})
	}
	page.DefaultPage()

	runs, err := h.uc.ListRuns(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	items := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, dto.ToRunResponse(*r))
	}
	return c.JSON(dto.RunListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetRun godoc
// @Summary      Obtener una ejecución con sus filas
// @Tags         activations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/activations/runs/{id} [get]
func (h *ActivationHandler) GetRun(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	report, err := h.uc.GetRun(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.ToReportResponse(*report, true))
}

// fail traduce errores de dominio a respuestas HTTP.
func (h *ActivationHandler) fail(c *fiber.Ctx, err error) error {
	var parseErr *domain.ParseError
	var dupErr *domain.DuplicateDateError
	switch {
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PARSE_ERROR", Message: parseErr.Error(), Line: parseErr.Line})
	case errors.As(err, &dupErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DUPLICATE_DATE", Message: dupErr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ejecución no encontrada"})
	case errors.Is(err, domain.ErrPersistenceDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE_DISABLED", Message: "no hay base de datos configurada"})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
