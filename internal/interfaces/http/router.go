package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ResolveUC *activation.ResolveUseCase
	Logger    *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Activaciones (protegido; admin o analyst)
	activations := api.Group("/activations", RequireRole(RoleAdmin, RoleAnalyst))
	activationHandler := NewActivationHandler(deps.ResolveUC, deps.Logger)
	activations.Post("/resolve", activationHandler.Resolve)
	activations.Get("/runs", activationHandler.ListRuns)
	activations.Get("/runs/:id", activationHandler.GetRun)
}
