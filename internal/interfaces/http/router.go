package http

import (
	"github.com/gofiber/fiber/v2"
	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ComposeUC         *appdist.ComposeUseCase
	WorkflowUC        *appdist.WorkflowUseCase
	TransmittalUC     *appdist.TransmittalUseCase
	Departments       repository.DepartmentRepository
	DistributionTypes repository.DistributionTypeRepository
	Logger            *logger.Logger
	JWTSecret         string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token con usuario y departamento válidos.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireDepartment(deps.Departments))

	refHandler := NewReferenceHandler(deps.Departments, deps.DistributionTypes, deps.Logger)
	protected.Get("/departments", refHandler.Departments)
	protected.Get("/distribution-types", refHandler.DistributionTypes)

	h := NewDistributionHandler(deps.ComposeUC, deps.WorkflowUC, deps.TransmittalUC, deps.Logger)
	protected.Get("/catalog/candidates", h.Candidates)

	dist := protected.Group("/distributions")
	dist.Post("/", h.Create)
	dist.Get("/", h.List)
	dist.Get("/:id", h.GetByID)
	dist.Patch("/:id", h.UpdateDraft)
	dist.Delete("/:id", h.Discard)
	dist.Delete("/:id/documents/:type/:documentId", h.RemoveDocument)

	// Transiciones del ciclo de vida
	dist.Post("/:id/verify-sender", h.VerifySender)
	dist.Post("/:id/send", h.Send)
	dist.Post("/:id/receive", h.Receive)
	dist.Post("/:id/verify-receiver", h.VerifyReceiver)
	dist.Post("/:id/complete", h.Complete)

	dist.Get("/:id/history", h.History)
	dist.Get("/:id/transmittal", h.Transmittal)
	dist.Get("/:id/transmittal/pdf", h.TransmittalPDF)
	dist.Get("/:id/transmittal/xml", h.TransmittalXML)
}
