package http

import (
	"github.com/gofiber/fiber/v2"
	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// DistributionHandler maneja las peticiones HTTP del flujo de distribución (protegido).
type DistributionHandler struct {
	compose     *appdist.ComposeUseCase
	workflow    *appdist.WorkflowUseCase
	transmittal *appdist.TransmittalUseCase
	log         *logger.Logger
}

// NewDistributionHandler construye el handler.
func NewDistributionHandler(compose *appdist.ComposeUseCase, wf *appdist.WorkflowUseCase, transmittal *appdist.TransmittalUseCase, log *logger.Logger) *DistributionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DistributionHandler{compose: compose, workflow: wf, transmittal: transmittal, log: log}
}

// Candidates lista documentos disponibles para distribuir.
// GET /api/catalog/candidates?document_type=invoice&search=...&department_id=...
func (h *DistributionHandler) Candidates(c *fiber.Ctx) error {
	departmentID := c.Query("department_id", GetDepartmentID(c))
	docs, err := h.compose.ListCandidates(c.UserContext(), departmentID, entity.DocumentType(c.Query("document_type")), c.Query("search"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToCandidateResponses(docs))
}

// Create crea una distribución en borrador.
// POST /api/distributions
func (h *DistributionHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CreateDistributionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OriginDepartmentID == "" {
		in.OriginDepartmentID = actor.DepartmentID
	}
	res, err := h.compose.Create(c.UserContext(), actor, appdist.CreateInput{
		DocumentType:            entity.DocumentType(in.DocumentType),
		TypeID:                  in.TypeID,
		OriginDepartmentID:      in.OriginDepartmentID,
		DestinationDepartmentID: in.DestinationDepartmentID,
		Notes:                   in.Notes,
		DocumentIDs:             in.DocumentIDs,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateDistributionResponse{
		Distribution: dto.ToDistributionResponse(res.Distribution, actor),
		Warnings:     dto.ToWarningResponses(res.Warnings),
	})
}

// List lista distribuciones con filtros opcionales.
// GET /api/distributions?status=&document_type=&department_id=&limit=&offset=
func (h *DistributionHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	filter := repository.DistributionFilter{
		Status:       entity.DistributionStatus(c.Query("status")),
		DocumentType: entity.DocumentType(c.Query("document_type")),
		DepartmentID: c.Query("department_id"),
	}
	list, err := h.workflow.List(c.UserContext(), filter, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	actor := GetActor(c)
	items := make([]dto.DistributionResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.ToDistributionResponse(d, actor))
	}
	return c.JSON(dto.DistributionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID detalle de una distribución con las acciones disponibles para el usuario.
// GET /api/distributions/:id
func (h *DistributionHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.workflow.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, GetActor(c)))
}

// UpdateDraft edita destino y notas de un borrador.
// PATCH /api/distributions/:id
func (h *DistributionHandler) UpdateDraft(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetActor(c)
	d, err := h.compose.UpdateDraft(c.UserContext(), actor, c.Params("id"), appdist.UpdateDraftInput{
		DestinationDepartmentID: in.DestinationDepartmentID,
		Notes:                   in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// RemoveDocument retira un documento seleccionado del borrador.
// DELETE /api/distributions/:id/documents/:type/:documentId
func (h *DistributionHandler) RemoveDocument(c *fiber.Ctx) error {
	actor := GetActor(c)
	ref := entity.DocumentRef{Type: entity.DocumentType(c.Params("type")), ID: c.Params("documentId")}
	res, err := h.compose.RemoveDocument(c.UserContext(), actor, c.Params("id"), ref)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CreateDistributionResponse{
		Distribution: dto.ToDistributionResponse(res.Distribution, actor),
		Warnings:     dto.ToWarningResponses(res.Warnings),
	})
}

// Discard elimina un borrador. El historial se conserva.
// DELETE /api/distributions/:id
func (h *DistributionHandler) Discard(c *fiber.Ctx) error {
	if err := h.compose.DiscardDraft(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifySender verificación del remitente.
// POST /api/distributions/:id/verify-sender
func (h *DistributionHandler) VerifySender(c *fiber.Ctx) error {
	var in dto.VerificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetActor(c)
	d, err := h.workflow.VerifySender(c.UserContext(), actor, c.Params("id"), dto.ToVerdicts(in.Documents), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// Send POST /api/distributions/:id/send
func (h *DistributionHandler) Send(c *fiber.Ctx) error {
	actor := GetActor(c)
	d, err := h.workflow.Send(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// Receive POST /api/distributions/:id/receive
func (h *DistributionHandler) Receive(c *fiber.Ctx) error {
	actor := GetActor(c)
	d, err := h.workflow.Receive(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// VerifyReceiver verificación del receptor. Con discrepancias y sin force responde 409
// DISCREPANCY_CONFIRMATION_REQUIRED con la lista a confirmar.
// POST /api/distributions/:id/verify-receiver
func (h *DistributionHandler) VerifyReceiver(c *fiber.Ctx) error {
	var in dto.VerificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetActor(c)
	d, err := h.workflow.VerifyReceiver(c.UserContext(), actor, c.Params("id"), dto.ToVerdicts(in.Documents), in.Notes, in.Force)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// Complete POST /api/distributions/:id/complete
func (h *DistributionHandler) Complete(c *fiber.Ctx) error {
	actor := GetActor(c)
	d, err := h.workflow.Complete(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDistributionResponse(d, actor))
}

// History línea de tiempo de la distribución.
// GET /api/distributions/:id/history
func (h *DistributionHandler) History(c *fiber.Ctx) error {
	entries, err := h.workflow.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToHistoryResponses(entries))
}

// Transmittal snapshot de remisión en JSON.
// GET /api/distributions/:id/transmittal
func (h *DistributionHandler) Transmittal(c *fiber.Ctx) error {
	s, err := h.transmittal.BuildSnapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransmittalResponse(s))
}

// TransmittalPDF documento de remisión en PDF.
// GET /api/distributions/:id/transmittal/pdf
func (h *DistributionHandler) TransmittalPDF(c *fiber.Ctx) error {
	b, name, err := h.transmittal.DownloadPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(b)
}

// TransmittalXML documento de remisión en XML; el digest canónico viaja en X-Transmittal-Digest.
// GET /api/distributions/:id/transmittal/xml
func (h *DistributionHandler) TransmittalXML(c *fiber.Ctx) error {
	b, name, digest, err := h.transmittal.ExportXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(HeaderTransmittalDigest, digest)
	return c.Send(b)
}

// HeaderTransmittalDigest cabecera con el SHA-256 (base64) de la forma canónica del XML.
const HeaderTransmittalDigest = "X-Transmittal-Digest"
