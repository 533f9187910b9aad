package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// ReferenceHandler catálogos de referencia para armar distribuciones (departamentos y tipos).
type ReferenceHandler struct {
	departments repository.DepartmentRepository
	types       repository.DistributionTypeRepository
	log         *logger.Logger
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(departments repository.DepartmentRepository, types repository.DistributionTypeRepository, log *logger.Logger) *ReferenceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ReferenceHandler{departments: departments, types: types, log: log}
}

// Departments GET /api/departments
func (h *ReferenceHandler) Departments(c *fiber.Ctx) error {
	list, err := h.departments.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DepartmentResponse{ID: d.ID, Code: d.Code, Name: d.Name, LocationCode: d.LocationCode})
	}
	return c.JSON(out)
}

// DistributionTypes GET /api/distribution-types
func (h *ReferenceHandler) DistributionTypes(c *fiber.Ctx) error {
	list, err := h.types.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.DistributionTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.DistributionTypeResponse{ID: t.ID, Code: t.Code, Name: t.Name, Color: t.Color, Priority: t.Priority})
	}
	return c.JSON(out)
}
