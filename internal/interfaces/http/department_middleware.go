package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// departmentLookup contrato mínimo para validar el departamento del token.
// Lo implementa cualquier repository.DepartmentRepository.
type departmentLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Department, error)
}

// RequireDepartment verifica que el departamento del token exista.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalDepartmentID).
//
// Comportamiento:
//   - 403 Forbidden → departamento desconocido (token emitido para un departamento dado de baja).
//   - 503 Service Unavailable → fallo de infraestructura al consultar.
func RequireDepartment(lookup departmentLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		departmentID := GetDepartmentID(c)
		if departmentID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "department_id no encontrado en el token",
			})
		}

		dept, err := lookup.GetByID(c.UserContext(), departmentID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "DEPARTMENT_CHECK_FAILED",
				Message: "no se pudo verificar el departamento, intente más tarde",
			})
		}
		if dept == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "UNKNOWN_DEPARTMENT",
				Message: "el departamento '" + departmentID + "' no existe",
			})
		}

		return c.Next()
	}
}
