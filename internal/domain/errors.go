package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                        = errors.New("recurso no encontrado")
	ErrInvalidInput                    = errors.New("entrada inválida")
	ErrUnauthorized                    = errors.New("no autorizado")
	ErrConflict                        = errors.New("conflicto con el estado actual")
	ErrIllegalTransition               = errors.New("transición no permitida")
	ErrDiscrepancyConfirmationRequired = errors.New("se requiere confirmar las discrepancias")
)

// ValidationError entrada mal formada (notas vacías, origen = destino, veredictos incompletos...).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IllegalTransitionError la acción no es válida desde el estado actual.
type IllegalTransitionError struct {
	From   entity.DistributionStatus
	Action string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: la acción %q no es válida desde el estado %q", ErrIllegalTransition, e.Action, e.From)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// UnauthorizedError el actor no pertenece al departamento requerido.
type UnauthorizedError struct {
	ActorID              string
	ActorDepartmentID    string
	RequiredDepartmentID string
	Action               string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: el usuario %s (departamento %s) no puede ejecutar %q; se requiere el departamento %s",
		ErrUnauthorized, e.ActorID, e.ActorDepartmentID, e.Action, e.RequiredDepartmentID)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// DiscrepancyConfirmationRequiredError no es una falla: es el segundo paso del protocolo.
// El receptor reportó documentos faltantes o dañados y debe reenviar con force=true.
type DiscrepancyConfirmationRequiredError struct {
	DistributionID string
	Discrepancies  []entity.Discrepancy
}

func (e *DiscrepancyConfirmationRequiredError) Error() string {
	parts := make([]string, 0, len(e.Discrepancies))
	for _, d := range e.Discrepancies {
		parts = append(parts, fmt.Sprintf("%s/%s=%s", d.DocumentType, d.DocumentID, d.Status))
	}
	return fmt.Sprintf("%s: %d documento(s) con discrepancia (%s)", ErrDiscrepancyConfirmationRequired, len(e.Discrepancies), strings.Join(parts, ", "))
}

func (e *DiscrepancyConfirmationRequiredError) Unwrap() error { return ErrDiscrepancyConfirmationRequired }

// NotFoundError distribución o documento desconocido.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotFound, e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
