package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// DistributionFilter criterios de búsqueda para listar distribuciones. Campos vacíos no filtran.
type DistributionFilter struct {
	Status       entity.DistributionStatus
	DocumentType entity.DocumentType
	// DepartmentID filtra distribuciones donde el departamento es origen o destino.
	DepartmentID string
}

// DistributionRepository define el puerto de persistencia para el agregado Distribution (DIP).
type DistributionRepository interface {
	Create(ctx context.Context, d *entity.Distribution) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Distribution, error)
	// UpdateIfVersion persiste d (cabecera y enlaces) solo si la versión almacenada es expectedVersion.
	// Si otra escritura ganó la carrera devuelve domain.ErrConflict sin modificar nada.
	// En éxito d.Version queda en expectedVersion+1.
	UpdateIfVersion(ctx context.Context, d *entity.Distribution, expectedVersion int) error
	// DeleteDraft elimina una distribución en draft. Devuelve domain.ErrConflict si ya no está en draft
	// o si la versión cambió.
	DeleteDraft(ctx context.Context, id string, expectedVersion int) error
	List(ctx context.Context, filter DistributionFilter, limit, offset int) ([]*entity.Distribution, error)
	// LinkedDocumentIDs devuelve los ids de documentos del tipo dado que están enlazados
	// a distribuciones aún no completadas.
	LinkedDocumentIDs(ctx context.Context, docType entity.DocumentType) (map[string]bool, error)
	// LockDocuments toma un bloqueo por documento hasta el fin de la transacción en curso, para que
	// dos composiciones concurrentes no enlacen el mismo documento. Solo tiene efecto dentro de TxRunner.
	LockDocuments(ctx context.Context, refs []entity.DocumentRef) error
	// MaxSequence último consecutivo usado en los números del tipo y periodo (0 si no hay).
	MaxSequence(ctx context.Context, typeID, period string) (int64, error)
}
