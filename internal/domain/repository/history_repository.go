package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// HistoryRepository registro append-only de eventos de una distribución.
// No expone Update ni Delete: las entradas son inmutables una vez escritas.
type HistoryRepository interface {
	Append(ctx context.Context, entry *entity.HistoryEntry) error
	// ListByDistribution devuelve las entradas en orden de creación.
	ListByDistribution(ctx context.Context, distributionID string) ([]*entity.HistoryEntry, error)
}
