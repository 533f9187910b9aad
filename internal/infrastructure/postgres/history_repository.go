package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de solo-agregar; la tabla no tiene UPDATE ni DELETE desde la aplicación.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta una entrada.
func (r *HistoryRepo) Append(ctx context.Context, e *entity.HistoryEntry) error {
	query := `
		INSERT INTO distribution_history (id, distribution_id, action, description, actor_id, notes, discrepancy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.DistributionID, e.Action, e.Description, nullIfEmpty(e.ActorID), nullIfEmpty(e.Notes), e.Discrepancy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert distribution history: %w", err)
	}
	return nil
}

// ListByDistribution entradas en orden de inserción.
func (r *HistoryRepo) ListByDistribution(ctx context.Context, id string) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, distribution_id, action, description, COALESCE(actor_id, ''), COALESCE(notes, ''), discrepancy, created_at
		FROM distribution_history
		WHERE distribution_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list distribution history: %w", err)
	}
	defer rows.Close()

	out := []*entity.HistoryEntry{}
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.ID, &e.DistributionID, &e.Action, &e.Description, &e.ActorID, &e.Notes, &e.Discrepancy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan distribution history: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
