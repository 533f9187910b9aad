package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de solo-agregar.
type HistoryRepo struct {
	v view
}

// Append agrega una entrada al final.
func (r *HistoryRepo) Append(_ context.Context, e *entity.HistoryEntry) error {
	return r.v.write(func(st *state) error {
		c := *e
		st.history[e.DistributionID] = append(slices.Clip(st.history[e.DistributionID]), &c)
		return nil
	})
}

// ListByDistribution entradas en orden de inserción.
func (r *HistoryRepo) ListByDistribution(_ context.Context, id string) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	r.v.read(func(st *state) {
		out = make([]*entity.HistoryEntry, 0, len(st.history[id]))
		for _, e := range st.history[id] {
			c := *e
			out = append(out, &c)
		}
	})
	return out, nil
}
