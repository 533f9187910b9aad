package memory

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.DistributionRepository = (*DistributionRepo)(nil)

// DistributionRepo implementación en memoria de DistributionRepository. Guarda y devuelve copias.
type DistributionRepo struct {
	v view
}

// Create guarda una distribución nueva.
func (r *DistributionRepo) Create(_ context.Context, d *entity.Distribution) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.distributions[d.ID]; ok {
			return domain.ErrConflict
		}
		if d.Version == 0 {
			d.Version = 1
		}
		st.distributions[d.ID] = d.Clone()
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *DistributionRepo) GetByID(_ context.Context, id string) (*entity.Distribution, error) {
	var out *entity.Distribution
	r.v.read(func(st *state) {
		if d, ok := st.distributions[id]; ok {
			out = d.Clone()
		}
	})
	return out, nil
}

// UpdateIfVersion compara y reemplaza.
func (r *DistributionRepo) UpdateIfVersion(_ context.Context, d *entity.Distribution, expectedVersion int) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.distributions[d.ID]
		if !ok || cur.Version != expectedVersion {
			return domain.ErrConflict
		}
		next := d.Clone()
		next.Version = expectedVersion + 1
		st.distributions[d.ID] = next
		d.Version = next.Version
		return nil
	})
}

// DeleteDraft elimina si sigue en draft con la versión esperada.
func (r *DistributionRepo) DeleteDraft(_ context.Context, id string, expectedVersion int) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.distributions[id]
		if !ok || cur.Status != entity.StatusDraft || cur.Version != expectedVersion {
			return domain.ErrConflict
		}
		delete(st.distributions, id)
		return nil
	})
}

// List filtra y ordena por fecha de creación descendente.
func (r *DistributionRepo) List(_ context.Context, f repository.DistributionFilter, limit, offset int) ([]*entity.Distribution, error) {
	var all []*entity.Distribution
	r.v.read(func(st *state) {
		for _, d := range st.distributions {
			if f.Status != "" && d.Status != f.Status {
				continue
			}
			if f.DocumentType != "" && d.DocumentType != f.DocumentType {
				continue
			}
			if f.DepartmentID != "" && d.OriginDepartmentID != f.DepartmentID && d.DestinationDepartmentID != f.DepartmentID {
				continue
			}
			all = append(all, d.Clone())
		}
	})
	slices.SortFunc(all, func(a, b *entity.Distribution) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Number, a.Number)
	})
	if offset >= len(all) {
		return []*entity.Distribution{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// LinkedDocumentIDs documentos del tipo dado en distribuciones no completadas.
func (r *DistributionRepo) LinkedDocumentIDs(_ context.Context, docType entity.DocumentType) (map[string]bool, error) {
	out := make(map[string]bool)
	r.v.read(func(st *state) {
		for _, d := range st.distributions {
			if d.Status == entity.StatusCompleted {
				continue
			}
			for _, l := range d.Documents {
				if l.DocumentType == docType {
					out[l.DocumentID] = true
				}
			}
		}
	})
	return out, nil
}

// LockDocuments no hace nada: RunDistribution ya serializa las escrituras con el lock del store.
func (r *DistributionRepo) LockDocuments(context.Context, []entity.DocumentRef) error { return nil }

// MaxSequence consecutivo más alto entre los números del tipo y periodo.
func (r *DistributionRepo) MaxSequence(_ context.Context, typeID, period string) (int64, error) {
	var top int64
	r.v.read(func(st *state) {
		for _, d := range st.distributions {
			if d.TypeID != typeID {
				continue
			}
			parts := strings.Split(d.Number, "/")
			if len(parts) < 3 || parts[len(parts)-2] != period {
				continue
			}
			if n, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err == nil && n > top {
				top = n
			}
		}
	})
	return top, nil
}
