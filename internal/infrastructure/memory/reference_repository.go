package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var (
	_ repository.DepartmentRepository       = (*DepartmentRepo)(nil)
	_ repository.DistributionTypeRepository = (*DistributionTypeRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
	_ repository.SequenceIssuer             = (*SequenceIssuer)(nil)
)

// DepartmentRepo departamentos en memoria.
type DepartmentRepo struct{ s *Store }

func (r *DepartmentRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if d, ok := r.s.departments[id]; ok {
		c := *d
		return &c, nil
	}
	return nil, nil
}

func (r *DepartmentRepo) List(_ context.Context) ([]*entity.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		c := *d
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.Department) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// DistributionTypeRepo tipos de distribución en memoria.
type DistributionTypeRepo struct{ s *Store }

func (r *DistributionTypeRepo) GetByID(_ context.Context, id string) (*entity.DistributionType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if t, ok := r.s.types[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r *DistributionTypeRepo) List(_ context.Context) ([]*entity.DistributionType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.DistributionType, 0, len(r.s.types))
	for _, t := range r.s.types {
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.DistributionType) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return strings.Compare(a.Code, b.Code)
	})
	return out, nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

// SequenceIssuer consecutivos en memoria por (tipo, periodo).
type SequenceIssuer struct{ s *Store }

func (q *SequenceIssuer) Next(_ context.Context, typeID, period string) (int64, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	key := typeID + ":" + period
	q.s.sequences[key]++
	return q.s.sequences[key], nil
}
