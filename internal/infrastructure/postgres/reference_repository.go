package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var (
	_ repository.DepartmentRepository       = (*DepartmentRepo)(nil)
	_ repository.DistributionTypeRepository = (*DistributionTypeRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
)

// DepartmentRepo lectura de departamentos.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	query := `SELECT id, code, name, COALESCE(location_code, ''), created_at, updated_at FROM departments WHERE id = $1`
	var d entity.Department
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Code, &d.Name, &d.LocationCode, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, name, COALESCE(location_code, ''), created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var out []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.LocationCode, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DistributionTypeRepo lectura de tipos de distribución.
type DistributionTypeRepo struct {
	q Querier
}

// NewDistributionTypeRepository construye el adaptador.
func NewDistributionTypeRepository(q Querier) *DistributionTypeRepo {
	return &DistributionTypeRepo{q: q}
}

func (r *DistributionTypeRepo) GetByID(ctx context.Context, id string) (*entity.DistributionType, error) {
	var t entity.DistributionType
	err := r.q.QueryRow(ctx,
		`SELECT id, code, name, COALESCE(color, ''), priority FROM distribution_types WHERE id = $1`, id,
	).Scan(&t.ID, &t.Code, &t.Name, &t.Color, &t.Priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distribution type: %w", err)
	}
	return &t, nil
}

func (r *DistributionTypeRepo) List(ctx context.Context) ([]*entity.DistributionType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, name, COALESCE(color, ''), priority FROM distribution_types ORDER BY priority, code`)
	if err != nil {
		return nil, fmt.Errorf("list distribution types: %w", err)
	}
	defer rows.Close()
	var out []*entity.DistributionType
	for rows.Next() {
		var t entity.DistributionType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Color, &t.Priority); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// UserRepo lectura de usuarios.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, department_id, email, name, COALESCE(role, ''), status, created_at, updated_at
		FROM users WHERE id = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.DepartmentID, &u.Email, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
