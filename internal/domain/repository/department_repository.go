package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// DepartmentRepository puerto de lectura de departamentos (DIP).
type DepartmentRepository interface {
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
}

// DistributionTypeRepository puerto de lectura de tipos de distribución.
type DistributionTypeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.DistributionType, error)
	List(ctx context.Context) ([]*entity.DistributionType, error)
}
