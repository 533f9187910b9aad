package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// UserRepository puerto de lectura de usuarios; solo se usa para desnormalizar nombres.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
