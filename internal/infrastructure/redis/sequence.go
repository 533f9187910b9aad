package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.SequenceIssuer = (*SequenceIssuer)(nil)

// Counter comandos de Redis que usa el emisor; *redis.Client y *Client los cumplen.
type Counter interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// SequenceFloor último consecutivo ya persistido para (tipo, periodo).
type SequenceFloor interface {
	MaxSequence(ctx context.Context, typeID, period string) (int64, error)
}

// SequenceIssuer consecutivos con INCR atómico sobre la llave distribution:seq:{tipo}:{periodo}.
// Si la llave no existe (periodo nuevo o Redis sin persistencia) se siembra con el máximo
// del almacenamiento antes de incrementar, para no repetir números ya emitidos.
type SequenceIssuer struct {
	rdb   Counter
	floor SequenceFloor
}

// NewSequenceIssuer floor puede ser nil; entonces la numeración empieza en 1 con cada llave nueva.
func NewSequenceIssuer(rdb Counter, floor SequenceFloor) *SequenceIssuer {
	return &SequenceIssuer{rdb: rdb, floor: floor}
}

// Next incrementa y devuelve el consecutivo del periodo.
func (s *SequenceIssuer) Next(ctx context.Context, typeID, period string) (int64, error) {
	key := SequenceKey(typeID, period)
	if s.floor != nil {
		if err := s.seed(ctx, key, typeID, period); err != nil {
			return 0, err
		}
	}
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr secuencia: %w", err)
	}
	return n, nil
}

// seed con SETNX: si dos procesos siembran a la vez gana uno y ambos usan el mismo valor.
func (s *SequenceIssuer) seed(ctx context.Context, key, typeID, period string) error {
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis exists secuencia: %w", err)
	}
	if exists > 0 {
		return nil
	}
	top, err := s.floor.MaxSequence(ctx, typeID, period)
	if err != nil {
		return fmt.Errorf("secuencia: máximo persistido: %w", err)
	}
	if top <= 0 {
		return nil
	}
	if err := s.rdb.SetNX(ctx, key, top, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx secuencia: %w", err)
	}
	return nil
}

// SequenceKey llave de Redis para el consecutivo.
func SequenceKey(typeID, period string) string {
	return "distribution:seq:" + typeID + ":" + period
}
