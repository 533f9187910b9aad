package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.SequenceIssuer = (*SequenceIssuer)(nil)

// SequenceIssuer consecutivos con upsert atómico en distribution_sequences.
type SequenceIssuer struct {
	q Querier
}

// NewSequenceIssuer construye el adaptador.
func NewSequenceIssuer(q Querier) *SequenceIssuer {
	return &SequenceIssuer{q: q}
}

// Next incrementa y devuelve el consecutivo de (tipo, periodo).
func (s *SequenceIssuer) Next(ctx context.Context, typeID, period string) (int64, error) {
	query := `
		INSERT INTO distribution_sequences (type_id, period, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (type_id, period) DO UPDATE SET last_value = distribution_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := s.q.QueryRow(ctx, query, typeID, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("next distribution sequence: %w", err)
	}
	return n, nil
}
