package repository

import "context"

// SequenceIssuer emite consecutivos monótonos y únicos por (tipo de distribución, periodo).
type SequenceIssuer interface {
	Next(ctx context.Context, typeID, period string) (int64, error)
}
