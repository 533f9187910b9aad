package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.DistributionRepository = (*DistributionRepo)(nil)

const distributionColumns = `
	id, number, document_type, type_id, origin_department_id, destination_department_id,
	status, COALESCE(notes, ''), created_at, sent_at, received_at, sender_verified_at,
	receiver_verified_at, completed_at, updated_at, created_by,
	COALESCE(sender_verifier, ''), COALESCE(receiver_verifier, ''),
	COALESCE(sender_verification_notes, ''), COALESCE(receiver_verification_notes, ''),
	has_discrepancies, version`

// DistributionRepo implementación de DistributionRepository (usable con pool o tx).
// UpdateIfVersion y Create escriben cabecera y enlaces; llamarlos dentro de TxRunner.
type DistributionRepo struct {
	q Querier
}

// NewDistributionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistributionRepository(q Querier) *DistributionRepo {
	return &DistributionRepo{q: q}
}

// Create persiste la cabecera y sus enlaces.
func (r *DistributionRepo) Create(ctx context.Context, d *entity.Distribution) error {
	if d.Version == 0 {
		d.Version = 1
	}
	query := `
		INSERT INTO distributions (id, number, document_type, type_id, origin_department_id, destination_department_id,
			status, notes, created_at, updated_at, created_by, has_discrepancies, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Number, d.DocumentType, d.TypeID, d.OriginDepartmentID, d.DestinationDepartmentID,
		d.Status, nullIfEmpty(d.Notes), d.CreatedAt, d.UpdatedAt, d.CreatedBy, d.HasDiscrepancies, d.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("distribution number already exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert distribution: %w", err)
	}
	return r.insertLinks(ctx, d)
}

// GetByID obtiene la distribución con sus enlaces; (nil, nil) si no existe.
func (r *DistributionRepo) GetByID(ctx context.Context, id string) (*entity.Distribution, error) {
	row := r.q.QueryRow(ctx, `SELECT `+distributionColumns+` FROM distributions WHERE id = $1`, id)
	d, err := scanDistribution(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distribution: %w", err)
	}
	if err := r.loadLinks(ctx, []*entity.Distribution{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateIfVersion actualiza solo si version = expectedVersion (compare-and-set); reemplaza los enlaces.
func (r *DistributionRepo) UpdateIfVersion(ctx context.Context, d *entity.Distribution, expectedVersion int) error {
	query := `
		UPDATE distributions
		SET destination_department_id   = $3,
		    status                      = $4,
		    notes                       = $5,
		    sent_at                     = $6,
		    received_at                 = $7,
		    sender_verified_at          = $8,
		    receiver_verified_at        = $9,
		    completed_at                = $10,
		    updated_at                  = $11,
		    sender_verifier             = $12,
		    receiver_verifier           = $13,
		    sender_verification_notes   = $14,
		    receiver_verification_notes = $15,
		    has_discrepancies           = $16,
		    version                     = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		d.ID, expectedVersion,
		d.DestinationDepartmentID, d.Status, nullIfEmpty(d.Notes),
		d.SentAt, d.ReceivedAt, d.SenderVerifiedAt, d.ReceiverVerifiedAt, d.CompletedAt,
		d.UpdatedAt,
		nullIfEmpty(d.SenderVerifier), nullIfEmpty(d.ReceiverVerifier),
		nullIfEmpty(d.SenderVerificationNotes), nullIfEmpty(d.ReceiverVerificationNotes),
		d.HasDiscrepancies,
	)
	if err != nil {
		return fmt.Errorf("update distribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM distribution_documents WHERE distribution_id = $1`, d.ID); err != nil {
		return fmt.Errorf("delete distribution documents: %w", err)
	}
	if err := r.insertLinks(ctx, d); err != nil {
		return err
	}
	d.Version = expectedVersion + 1
	return nil
}

// DeleteDraft borra la cabecera (los enlaces caen por cascada; el historial no tiene FK).
func (r *DistributionRepo) DeleteDraft(ctx context.Context, id string, expectedVersion int) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM distributions WHERE id = $1 AND version = $2 AND status = $3`,
		id, expectedVersion, entity.StatusDraft)
	if err != nil {
		return fmt.Errorf("delete distribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List filtra por estado, tipo de documento y departamento (origen o destino).
func (r *DistributionRepo) List(ctx context.Context, f repository.DistributionFilter, limit, offset int) ([]*entity.Distribution, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.DocumentType != "" {
		add("document_type = $%d", f.DocumentType)
	}
	if f.DepartmentID != "" {
		args = append(args, f.DepartmentID)
		where = append(where, fmt.Sprintf("(origin_department_id = $%d OR destination_department_id = $%d)", len(args), len(args)))
	}
	query := `SELECT ` + distributionColumns + ` FROM distributions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Distribution
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLinks(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LinkedDocumentIDs ids de documentos enlazados a distribuciones no completadas.
func (r *DistributionRepo) LinkedDocumentIDs(ctx context.Context, docType entity.DocumentType) (map[string]bool, error) {
	query := `
		SELECT dd.document_id
		FROM distribution_documents dd
		JOIN distributions d ON d.id = dd.distribution_id
		WHERE dd.document_type = $1 AND d.status <> $2`
	rows, err := r.q.Query(ctx, query, docType, entity.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("linked documents: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// LockDocuments toma pg_advisory_xact_lock por documento, en orden estable para evitar interbloqueos.
// Los bloqueos se liberan con el commit o rollback de la transacción.
func (r *DistributionRepo) LockDocuments(ctx context.Context, refs []entity.DocumentRef) error {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, "distribution_document:"+string(ref.Type)+":"+ref.ID)
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	for _, k := range keys {
		if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, k); err != nil {
			return fmt.Errorf("lock document %s: %w", k, err)
		}
	}
	return nil
}

// MaxSequence consecutivo más alto ya usado en los números del tipo y periodo.
func (r *DistributionRepo) MaxSequence(ctx context.Context, typeID, period string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(substring(number FROM '([0-9]+)$')::bigint), 0)
		FROM distributions
		WHERE type_id = $1 AND number ~ ('/' || $2 || '/[0-9]+$')`
	var n int64
	if err := r.q.QueryRow(ctx, query, typeID, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("max distribution sequence: %w", err)
	}
	return n, nil
}

func (r *DistributionRepo) insertLinks(ctx context.Context, d *entity.Distribution) error {
	if len(d.Documents) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, l := range d.Documents {
		var status *string
		if l.VerificationStatus != "" {
			s := string(l.VerificationStatus)
			status = &s
		}
		batch.Queue(`
			INSERT INTO distribution_documents (distribution_id, position, document_type, document_id, auto_included,
				sender_verified, receiver_verified, verification_status, verification_notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.ID, i, l.DocumentType, l.DocumentID, l.AutoIncluded,
			l.SenderVerified, l.ReceiverVerified, status, nullIfEmpty(l.VerificationNotes),
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range d.Documents {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert distribution document: %w", err)
		}
	}
	return nil
}

func (r *DistributionRepo) loadLinks(ctx context.Context, ds []*entity.Distribution) error {
	if len(ds) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ds))
	byID := make(map[string]*entity.Distribution, len(ds))
	for _, d := range ds {
		ids = append(ids, d.ID)
		byID[d.ID] = d
	}
	query := `
		SELECT distribution_id, document_type, document_id, auto_included, sender_verified, receiver_verified,
		       COALESCE(verification_status, ''), COALESCE(verification_notes, '')
		FROM distribution_documents
		WHERE distribution_id = ANY($1)
		ORDER BY distribution_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load distribution documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var distID string
		var l entity.DocumentLink
		if err := rows.Scan(&distID, &l.DocumentType, &l.DocumentID, &l.AutoIncluded, &l.SenderVerified,
			&l.ReceiverVerified, &l.VerificationStatus, &l.VerificationNotes); err != nil {
			return fmt.Errorf("scan distribution document: %w", err)
		}
		if d, ok := byID[distID]; ok {
			d.Documents = append(d.Documents, l)
		}
	}
	return rows.Err()
}

func scanDistribution(row pgx.Row) (*entity.Distribution, error) {
	var d entity.Distribution
	err := row.Scan(
		&d.ID, &d.Number, &d.DocumentType, &d.TypeID, &d.OriginDepartmentID, &d.DestinationDepartmentID,
		&d.Status, &d.Notes, &d.CreatedAt, &d.SentAt, &d.ReceivedAt, &d.SenderVerifiedAt,
		&d.ReceiverVerifiedAt, &d.CompletedAt, &d.UpdatedAt, &d.CreatedBy,
		&d.SenderVerifier, &d.ReceiverVerifier,
		&d.SenderVerificationNotes, &d.ReceiverVerificationNotes,
		&d.HasDiscrepancies, &d.Version,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
