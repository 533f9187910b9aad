package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/textutil"
)

var (
	_ repository.DocumentCatalog            = (*DocumentCatalog)(nil)
	_ repository.DocumentLocationRepository = (*DocumentCatalog)(nil)
)

const (
	invoiceColumns    = `id, number, date, COALESCE(supplier_name, ''), COALESCE(description, ''), amount, currency, COALESCE(location, '')`
	additionalColumns = `id, number, date, COALESCE(kind, ''), COALESCE(description, ''), COALESCE(location, '')`
)

// DocumentCatalog lee facturas y documentos adicionales y actualiza su ubicación.
type DocumentCatalog struct {
	q Querier
}

// NewDocumentCatalog construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentCatalog(q Querier) *DocumentCatalog {
	return &DocumentCatalog{q: q}
}

// ListCandidates documentos ubicados en el código de ubicación del departamento.
// El filtro de texto se aplica en Go para ignorar acentos sin depender de la extensión unaccent.
func (c *DocumentCatalog) ListCandidates(ctx context.Context, departmentID string, docType entity.DocumentType, searchText string) ([]entity.Document, error) {
	var location string
	err := c.q.QueryRow(ctx, `SELECT COALESCE(location_code, '') FROM departments WHERE id = $1`, departmentID).Scan(&location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "department", ID: departmentID}
		}
		return nil, fmt.Errorf("department location: %w", err)
	}
	if location == "" {
		return []entity.Document{}, nil
	}

	switch docType {
	case entity.DocumentTypeInvoice:
		invoices, err := c.queryInvoices(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE location = $1 ORDER BY date DESC, number DESC`, location)
		if err != nil {
			return nil, err
		}
		out := make([]entity.Document, 0, len(invoices))
		for _, inv := range invoices {
			if textutil.Contains(searchText, inv.Number, inv.SupplierName, inv.Description) {
				out = append(out, inv)
			}
		}
		return out, nil
	case entity.DocumentTypeAdditionalDocument:
		docs, err := c.queryAdditional(ctx, `SELECT `+additionalColumns+` FROM additional_documents WHERE location = $1 ORDER BY date DESC, number DESC`, location)
		if err != nil {
			return nil, err
		}
		out := make([]entity.Document, 0, len(docs))
		for _, a := range docs {
			if textutil.Contains(searchText, a.Number, a.Kind, a.Description) {
				out = append(out, a)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("tipo de documento desconocido %q", docType)
}

// FindDocument busca por referencia; (nil, nil) si no existe.
func (c *DocumentCatalog) FindDocument(ctx context.Context, ref entity.DocumentRef) (entity.Document, error) {
	switch ref.Type {
	case entity.DocumentTypeInvoice:
		invoices, err := c.queryInvoices(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, ref.ID)
		if err != nil || len(invoices) == 0 {
			return nil, err
		}
		return invoices[0], nil
	case entity.DocumentTypeAdditionalDocument:
		docs, err := c.queryAdditional(ctx, `SELECT `+additionalColumns+` FROM additional_documents WHERE id = $1`, ref.ID)
		if err != nil || len(docs) == 0 {
			return nil, err
		}
		return docs[0], nil
	}
	return nil, nil
}

// UpdateLocation mueve el documento al código de ubicación indicado.
func (c *DocumentCatalog) UpdateLocation(ctx context.Context, ref entity.DocumentRef, locationCode string) error {
	var table string
	switch ref.Type {
	case entity.DocumentTypeInvoice:
		table = "invoices"
	case entity.DocumentTypeAdditionalDocument:
		table = "additional_documents"
	default:
		return fmt.Errorf("tipo de documento desconocido %q", ref.Type)
	}
	tag, err := c.q.Exec(ctx, `UPDATE `+table+` SET location = $2, updated_at = NOW() WHERE id = $1`, ref.ID, locationCode)
	if err != nil {
		return fmt.Errorf("update %s location: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: string(ref.Type), ID: ref.ID}
	}
	return nil
}

func (c *DocumentCatalog) queryInvoices(ctx context.Context, query string, args ...any) ([]*entity.InvoiceDocument, error) {
	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceDocument
	byID := make(map[string]*entity.InvoiceDocument)
	ids := []string{}
	for rows.Next() {
		var inv entity.InvoiceDocument
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.SupplierName, &inv.Description,
			&inv.Amount, &inv.Currency, &inv.Location); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, &inv)
		byID[inv.ID] = &inv
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	attRows, err := c.q.Query(ctx, `
		SELECT ia.invoice_id, ad.id, ad.number, COALESCE(ad.location, '')
		FROM invoice_attachments ia
		JOIN additional_documents ad ON ad.id = ia.additional_document_id
		WHERE ia.invoice_id = ANY($1)
		ORDER BY ia.invoice_id, ia.position`, ids)
	if err != nil {
		return nil, fmt.Errorf("query invoice attachments: %w", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var invoiceID string
		var att entity.AttachedDocument
		if err := attRows.Scan(&invoiceID, &att.ID, &att.Number, &att.Location); err != nil {
			return nil, fmt.Errorf("scan invoice attachment: %w", err)
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Attachments = append(inv.Attachments, att)
		}
	}
	return out, attRows.Err()
}

func (c *DocumentCatalog) queryAdditional(ctx context.Context, query string, args ...any) ([]*entity.AdditionalDocument, error) {
	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query additional documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.AdditionalDocument
	for rows.Next() {
		var a entity.AdditionalDocument
		if err := rows.Scan(&a.ID, &a.Number, &a.Date, &a.Kind, &a.Description, &a.Location); err != nil {
			return nil, fmt.Errorf("scan additional document: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
