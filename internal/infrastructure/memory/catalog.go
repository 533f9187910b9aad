package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/textutil"
)

var (
	_ repository.DocumentCatalog            = (*CatalogRepo)(nil)
	_ repository.DocumentLocationRepository = (*CatalogRepo)(nil)
)

// CatalogRepo catálogo de facturas y documentos adicionales en memoria.
type CatalogRepo struct {
	v view
}

// ListCandidates documentos ubicados en el departamento, más recientes primero.
func (r *CatalogRepo) ListCandidates(_ context.Context, departmentID string, docType entity.DocumentType, searchText string) ([]entity.Document, error) {
	var out []entity.Document
	var missing bool
	r.v.read(func(st *state) {
		dept, ok := r.v.s.departments[departmentID]
		if !ok {
			missing = true
			return
		}
		loc := strings.TrimSpace(dept.LocationCode)
		switch docType {
		case entity.DocumentTypeInvoice:
			for _, inv := range st.invoices {
				if loc == "" || strings.TrimSpace(inv.Location) != loc {
					continue
				}
				if !textutil.Contains(searchText, inv.Number, inv.SupplierName, inv.Description) {
					continue
				}
				out = append(out, invoiceWithAttachments(st, inv))
			}
		case entity.DocumentTypeAdditionalDocument:
			for _, a := range st.additional {
				if loc == "" || strings.TrimSpace(a.Location) != loc {
					continue
				}
				if !textutil.Contains(searchText, a.Number, a.Kind, a.Description) {
					continue
				}
				c := *a
				out = append(out, &c)
			}
		}
	})
	if missing {
		return nil, &domain.NotFoundError{Resource: "department", ID: departmentID}
	}
	slices.SortFunc(out, func(a, b entity.Document) int {
		return strings.Compare(documentSortKey(b), documentSortKey(a))
	})
	return out, nil
}

// FindDocument busca por referencia; (nil, nil) si no existe.
func (r *CatalogRepo) FindDocument(_ context.Context, ref entity.DocumentRef) (entity.Document, error) {
	var out entity.Document
	r.v.read(func(st *state) {
		switch ref.Type {
		case entity.DocumentTypeInvoice:
			if inv, ok := st.invoices[ref.ID]; ok {
				out = invoiceWithAttachments(st, inv)
			}
		case entity.DocumentTypeAdditionalDocument:
			if a, ok := st.additional[ref.ID]; ok {
				c := *a
				out = &c
			}
		}
	})
	return out, nil
}

// UpdateLocation reemplaza el documento con la nueva ubicación.
func (r *CatalogRepo) UpdateLocation(_ context.Context, ref entity.DocumentRef, locationCode string) error {
	return r.v.write(func(st *state) error {
		switch ref.Type {
		case entity.DocumentTypeInvoice:
			inv, ok := st.invoices[ref.ID]
			if !ok {
				return &domain.NotFoundError{Resource: string(ref.Type), ID: ref.ID}
			}
			c := *inv
			c.Location = locationCode
			st.invoices[ref.ID] = &c
		case entity.DocumentTypeAdditionalDocument:
			a, ok := st.additional[ref.ID]
			if !ok {
				return &domain.NotFoundError{Resource: string(ref.Type), ID: ref.ID}
			}
			c := *a
			c.Location = locationCode
			st.additional[ref.ID] = &c
		default:
			return fmt.Errorf("tipo de documento desconocido %q", ref.Type)
		}
		return nil
	})
}

// invoiceWithAttachments copia la factura completando número y ubicación actuales de cada adjunto.
func invoiceWithAttachments(st *state, inv *entity.InvoiceDocument) *entity.InvoiceDocument {
	c := *inv
	c.Attachments = make([]entity.AttachedDocument, 0, len(inv.Attachments))
	for _, att := range inv.Attachments {
		if a, ok := st.additional[att.ID]; ok {
			att.Number = a.Number
			att.Location = a.Location
		}
		c.Attachments = append(c.Attachments, att)
	}
	return &c
}

func documentSortKey(d entity.Document) string {
	switch v := d.(type) {
	case *entity.InvoiceDocument:
		return v.Date.Format("20060102") + v.Number
	case *entity.AdditionalDocument:
		return v.Date.Format("20060102") + v.Number
	}
	return ""
}
