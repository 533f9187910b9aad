package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDocument factura tal como la expone el catálogo de documentos.
// Location es el código de ubicación donde se encuentra físicamente la factura.
type InvoiceDocument struct {
	ID           string
	Number       string
	Date         time.Time
	SupplierName string
	Description  string
	Amount       decimal.Decimal
	Currency     string
	Location     string
	// Attachments documentos adicionales adjuntos a la factura, con su ubicación actual.
	Attachments []AttachedDocument
}

// AttachedDocument documento adicional adjunto a una factura.
type AttachedDocument struct {
	ID       string
	Number   string
	Location string
}

func (InvoiceDocument) isDocument() {}

// Ref implementa Document.
func (i InvoiceDocument) Ref() DocumentRef {
	return DocumentRef{Type: DocumentTypeInvoice, ID: i.ID}
}
