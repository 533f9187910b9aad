package entity

import "time"

// AdditionalDocument documento de soporte (remisión, acta, orden de compra, etc.).
type AdditionalDocument struct {
	ID          string
	Number      string
	Date        time.Time
	Kind        string // tipo de documento adicional, ej: "Orden de compra"
	Description string
	Location    string
}

func (AdditionalDocument) isDocument() {}

// Ref implementa Document.
func (a AdditionalDocument) Ref() DocumentRef {
	return DocumentRef{Type: DocumentTypeAdditionalDocument, ID: a.ID}
}
