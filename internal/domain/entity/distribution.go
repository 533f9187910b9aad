package entity

import "time"

// DocumentType identifica el catálogo del que proviene un documento.
type DocumentType string

// Tipos de documento distribuibles.
const (
	DocumentTypeInvoice            DocumentType = "invoice"
	DocumentTypeAdditionalDocument DocumentType = "additional_document"
)

// Valid informa si el tipo pertenece al conjunto cerrado de tipos soportados.
func (t DocumentType) Valid() bool {
	return t == DocumentTypeInvoice || t == DocumentTypeAdditionalDocument
}

// DistributionStatus estado del ciclo de vida de una distribución.
type DistributionStatus string

// Estados de la distribución (solo avanzan hacia adelante).
const (
	StatusDraft              DistributionStatus = "draft"
	StatusVerifiedBySender   DistributionStatus = "verified_by_sender"
	StatusSent               DistributionStatus = "sent"
	StatusReceived           DistributionStatus = "received"
	StatusVerifiedByReceiver DistributionStatus = "verified_by_receiver"
	StatusCompleted          DistributionStatus = "completed"
)

// VerificationStatus veredicto de verificación de un documento.
type VerificationStatus string

// Veredictos posibles. Missing y Damaged solo existen en la verificación del receptor.
const (
	VerificationVerified VerificationStatus = "verified"
	VerificationMissing  VerificationStatus = "missing"
	VerificationDamaged  VerificationStatus = "damaged"
)

// Valid informa si el veredicto es uno de los valores conocidos.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationVerified, VerificationMissing, VerificationDamaged:
		return true
	}
	return false
}

// DocumentRef identifica un documento concreto (tipo + id).
type DocumentRef struct {
	Type DocumentType
	ID   string
}

// DocumentLink une una distribución con un documento del catálogo.
// La distribución guarda la referencia, no el documento.
type DocumentLink struct {
	DocumentType       DocumentType
	DocumentID         string
	AutoIncluded       bool // agregado por inclusión automática, no por selección del usuario
	SenderVerified     bool
	ReceiverVerified   bool
	VerificationStatus VerificationStatus
	VerificationNotes  string
}

// Ref devuelve la referencia (tipo, id) del enlace.
func (l DocumentLink) Ref() DocumentRef {
	return DocumentRef{Type: l.DocumentType, ID: l.DocumentID}
}

// Distribution es la raíz del agregado: traslado de documentos entre dos departamentos.
type Distribution struct {
	ID                      string
	Number                  string
	DocumentType            DocumentType
	TypeID                  string
	OriginDepartmentID      string
	DestinationDepartmentID string
	Status                  DistributionStatus
	Notes                   string

	CreatedAt          time.Time
	SentAt             *time.Time
	ReceivedAt         *time.Time
	SenderVerifiedAt   *time.Time
	ReceiverVerifiedAt *time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time

	CreatedBy        string
	SenderVerifier   string
	ReceiverVerifier string

	SenderVerificationNotes   string
	ReceiverVerificationNotes string
	// HasDiscrepancies queda en true cuando el receptor confirmó faltantes o daños.
	// Nunca vuelve a false.
	HasDiscrepancies bool

	Documents []DocumentLink

	// Version se incrementa en cada escritura; la usa el control de concurrencia optimista.
	Version int
}

// FindLink devuelve el índice del enlace con la referencia dada o -1.
func (d *Distribution) FindLink(ref DocumentRef) int {
	for i, l := range d.Documents {
		if l.DocumentType == ref.Type && l.DocumentID == ref.ID {
			return i
		}
	}
	return -1
}

// Discrepancies devuelve los enlaces con veredicto distinto de verified tras la verificación del receptor.
func (d *Distribution) Discrepancies() []Discrepancy {
	var out []Discrepancy
	for _, l := range d.Documents {
		if l.ReceiverVerified && l.VerificationStatus != VerificationVerified {
			out = append(out, Discrepancy{
				DocumentType: l.DocumentType,
				DocumentID:   l.DocumentID,
				Status:       l.VerificationStatus,
				Notes:        l.VerificationNotes,
			})
		}
	}
	return out
}

// Clone devuelve una copia profunda; los repositorios en memoria nunca comparten slices ni punteros.
func (d *Distribution) Clone() *Distribution {
	if d == nil {
		return nil
	}
	c := *d
	c.Documents = append([]DocumentLink(nil), d.Documents...)
	c.SentAt = cloneTime(d.SentAt)
	c.ReceivedAt = cloneTime(d.ReceivedAt)
	c.SenderVerifiedAt = cloneTime(d.SenderVerifiedAt)
	c.ReceiverVerifiedAt = cloneTime(d.ReceiverVerifiedAt)
	c.CompletedAt = cloneTime(d.CompletedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Discrepancy describe un documento reportado como faltante o dañado por el receptor.
type Discrepancy struct {
	DocumentType DocumentType
	DocumentID   string
	Status       VerificationStatus
	Notes        string
}

// DistributionWarning advertencia efímera producida al componer la distribución (no se persiste).
type DistributionWarning struct {
	InvoiceID                  string
	InvoiceNumber              string
	AdditionalDocumentID       string
	AdditionalDocumentNumber   string
	AdditionalDocumentLocation string
	Message                    string
}
