package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDistributionRequest entrada para crear una distribución en borrador.
// OriginDepartmentID vacío = departamento del usuario autenticado.
type CreateDistributionRequest struct {
	DocumentType            string   `json:"document_type"`
	TypeID                  string   `json:"type_id"`
	OriginDepartmentID      string   `json:"origin_department_id"`
	DestinationDepartmentID string   `json:"destination_department_id"`
	Notes                   string   `json:"notes"`
	DocumentIDs             []string `json:"document_ids"`
}

// UpdateDraftRequest campos editables de un borrador; omitidos = sin cambio.
type UpdateDraftRequest struct {
	DestinationDepartmentID *string `json:"destination_department_id"`
	Notes                   *string `json:"notes"`
}

// VerdictRequest veredicto por documento.
type VerdictRequest struct {
	DocumentType string `json:"document_type"`
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"` // verified | missing | damaged (vacío = verified)
	Notes        string `json:"notes"`
}

// VerificationRequest envío de verificación del remitente o del receptor.
// Force solo aplica al receptor: confirma discrepancias ya informadas.
type VerificationRequest struct {
	Documents []VerdictRequest `json:"documents"`
	Notes     string           `json:"notes"`
	Force     bool             `json:"force"`
}

// DocumentLinkResponse documento enlazado a la distribución.
type DocumentLinkResponse struct {
	DocumentType       string `json:"document_type"`
	DocumentID         string `json:"document_id"`
	AutoIncluded       bool   `json:"auto_included"`
	SenderVerified     bool   `json:"sender_verified"`
	ReceiverVerified   bool   `json:"receiver_verified"`
	VerificationStatus string `json:"verification_status,omitempty"`
	VerificationNotes  string `json:"verification_notes,omitempty"`
}

// DistributionResponse representación pública del agregado.
type DistributionResponse struct {
	ID                        string                 `json:"id"`
	Number                    string                 `json:"number"`
	DocumentType              string                 `json:"document_type"`
	TypeID                    string                 `json:"type_id"`
	OriginDepartmentID        string                 `json:"origin_department_id"`
	DestinationDepartmentID   string                 `json:"destination_department_id"`
	Status                    string                 `json:"status"`
	Notes                     string                 `json:"notes,omitempty"`
	CreatedAt                 time.Time              `json:"created_at"`
	SentAt                    *time.Time             `json:"sent_at,omitempty"`
	ReceivedAt                *time.Time             `json:"received_at,omitempty"`
	SenderVerifiedAt          *time.Time             `json:"sender_verified_at,omitempty"`
	ReceiverVerifiedAt        *time.Time             `json:"receiver_verified_at,omitempty"`
	CompletedAt               *time.Time             `json:"completed_at,omitempty"`
	UpdatedAt                 time.Time              `json:"updated_at"`
	CreatedBy                 string                 `json:"created_by"`
	SenderVerifier            string                 `json:"sender_verifier,omitempty"`
	ReceiverVerifier          string                 `json:"receiver_verifier,omitempty"`
	SenderVerificationNotes   string                 `json:"sender_verification_notes,omitempty"`
	ReceiverVerificationNotes string                 `json:"receiver_verification_notes,omitempty"`
	HasDiscrepancies          bool                   `json:"has_discrepancies"`
	Version                   int                    `json:"version"`
	Documents                 []DocumentLinkResponse `json:"documents"`
	AvailableActions          []string               `json:"available_actions"`
}

// WarningResponse documento adicional que no se incluyó automáticamente.
type WarningResponse struct {
	InvoiceID                  string `json:"invoice_id"`
	InvoiceNumber              string `json:"invoice_number"`
	AdditionalDocumentID       string `json:"additional_document_id"`
	AdditionalDocumentNumber   string `json:"additional_document_number"`
	AdditionalDocumentLocation string `json:"additional_document_location"`
	Message                    string `json:"message"`
}

// CreateDistributionResponse respuesta de creación o retiro de documento.
type CreateDistributionResponse struct {
	Distribution DistributionResponse `json:"distribution"`
	Warnings     []WarningResponse    `json:"warnings"`
}

// DistributionListResponse listado paginado.
type DistributionListResponse struct {
	Items []DistributionResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// HistoryEntryResponse entrada del historial.
type HistoryEntryResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorID     string    `json:"actor_id"`
	Notes       string    `json:"notes,omitempty"`
	Discrepancy bool      `json:"discrepancy"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiscrepancyResponse documento reportado como faltante o dañado.
type DiscrepancyResponse struct {
	DocumentType string `json:"document_type"`
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// ConfirmationRequiredResponse cuerpo 409 cuando el receptor debe confirmar discrepancias con force=true.
type ConfirmationRequiredResponse struct {
	Code                 string                `json:"code"`
	Message              string                `json:"message"`
	RequiresConfirmation bool                  `json:"requires_confirmation"`
	Discrepancies        []DiscrepancyResponse `json:"discrepancies"`
}

// AttachmentResponse adjunto de una factura candidata.
type AttachmentResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Location string `json:"location"`
}

// CandidateDocumentResponse documento elegible para una distribución.
type CandidateDocumentResponse struct {
	DocumentType string               `json:"document_type"`
	ID           string               `json:"id"`
	Number       string               `json:"number"`
	Date         time.Time            `json:"date"`
	Description  string               `json:"description,omitempty"`
	Kind         string               `json:"kind,omitempty"`
	SupplierName string               `json:"supplier_name,omitempty"`
	Amount       *decimal.Decimal     `json:"amount,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	Location     string               `json:"location"`
	Attachments  []AttachmentResponse `json:"attachments,omitempty"`
}

// TransmittalDocumentResponse fila del documento de remisión.
type TransmittalDocumentResponse struct {
	DocumentType       string           `json:"document_type"`
	DocumentID         string           `json:"document_id"`
	Number             string           `json:"number"`
	Date               *time.Time       `json:"date,omitempty"`
	Description        string           `json:"description,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	AutoIncluded       bool             `json:"auto_included"`
	VerificationStatus string           `json:"verification_status,omitempty"`
	VerificationNotes  string           `json:"verification_notes,omitempty"`
}

// TransmittalPartyResponse departamento o persona en la remisión.
type TransmittalPartyResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code,omitempty"`
	Name         string `json:"name"`
	LocationCode string `json:"location_code,omitempty"`
}

// TransmittalResponse snapshot de remisión en JSON.
type TransmittalResponse struct {
	DistributionID   string                        `json:"distribution_id"`
	Number           string                        `json:"number"`
	Date             time.Time                     `json:"date"`
	Status           string                        `json:"status"`
	DocumentType     string                        `json:"document_type"`
	TypeCode         string                        `json:"type_code"`
	TypeName         string                        `json:"type_name"`
	TypeColor        string                        `json:"type_color,omitempty"`
	Origin           TransmittalPartyResponse      `json:"origin"`
	Destination      TransmittalPartyResponse      `json:"destination"`
	CreatedBy        TransmittalPartyResponse      `json:"created_by"`
	SenderVerifier   *TransmittalPartyResponse     `json:"sender_verifier,omitempty"`
	ReceiverVerifier *TransmittalPartyResponse     `json:"receiver_verifier,omitempty"`
	Notes            string                        `json:"notes,omitempty"`
	SentAt           *time.Time                    `json:"sent_at,omitempty"`
	ReceivedAt       *time.Time                    `json:"received_at,omitempty"`
	CompletedAt      *time.Time                    `json:"completed_at,omitempty"`
	HasDiscrepancies bool                          `json:"has_discrepancies"`
	Documents        []TransmittalDocumentResponse `json:"documents"`
	TotalDocuments   int                           `json:"total_documents"`
	EmptyMessage     string                        `json:"empty_message,omitempty"`
	GeneratedAt      time.Time                     `json:"generated_at"`
}

// DepartmentResponse departamento de la organización.
type DepartmentResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	LocationCode string `json:"location_code"`
}

// DistributionTypeResponse tipo de distribución.
type DistributionTypeResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Priority int    `json:"priority"`
}
