package dto

import (
	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
)

// ToDistributionResponse mapea el agregado; actor determina available_actions.
func ToDistributionResponse(d *entity.Distribution, actor entity.Actor) DistributionResponse {
	docs := make([]DocumentLinkResponse, 0, len(d.Documents))
	for _, l := range d.Documents {
		docs = append(docs, DocumentLinkResponse{
			DocumentType:       string(l.DocumentType),
			DocumentID:         l.DocumentID,
			AutoIncluded:       l.AutoIncluded,
			SenderVerified:     l.SenderVerified,
			ReceiverVerified:   l.ReceiverVerified,
			VerificationStatus: string(l.VerificationStatus),
			VerificationNotes:  l.VerificationNotes,
		})
	}
	actions := []string{}
	for _, a := range workflow.AvailableActions(d, actor) {
		actions = append(actions, string(a))
	}
	return DistributionResponse{
		ID:                        d.ID,
		Number:                    d.Number,
		DocumentType:              string(d.DocumentType),
		TypeID:                    d.TypeID,
		OriginDepartmentID:        d.OriginDepartmentID,
		DestinationDepartmentID:   d.DestinationDepartmentID,
		Status:                    string(d.Status),
		Notes:                     d.Notes,
		CreatedAt:                 d.CreatedAt,
		SentAt:                    d.SentAt,
		ReceivedAt:                d.ReceivedAt,
		SenderVerifiedAt:          d.SenderVerifiedAt,
		ReceiverVerifiedAt:        d.ReceiverVerifiedAt,
		CompletedAt:               d.CompletedAt,
		UpdatedAt:                 d.UpdatedAt,
		CreatedBy:                 d.CreatedBy,
		SenderVerifier:            d.SenderVerifier,
		ReceiverVerifier:          d.ReceiverVerifier,
		SenderVerificationNotes:   d.SenderVerificationNotes,
		ReceiverVerificationNotes: d.ReceiverVerificationNotes,
		HasDiscrepancies:          d.HasDiscrepancies,
		Version:                   d.Version,
		Documents:                 docs,
		AvailableActions:          actions,
	}
}

// ToWarningResponses mapea las advertencias de inclusión automática.
func ToWarningResponses(ws []entity.DistributionWarning) []WarningResponse {
	out := make([]WarningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningResponse{
			InvoiceID:                  w.InvoiceID,
			InvoiceNumber:              w.InvoiceNumber,
			AdditionalDocumentID:       w.AdditionalDocumentID,
			AdditionalDocumentNumber:   w.AdditionalDocumentNumber,
			AdditionalDocumentLocation: w.AdditionalDocumentLocation,
			Message:                    w.Message,
		})
	}
	return out
}

// ToHistoryResponses mapea el historial.
func ToHistoryResponses(entries []*entity.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:          e.ID,
			Action:      e.Action,
			Description: e.Description,
			ActorID:     e.ActorID,
			Notes:       e.Notes,
			Discrepancy: e.Discrepancy,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// ToDiscrepancyResponses mapea la lista de discrepancias pendientes de confirmar.
func ToDiscrepancyResponses(ds []entity.Discrepancy) []DiscrepancyResponse {
	out := make([]DiscrepancyResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, DiscrepancyResponse{
			DocumentType: string(d.DocumentType),
			DocumentID:   d.DocumentID,
			Status:       string(d.Status),
			Notes:        d.Notes,
		})
	}
	return out
}

// ToVerdicts convierte la petición en veredictos de dominio (la validación ocurre en el caso de uso).
func ToVerdicts(in []VerdictRequest) []workflow.Verdict {
	out := make([]workflow.Verdict, 0, len(in))
	for _, v := range in {
		out = append(out, workflow.Verdict{
			DocumentType: entity.DocumentType(v.DocumentType),
			DocumentID:   v.DocumentID,
			Status:       entity.VerificationStatus(v.Status),
			Notes:        v.Notes,
		})
	}
	return out
}

// ToCandidateResponses mapea documentos del catálogo.
func ToCandidateResponses(docs []entity.Document) []CandidateDocumentResponse {
	out := make([]CandidateDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		switch v := doc.(type) {
		case *entity.InvoiceDocument:
			out = append(out, invoiceCandidate(*v))
		case entity.InvoiceDocument:
			out = append(out, invoiceCandidate(v))
		case *entity.AdditionalDocument:
			out = append(out, additionalCandidate(*v))
		case entity.AdditionalDocument:
			out = append(out, additionalCandidate(v))
		}
	}
	return out
}

func invoiceCandidate(inv entity.InvoiceDocument) CandidateDocumentResponse {
	amount := inv.Amount
	atts := make([]AttachmentResponse, 0, len(inv.Attachments))
	for _, a := range inv.Attachments {
		atts = append(atts, AttachmentResponse{ID: a.ID, Number: a.Number, Location: a.Location})
	}
	return CandidateDocumentResponse{
		DocumentType: string(entity.DocumentTypeInvoice),
		ID:           inv.ID,
		Number:       inv.Number,
		Date:         inv.Date,
		Description:  inv.Description,
		SupplierName: inv.SupplierName,
		Amount:       &amount,
		Currency:     inv.Currency,
		Location:     inv.Location,
		Attachments:  atts,
	}
}

func additionalCandidate(a entity.AdditionalDocument) CandidateDocumentResponse {
	return CandidateDocumentResponse{
		DocumentType: string(entity.DocumentTypeAdditionalDocument),
		ID:           a.ID,
		Number:       a.Number,
		Date:         a.Date,
		Description:  a.Description,
		Kind:         a.Kind,
		Location:     a.Location,
	}
}

// ToTransmittalResponse mapea el snapshot de remisión.
func ToTransmittalResponse(s *appdist.TransmittalSnapshot) TransmittalResponse {
	docs := make([]TransmittalDocumentResponse, 0, len(s.Documents))
	for _, d := range s.Documents {
		row := TransmittalDocumentResponse{
			DocumentType:       string(d.DocumentType),
			DocumentID:         d.DocumentID,
			Number:             d.Number,
			Description:        d.Description,
			Amount:             d.Amount,
			Currency:           d.Currency,
			AutoIncluded:       d.AutoIncluded,
			VerificationStatus: string(d.VerificationStatus),
			VerificationNotes:  d.VerificationNotes,
		}
		if !d.Date.IsZero() {
			date := d.Date
			row.Date = &date
		}
		docs = append(docs, row)
	}
	return TransmittalResponse{
		DistributionID:   s.DistributionID,
		Number:           s.Number,
		Date:             s.Date,
		Status:           string(s.Status),
		DocumentType:     string(s.DocumentType),
		TypeCode:         s.Type.Code,
		TypeName:         s.Type.Name,
		TypeColor:        s.Type.Color,
		Origin:           department(s.Origin),
		Destination:      department(s.Destination),
		CreatedBy:        TransmittalPartyResponse{ID: s.CreatedBy.ID, Name: s.CreatedBy.Name},
		SenderVerifier:   person(s.SenderVerifier),
		ReceiverVerifier: person(s.ReceiverVerifier),
		Notes:            s.Notes,
		SentAt:           s.SentAt,
		ReceivedAt:       s.ReceivedAt,
		CompletedAt:      s.CompletedAt,
		HasDiscrepancies: s.HasDiscrepancies,
		Documents:        docs,
		TotalDocuments:   s.TotalDocuments,
		EmptyMessage:     s.EmptyMessage,
		GeneratedAt:      s.GeneratedAt,
	}
}

func department(d appdist.TransmittalDepartment) TransmittalPartyResponse {
	return TransmittalPartyResponse{ID: d.ID, Code: d.Code, Name: d.Name, LocationCode: d.LocationCode}
}

func person(p appdist.TransmittalPerson) *TransmittalPartyResponse {
	if p.ID == "" {
		return nil
	}
	return &TransmittalPartyResponse{ID: p.ID, Name: p.Name}
}
