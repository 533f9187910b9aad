// Package workflow contiene la lógica pura del flujo de distribución: inclusión automática de
// documentos adjuntos, reglas de verificación por documento y la tabla de transiciones de estado.
// Ninguna función de este paquete hace I/O; los casos de uso cargan y persisten el agregado.
package workflow

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// Resolution resultado de la inclusión automática para un conjunto de facturas seleccionadas.
type Resolution struct {
	Included []entity.DocumentLink
	Warnings []entity.DistributionWarning
}

// ResolveAutoInclusions recorre los adjuntos de cada factura seleccionada y los compara con el código
// de ubicación del departamento de origen:
//   - coincide    → se incluye como enlace auto_included
//   - no coincide → se excluye y se emite una advertencia con la factura y el documento
//
// Un documento adjunto a dos facturas aparece una sola vez. El resultado depende solo de las entradas
// y respeta el orden de facturas y adjuntos, por lo que recalcular con las mismas entradas da lo mismo.
func ResolveAutoInclusions(invoices []entity.InvoiceDocument, originLocation string) Resolution {
	origin := strings.TrimSpace(originLocation)
	res := Resolution{}
	included := make(map[string]bool)
	warned := make(map[string]bool)

	for _, inv := range invoices {
		for _, att := range inv.Attachments {
			if att.ID == "" {
				continue
			}
			location := strings.TrimSpace(att.Location)
			if origin != "" && location == origin {
				if included[att.ID] {
					continue
				}
				included[att.ID] = true
				res.Included = append(res.Included, entity.DocumentLink{
					DocumentType:       entity.DocumentTypeAdditionalDocument,
					DocumentID:         att.ID,
					AutoIncluded:       true,
					VerificationStatus: entity.VerificationVerified,
				})
				continue
			}
			key := inv.ID + "|" + att.ID
			if warned[key] {
				continue
			}
			warned[key] = true
			res.Warnings = append(res.Warnings, entity.DistributionWarning{
				InvoiceID:                  inv.ID,
				InvoiceNumber:              inv.Number,
				AdditionalDocumentID:       att.ID,
				AdditionalDocumentNumber:   att.Number,
				AdditionalDocumentLocation: location,
				Message: fmt.Sprintf("el documento %s adjunto a la factura %s está en la ubicación %q, no en %q; no se incluyó",
					displayNumber(att.Number, att.ID), displayNumber(inv.Number, inv.ID), location, origin),
			})
		}
	}
	return res
}

func displayNumber(number, id string) string {
	if number != "" {
		return number
	}
	return id
}
