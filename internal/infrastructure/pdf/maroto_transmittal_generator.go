// Package pdf genera el documento de remisión (transmittal) de una distribución.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Remisión N° + Fecha │ Tipo + Estado                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN → DESTINO + Responsables                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Tipo | Número | Fecha | Descripción | Valor | ✓  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DOCUMENTOS + Observaciones                           │
//	│  FIRMAS: Entrega / Recibe                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appdist.TransmittalPDFGenerator = (*MarotoTransmittalGenerator)(nil)

// MarotoTransmittalGenerator implementa distribution.TransmittalPDFGenerator usando Maroto v2.
type MarotoTransmittalGenerator struct {
	organization string
}

// NewMarotoTransmittalGenerator construye el generador. organization aparece como autor del PDF.
func NewMarotoTransmittalGenerator(organization string) *MarotoTransmittalGenerator {
	return &MarotoTransmittalGenerator{organization: organization}
}

// GenerateTransmittalPDF genera el PDF y devuelve sus bytes.
func (g *MarotoTransmittalGenerator) GenerateTransmittalPDF(_ context.Context, s *appdist.TransmittalSnapshot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión "+s.Number, true).
		WithAuthor(nonEmpty(g.organization, "Distribución de documentos"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDocumentRows(s)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(s))
	if s.Notes != "" {
		m.AddRows(notesRow(s.Notes))
	}
	m.AddRows(row.New(12))
	m.AddRows(signatureRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: número y fecha (izq), tipo y estado (der).
func headerRow(s *appdist.TransmittalSnapshot) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMISIÓN DE DOCUMENTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(s.Number, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Fecha: "+s.Date.Format("02/01/2006"), props.Text{
				Size: 8, Top: 13, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(s.Type.Name, s.Type.Code), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+statusLabel(s.Status), props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New(documentTypeLabel(s.DocumentType), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// routeRow: origen, destino y responsables.
func routeRow(s *appdist.TransmittalSnapshot) core.Row {
	dept := func(label string, d appdist.TransmittalDepartment) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(d.Name, d.ID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Código: %s   |   Ubicación: %s", nonEmpty(d.Code, "—"), nonEmpty(d.LocationCode, "—")),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(18).Add(
		dept("ORIGEN", s.Origin),
		dept("DESTINO", s.Destination),
	)
}

// tableHeaderRow: cabecera de la tabla de documentos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Número", 2, align.Left),
		h("Fecha", 2, align.Center),
		h("Descripción", 4, align.Left),
		h("Valor", 2, align.Right),
		h("Verif.", 1, align.Center),
	)
}

// tableDocumentRows: una fila por documento o una fila explícita si no hay ninguno.
func tableDocumentRows(s *appdist.TransmittalSnapshot) []core.Row {
	if len(s.Documents) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New(
			nonEmpty(s.EmptyMessage, appdist.NoDocumentsMessage),
			props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray, Style: fontstyle.Italic},
		)))}
	}
	result := make([]core.Row, 0, len(s.Documents))
	for i, d := range s.Documents {
		desc := d.Description
		if d.AutoIncluded {
			desc = strings.TrimSpace(desc + " (adjunto)")
		}
		date := "—"
		if !d.Date.IsZero() {
			date = d.Date.Format("02/01/2006")
		}
		color := &props.Color{}
		if d.VerificationStatus != "" && d.VerificationStatus != entity.VerificationVerified {
			color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(d.Number, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(date, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(nonEmpty(desc, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(amountLabel(d.Amount, d.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(verificationLabel(d.VerificationStatus), props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
		))
	}
	return result
}

// totalsRow: total de documentos y marca de discrepancias.
func totalsRow(s *appdist.TransmittalSnapshot) core.Row {
	r := row.New(10).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("TOTAL DOCUMENTOS: %d", s.TotalDocuments), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
	if s.HasDiscrepancies {
		r = row.New(10).Add(
			col.New(8).Add(text.New("Recibida con discrepancias", props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorAlert, Top: 2,
			})),
			col.New(4).Add(text.New(fmt.Sprintf("TOTAL DOCUMENTOS: %d", s.TotalDocuments), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
			})),
		)
	}
	return r
}

func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}

// signatureRow: quien elabora, verifica y recibe.
func signatureRow(s *appdist.TransmittalSnapshot) core.Row {
	sign := func(label string, p appdist.TransmittalPerson) core.Col {
		return col.New(4).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center}),
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 5}),
			text.New(nonEmpty(p.Name, p.ID), props.Text{Size: 8, Align: align.Center, Top: 10, Color: colorGray}),
		)
	}
	return row.New(20).Add(
		sign("Elaboró", s.CreatedBy),
		sign("Verificó (entrega)", s.SenderVerifier),
		sign("Recibió", s.ReceiverVerifier),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func amountLabel(amount *decimal.Decimal, currency string) string {
	if amount == nil {
		return "—"
	}
	return strings.TrimSpace("$" + formatMoney(amount.StringFixed(0)) + " " + currency)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

func statusLabel(s entity.DistributionStatus) string {
	switch s {
	case entity.StatusDraft:
		return "Borrador"
	case entity.StatusVerifiedBySender:
		return "Verificada por remitente"
	case entity.StatusSent:
		return "Enviada"
	case entity.StatusReceived:
		return "Recibida"
	case entity.StatusVerifiedByReceiver:
		return "Verificada por receptor"
	case entity.StatusCompleted:
		return "Completada"
	}
	return string(s)
}

func documentTypeLabel(t entity.DocumentType) string {
	if t == entity.DocumentTypeInvoice {
		return "Facturas"
	}
	return "Documentos adicionales"
}

func verificationLabel(v entity.VerificationStatus) string {
	switch v {
	case entity.VerificationVerified:
		return "OK"
	case entity.VerificationMissing:
		return "Falta"
	case entity.VerificationDamaged:
		return "Dañado"
	}
	return ""
}
