package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
)

const (
	locDeptA = "000HACC"
	locDeptC = "001HLOG"
)

func invoiceWith(id string, atts ...entity.AttachedDocument) entity.InvoiceDocument {
	return entity.InvoiceDocument{ID: id, Number: "INV-" + id, Location: locDeptA, Attachments: atts}
}

func TestResolveAutoInclusions_AdjuntoEnOrigenSeIncluye(t *testing.T) {
	inv := invoiceWith("1", entity.AttachedDocument{ID: "ad-1", Number: "PO-1", Location: locDeptA})

	res := workflow.ResolveAutoInclusions([]entity.InvoiceDocument{inv}, locDeptA)

	require.Len(t, res.Included, 1)
	assert.Empty(t, res.Warnings)
	link := res.Included[0]
	assert.Equal(t, entity.DocumentTypeAdditionalDocument, link.DocumentType)
	assert.Equal(t, "ad-1", link.DocumentID)
	assert.True(t, link.AutoIncluded)
	assert.Equal(t, entity.VerificationVerified, link.VerificationStatus)
}

func TestResolveAutoInclusions_AdjuntoEnOtraUbicacionGeneraAdvertencia(t *testing.T) {
	inv := invoiceWith("1", entity.AttachedDocument{ID: "ad-1", Number: "PO-1", Location: locDeptC})

	res := workflow.ResolveAutoInclusions([]entity.InvoiceDocument{inv}, locDeptA)

	assert.Empty(t, res.Included)
	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, "1", w.InvoiceID)
	assert.Equal(t, "ad-1", w.AdditionalDocumentID)
	assert.Equal(t, locDeptC, w.AdditionalDocumentLocation)
	assert.Contains(t, w.Message, "PO-1")
	assert.Contains(t, w.Message, "INV-1")
}

func TestResolveAutoInclusions_AdjuntoCompartidoSeIncluyeUnaVez(t *testing.T) {
	shared := entity.AttachedDocument{ID: "ad-shared", Location: locDeptA}
	invoices := []entity.InvoiceDocument{
		invoiceWith("1", shared, entity.AttachedDocument{ID: "ad-2", Location: locDeptA}),
		invoiceWith("2", shared),
	}

	res := workflow.ResolveAutoInclusions(invoices, locDeptA)

	require.Len(t, res.Included, 2)
	assert.Equal(t, "ad-shared", res.Included[0].DocumentID)
	assert.Equal(t, "ad-2", res.Included[1].DocumentID)
}

func TestResolveAutoInclusions_EsIdempotente(t *testing.T) {
	invoices := []entity.InvoiceDocument{
		invoiceWith("1",
			entity.AttachedDocument{ID: "ad-1", Location: locDeptA},
			entity.AttachedDocument{ID: "ad-2", Location: locDeptC},
		),
		invoiceWith("2",
			entity.AttachedDocument{ID: "ad-1", Location: locDeptA},
			entity.AttachedDocument{ID: "ad-3", Location: " " + locDeptA + " "},
		),
	}

	first := workflow.ResolveAutoInclusions(invoices, locDeptA)
	second := workflow.ResolveAutoInclusions(invoices, locDeptA)

	assert.Equal(t, first, second)
	assert.Len(t, first.Included, 2)
	assert.Len(t, first.Warnings, 1)
}

func TestResolveAutoInclusions_UbicacionVaciaNuncaCoincide(t *testing.T) {
	inv := invoiceWith("1", entity.AttachedDocument{ID: "ad-1", Location: ""})

	res := workflow.ResolveAutoInclusions([]entity.InvoiceDocument{inv}, "")

	assert.Empty(t, res.Included)
	assert.Len(t, res.Warnings, 1)
}
