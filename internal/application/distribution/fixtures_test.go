package distribution_test

import (
	"context"
	"testing"
	"time"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	senderA   = entity.Actor{ID: "usr-a", DepartmentID: "dep-a"}
	receiverB = entity.Actor{ID: "usr-b", DepartmentID: "dep-b"}
	outsiderC = entity.Actor{ID: "usr-c", DepartmentID: "dep-c"}
)

type harness struct {
	store       *memory.Store
	compose     *appdist.ComposeUseCase
	workflow    *appdist.WorkflowUseCase
	transmittal *appdist.TransmittalUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := memory.NewStore()
	s.PutDepartment(entity.Department{ID: "dep-a", Code: "A", Name: "Contabilidad", LocationCode: "LOC-A"})
	s.PutDepartment(entity.Department{ID: "dep-b", Code: "B", Name: "Tesorería", LocationCode: "LOC-B"})
	s.PutDepartment(entity.Department{ID: "dep-c", Code: "C", Name: "Archivo", LocationCode: "LOC-C"})
	s.PutDistributionType(entity.DistributionType{ID: "type-n", Code: "NOR", Name: "Normal", Color: "#5BC0DE"})
	s.PutUser(entity.User{ID: "usr-a", DepartmentID: "dep-a", Name: "Ana"})
	s.PutUser(entity.User{ID: "usr-b", DepartmentID: "dep-b", Name: "Bruno"})

	return &harness{
		store: s,
		compose: appdist.NewComposeUseCase(s, s.Distributions(), s.Departments(), s.DistributionTypes(),
			s.Catalog(), s.Sequences(), nil, nil, appdist.ComposeOptions{NotesMaxLength: 50}),
		workflow: appdist.NewWorkflowUseCase(s, s.Distributions(), s.History(), s.Departments(), nil, nil),
		transmittal: appdist.NewTransmittalUseCase(s.Distributions(), s.Departments(), s.DistributionTypes(),
			s.Users(), s.Catalog(), nil, nil),
	}
}

// invoiceWithAttachment registra una factura en LOC-A con un adjunto ubicado en attachmentLocation.
func (h *harness) invoiceWithAttachment(invID, attID, attachmentLocation string) {
	h.store.PutAdditionalDocument(entity.AdditionalDocument{ID: attID, Number: "AD-" + attID, Kind: "Remisión", Location: attachmentLocation})
	h.store.PutInvoice(entity.InvoiceDocument{
		ID: invID, Number: "FE-" + invID, Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		SupplierName: "Proveedor", Amount: decimal.NewFromInt(1000), Currency: "COP", Location: "LOC-A",
		Attachments: []entity.AttachedDocument{{ID: attID}},
	})
}

func (h *harness) create(t *testing.T, ids ...string) *appdist.CreateResult {
	t.Helper()
	res, err := h.compose.Create(context.Background(), senderA, appdist.CreateInput{
		DocumentType:            entity.DocumentTypeInvoice,
		TypeID:                  "type-n",
		OriginDepartmentID:      "dep-a",
		DestinationDepartmentID: "dep-b",
		DocumentIDs:             ids,
	})
	require.NoError(t, err)
	return res
}

func allVerified(d *entity.Distribution) []workflow.Verdict {
	out := make([]workflow.Verdict, 0, len(d.Documents))
	for _, l := range d.Documents {
		out = append(out, workflow.Verdict{DocumentType: l.DocumentType, DocumentID: l.DocumentID, Status: entity.VerificationVerified})
	}
	return out
}

// advance lleva la distribución hasta el estado received.
func (h *harness) advanceToReceived(t *testing.T, d *entity.Distribution) *entity.Distribution {
	t.Helper()
	ctx := context.Background()
	d, err := h.workflow.VerifySender(ctx, senderA, d.ID, allVerified(d), "")
	require.NoError(t, err)
	d, err = h.workflow.Send(ctx, senderA, d.ID)
	require.NoError(t, err)
	d, err = h.workflow.Receive(ctx, receiverB, d.ID)
	require.NoError(t, err)
	return d
}
