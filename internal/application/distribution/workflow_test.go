package distribution_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySender_MarcaTodosLosEnlaces(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution

	got, err := h.workflow.VerifySender(context.Background(), senderA, d.ID, allVerified(d), "todo completo")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusVerifiedBySender, got.Status)
	require.NotNil(t, got.SenderVerifiedAt)
	assert.Equal(t, "usr-a", got.SenderVerifier)
	for _, l := range got.Documents {
		assert.True(t, l.SenderVerified)
	}
	stored, _ := h.workflow.Get(context.Background(), d.ID)
	assert.Equal(t, entity.StatusVerifiedBySender, stored.Status)
}

func TestVerifySender_VeredictosIncompletos(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution

	_, err := h.workflow.VerifySender(context.Background(), senderA, d.ID, allVerified(d)[:1], "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := h.workflow.Get(context.Background(), d.ID)
	assert.Equal(t, entity.StatusDraft, stored.Status)
}

func TestSend_ActorAjenoNoAutorizado(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	ctx := context.Background()
	d, err := h.workflow.VerifySender(ctx, senderA, d.ID, allVerified(d), "")
	require.NoError(t, err)

	_, err = h.workflow.Send(ctx, outsiderC, d.ID)

	var unauthorized *domain.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "dep-a", unauthorized.RequiredDepartmentID)
	stored, _ := h.workflow.Get(ctx, d.ID)
	assert.Equal(t, entity.StatusVerifiedBySender, stored.Status)
	assert.Nil(t, stored.SentAt)
	history, _ := h.workflow.History(ctx, d.ID)
	assert.Len(t, history, 2)
}

func TestAccionIlegalNoCambiaNada(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	ctx := context.Background()

	_, err := h.workflow.Send(ctx, senderA, d.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	_, err = h.workflow.Complete(ctx, receiverB, d.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	stored, _ := h.workflow.Get(ctx, d.ID)
	assert.Equal(t, entity.StatusDraft, stored.Status)
	assert.Equal(t, d.Version, stored.Version)
	history, _ := h.workflow.History(ctx, d.ID)
	assert.Len(t, history, 1)
}

func TestTransicionRechazadaQuedaEnElLog(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	ctx := context.Background()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "debug", Out: &buf})
	uc := appdist.NewWorkflowUseCase(h.store, h.store.Distributions(), h.store.History(), h.store.Departments(), nil, log)

	_, err := uc.Send(ctx, senderA, d.ID)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
	d2, err := uc.VerifySender(ctx, senderA, d.ID, allVerified(d), "")
	require.NoError(t, err)
	_, err = uc.Send(ctx, outsiderC, d2.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	var rejected []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["message"] == "transición rechazada" {
			rejected = append(rejected, entry)
		}
	}
	require.Len(t, rejected, 2)

	assert.Equal(t, "debug", rejected[0]["level"])
	assert.Equal(t, d.ID, rejected[0]["distribution_id"])
	assert.Equal(t, "send", rejected[0]["action"])
	assert.Equal(t, "draft", rejected[0]["from"])
	assert.Equal(t, "usr-a", rejected[0]["actor_id"])

	assert.Equal(t, "warn", rejected[1]["level"])
	assert.Equal(t, "verified_by_sender", rejected[1]["from"])
	assert.Equal(t, "usr-c", rejected[1]["actor_id"])
}

func TestVerifyReceiver_DiscrepanciaRequiereConfirmacion(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-C")
	d := h.create(t, "inv-1").Distribution
	d = h.advanceToReceived(t, d)
	ctx := context.Background()

	verdicts := []workflow.Verdict{{
		DocumentType: entity.DocumentTypeInvoice, DocumentID: "inv-1",
		Status: entity.VerificationMissing, Notes: "not in envelope",
	}}

	_, err := h.workflow.VerifyReceiver(ctx, receiverB, d.ID, verdicts, "", false)
	var confirm *domain.DiscrepancyConfirmationRequiredError
	require.ErrorAs(t, err, &confirm)
	require.Len(t, confirm.Discrepancies, 1)
	assert.Equal(t, "inv-1", confirm.Discrepancies[0].DocumentID)
	assert.Equal(t, entity.VerificationMissing, confirm.Discrepancies[0].Status)

	stored, _ := h.workflow.Get(ctx, d.ID)
	assert.Equal(t, entity.StatusReceived, stored.Status)
	before, _ := h.workflow.History(ctx, d.ID)

	got, err := h.workflow.VerifyReceiver(ctx, receiverB, d.ID, verdicts, "revisado", true)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerifiedByReceiver, got.Status)
	assert.True(t, got.HasDiscrepancies)
	assert.Equal(t, entity.VerificationMissing, got.Documents[0].VerificationStatus)
	assert.True(t, got.Documents[0].ReceiverVerified)

	after, _ := h.workflow.History(ctx, d.ID)
	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, entity.HistoryActionReceiverVerified, last.Action)
	assert.True(t, last.Discrepancy)
	assert.Contains(t, last.Description, "discrepancias")
	assert.Contains(t, last.Description, "not in envelope")
}

func TestVerifyReceiver_SinDiscrepanciasNoPideConfirmacion(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	d = h.advanceToReceived(t, d)

	got, err := h.workflow.VerifyReceiver(context.Background(), receiverB, d.ID, allVerified(d), "", false)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerifiedByReceiver, got.Status)
	assert.False(t, got.HasDiscrepancies)
}

func TestComplete_TrasladaDocumentosVerificados(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	d = h.advanceToReceived(t, d)
	ctx := context.Background()

	verdicts := []workflow.Verdict{
		{DocumentType: entity.DocumentTypeInvoice, DocumentID: "inv-1", Status: entity.VerificationVerified},
		{DocumentType: entity.DocumentTypeAdditionalDocument, DocumentID: "ad-1", Status: entity.VerificationDamaged, Notes: "mojado"},
	}
	_, err := h.workflow.VerifyReceiver(ctx, receiverB, d.ID, verdicts, "", true)
	require.NoError(t, err)

	got, err := h.workflow.Complete(ctx, receiverB, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	inv, _ := h.store.Catalog().FindDocument(ctx, entity.DocumentRef{Type: entity.DocumentTypeInvoice, ID: "inv-1"})
	assert.Equal(t, "LOC-B", inv.(*entity.InvoiceDocument).Location)
	ad, _ := h.store.Catalog().FindDocument(ctx, entity.DocumentRef{Type: entity.DocumentTypeAdditionalDocument, ID: "ad-1"})
	assert.Equal(t, "LOC-A", ad.(*entity.AdditionalDocument).Location)

	history, _ := h.workflow.History(ctx, d.ID)
	actions := make([]string, 0, len(history))
	for _, e := range history {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		entity.HistoryActionCreated,
		entity.HistoryActionSenderVerified,
		entity.HistoryActionSent,
		entity.HistoryActionReceived,
		entity.HistoryActionReceiverVerified,
		entity.HistoryActionCompleted,
	}, actions)

	_, err = h.workflow.Complete(ctx, receiverB, d.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestSend_ConcurrenteSoloUnoGana(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	d := h.create(t, "inv-1").Distribution
	ctx := context.Background()
	_, err := h.workflow.VerifySender(ctx, senderA, d.ID, allVerified(d), "")
	require.NoError(t, err)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.workflow.Send(ctx, senderA, d.ID)
		}()
	}
	wg.Wait()

	var ok, illegal int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrIllegalTransition):
			illegal++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, illegal)

	history, _ := h.workflow.History(ctx, d.ID)
	var sent int
	for _, e := range history {
		if e.Action == entity.HistoryActionSent {
			sent++
		}
	}
	assert.Equal(t, 1, sent)
}

func TestList_FiltraPorDepartamentoYEstado(t *testing.T) {
	h := newHarness(t)
	h.invoiceWithAttachment("inv-1", "ad-1", "LOC-A")
	h.invoiceWithAttachment("inv-2", "ad-2", "LOC-A")
	first := h.create(t, "inv-1").Distribution
	h.create(t, "inv-2")
	ctx := context.Background()
	_, err := h.workflow.VerifySender(ctx, senderA, first.ID, allVerified(first), "")
	require.NoError(t, err)

	drafts, err := h.workflow.List(ctx, repository.DistributionFilter{Status: entity.StatusDraft, DepartmentID: "dep-b"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	none, err := h.workflow.List(ctx, repository.DistributionFilter{DepartmentID: "dep-c"}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = h.workflow.List(ctx, repository.DistributionFilter{Status: "perdido"}, 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NoExiste(t *testing.T) {
	h := newHarness(t)
	_, err := h.workflow.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.workflow.History(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
