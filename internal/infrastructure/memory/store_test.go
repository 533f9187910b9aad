package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDistribution(id string) *entity.Distribution {
	now := time.Now()
	return &entity.Distribution{
		ID:                      id,
		Number:                  "NOR/202601/0001",
		DocumentType:            entity.DocumentTypeInvoice,
		OriginDepartmentID:      "dep-a",
		DestinationDepartmentID: "dep-b",
		Status:                  entity.StatusDraft,
		CreatedAt:               now,
		UpdatedAt:               now,
		Documents:               []entity.DocumentLink{{DocumentType: entity.DocumentTypeInvoice, DocumentID: "inv-1"}},
		Version:                 1,
	}
}

func TestDistributionRepo_UpdateIfVersion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Distributions()
	require.NoError(t, repo.Create(ctx, newDistribution("d1")))

	a, _ := repo.GetByID(ctx, "d1")
	b, _ := repo.GetByID(ctx, "d1")

	a.Status = entity.StatusVerifiedBySender
	require.NoError(t, repo.UpdateIfVersion(ctx, a, 1))
	assert.Equal(t, 2, a.Version)

	b.Notes = "tarde"
	err := repo.UpdateIfVersion(ctx, b, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := repo.GetByID(ctx, "d1")
	assert.Equal(t, entity.StatusVerifiedBySender, stored.Status)
	assert.Empty(t, stored.Notes)
}

func TestDistributionRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Distributions()
	require.NoError(t, repo.Create(ctx, newDistribution("d1")))

	got, _ := repo.GetByID(ctx, "d1")
	got.Documents[0].DocumentID = "otro"

	again, _ := repo.GetByID(ctx, "d1")
	assert.Equal(t, "inv-1", again.Documents[0].DocumentID)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_RunDistribution_RollbackEnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Distributions().Create(ctx, newDistribution("d1")))

	boom := errors.New("boom")
	err := s.RunDistribution(ctx, func(dr repository.DistributionRepository, hr repository.HistoryRepository, _ repository.DocumentLocationRepository) error {
		d, _ := dr.GetByID(ctx, "d1")
		d.Status = entity.StatusVerifiedBySender
		if err := dr.UpdateIfVersion(ctx, d, 1); err != nil {
			return err
		}
		if err := hr.Append(ctx, &entity.HistoryEntry{ID: "h1", DistributionID: "d1", Action: entity.HistoryActionSenderVerified}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	d, _ := s.Distributions().GetByID(ctx, "d1")
	assert.Equal(t, entity.StatusDraft, d.Status)
	assert.Equal(t, 1, d.Version)
	h, _ := s.History().ListByDistribution(ctx, "d1")
	assert.Empty(t, h)
}

func TestDistributionRepo_DeleteDraft(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Distributions()
	require.NoError(t, repo.Create(ctx, newDistribution("d1")))

	assert.ErrorIs(t, repo.DeleteDraft(ctx, "d1", 7), domain.ErrConflict)
	require.NoError(t, repo.DeleteDraft(ctx, "d1", 1))
	got, _ := repo.GetByID(ctx, "d1")
	assert.Nil(t, got)
}

func TestDistributionRepo_LinkedDocumentIDs_IgnoraCompletadas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Distributions()
	open := newDistribution("d1")
	done := newDistribution("d2")
	done.Status = entity.StatusCompleted
	done.Documents[0].DocumentID = "inv-2"
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, done))

	ids, err := repo.LinkedDocumentIDs(ctx, entity.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"inv-1": true}, ids)
}

func TestDistributionRepo_MaxSequence(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Distributions()
	for id, number := range map[string]string{
		"d1": "DST-NOR/202601/0003",
		"d2": "DST-NOR/202601/0012",
		"d3": "DST-NOR/202602/0040",
	} {
		d := newDistribution(id)
		d.TypeID = "type-n"
		d.Number = number
		require.NoError(t, repo.Create(ctx, d))
	}

	n, err := repo.MaxSequence(ctx, "type-n", "202601")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	n, err = repo.MaxSequence(ctx, "type-u", "202601")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalog_ListCandidates_BusquedaSinAcentos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	memory.SeedDemo(s)

	docs, err := s.Catalog().ListCandidates(ctx, "dep-contabilidad", entity.DocumentTypeInvoice, "logistica")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "inv-fe-1002", docs[0].Ref().ID)

	all, err := s.Catalog().ListCandidates(ctx, "dep-contabilidad", entity.DocumentTypeInvoice, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.Catalog().ListCandidates(ctx, "dep-x", entity.DocumentTypeInvoice, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_UpdateLocation_SeReflejaEnAdjuntos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	memory.SeedDemo(s)

	require.NoError(t, s.Catalog().UpdateLocation(ctx, entity.DocumentRef{Type: entity.DocumentTypeAdditionalDocument, ID: "ad-oc-100"}, "LOC-TES"))

	doc, err := s.Catalog().FindDocument(ctx, entity.DocumentRef{Type: entity.DocumentTypeInvoice, ID: "inv-fe-1001"})
	require.NoError(t, err)
	inv := doc.(*entity.InvoiceDocument)
	require.Len(t, inv.Attachments, 2)
	assert.Equal(t, "LOC-TES", inv.Attachments[0].Location)
	assert.Equal(t, "OC-100", inv.Attachments[0].Number)
}

func TestSequenceIssuer_Next(t *testing.T) {
	ctx := context.Background()
	seq := memory.NewStore().Sequences()
	n1, _ := seq.Next(ctx, "t1", "202601")
	n2, _ := seq.Next(ctx, "t1", "202601")
	other, _ := seq.Next(ctx, "t1", "202602")
	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(2), n2)
	assert.Equal(t, int64(1), other)
}
