package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.250", formatMoney("-1250"))
	assert.Equal(t, "999", formatMoney("999"))
}

func TestGenerateTransmittalPDF(t *testing.T) {
	amount := decimal.NewFromInt(1250000)
	snapshot := &appdist.TransmittalSnapshot{
		Number:       "NOR/202601/0001",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:       entity.StatusSent,
		DocumentType: entity.DocumentTypeInvoice,
		Type:         appdist.TransmittalType{Code: "NOR", Name: "Normal"},
		Origin:       appdist.TransmittalDepartment{ID: "dep-a", Name: "Contabilidad"},
		Destination:  appdist.TransmittalDepartment{ID: "dep-b", Name: "Tesorería"},
		Documents: []appdist.TransmittalDocument{
			{DocumentType: entity.DocumentTypeInvoice, DocumentID: "inv-1", Number: "FE-1", Amount: &amount, Currency: "COP"},
		},
		TotalDocuments: 1,
	}

	b, err := NewMarotoTransmittalGenerator("Acme").GenerateTransmittalPDF(context.Background(), snapshot)
	require.NoError(t, err)
	assert.True(t, len(b) > 4)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateTransmittalPDF_SinDocumentos(t *testing.T) {
	snapshot := &appdist.TransmittalSnapshot{Number: "NOR/202601/0002", EmptyMessage: appdist.NoDocumentsMessage}
	b, err := NewMarotoTransmittalGenerator("").GenerateTransmittalPDF(context.Background(), snapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}
