package xmlexport_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/xmlexport"
)

func snapshot() *appdist.TransmittalSnapshot {
	amount := decimal.RequireFromString("480000")
	return &appdist.TransmittalSnapshot{
		DistributionID: "d1",
		Number:         "NOR/202601/0001",
		Date:           time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Status:         entity.StatusReceived,
		DocumentType:   entity.DocumentTypeInvoice,
		Type:           appdist.TransmittalType{Code: "NOR", Name: "Normal"},
		Origin:         appdist.TransmittalDepartment{ID: "dep-a", Code: "A", Name: "Contabilidad", LocationCode: "LOC-A"},
		Destination:    appdist.TransmittalDepartment{ID: "dep-b", Code: "B", Name: "Tesorería", LocationCode: "LOC-B"},
		CreatedBy:      appdist.TransmittalPerson{ID: "usr-a", Name: "Ana"},
		Documents: []appdist.TransmittalDocument{
			{DocumentType: entity.DocumentTypeInvoice, DocumentID: "inv-1", Number: "FE-1", Amount: &amount, Currency: "COP"},
			{DocumentType: entity.DocumentTypeAdditionalDocument, DocumentID: "ad-1", Number: "OC-1", AutoIncluded: true},
		},
		TotalDocuments: 2,
	}
}

func TestExportTransmittalXML(t *testing.T) {
	out, digest, err := xmlexport.NewExporter().ExportTransmittalXML(snapshot())
	require.NoError(t, err)
	assert.NotEmpty(t, digest)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Transmittal", root.Tag)
	assert.Equal(t, "NOR/202601/0001", root.SelectAttrValue("number", ""))

	docs := root.SelectElement("Documents")
	require.NotNil(t, docs)
	assert.Equal(t, "2", docs.SelectAttrValue("total", ""))
	assert.Len(t, docs.SelectElements("Document"), 2)
	assert.Equal(t, "480000.00", docs.SelectElements("Document")[0].SelectElement("Amount").Text())
}

func TestExportTransmittalXML_DigestDeterministico(t *testing.T) {
	_, d1, err := xmlexport.NewExporter().ExportTransmittalXML(snapshot())
	require.NoError(t, err)
	_, d2, err := xmlexport.NewExporter().ExportTransmittalXML(snapshot())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	changed := snapshot()
	changed.Documents[1].VerificationStatus = entity.VerificationMissing
	_, d3, err := xmlexport.NewExporter().ExportTransmittalXML(changed)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestExportTransmittalXML_SinDocumentos(t *testing.T) {
	s := snapshot()
	s.Documents = nil
	s.TotalDocuments = 0
	s.EmptyMessage = appdist.NoDocumentsMessage

	out, _, err := xmlexport.NewExporter().ExportTransmittalXML(s)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	empty := doc.Root().SelectElement("Documents").SelectElement("Empty")
	require.NotNil(t, empty)
	assert.Equal(t, appdist.NoDocumentsMessage, empty.Text())
}

func TestDocumentDigest_DetectaAlteraciones(t *testing.T) {
	out, digest, err := xmlexport.NewExporter().ExportTransmittalXML(snapshot())
	require.NoError(t, err)

	again, err := xmlexport.DocumentDigest(out)
	require.NoError(t, err)
	assert.Equal(t, digest, again, "el archivo exportado reproduce su digest")

	tampered := []byte(strings.Replace(string(out), "FE-1", "FE-9", 1))
	changed, err := xmlexport.DocumentDigest(tampered)
	require.NoError(t, err)
	assert.NotEqual(t, digest, changed)
}
