package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/Distribucion-api/internal/interfaces/http"
)

// buildAPI arma la API completa sobre el store en memoria: dep-a (LOC-A) envía a dep-b (LOC-B).
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	s.PutDepartment(entity.Department{ID: "dep-a", Code: "A", Name: "Contabilidad", LocationCode: "LOC-A"})
	s.PutDepartment(entity.Department{ID: "dep-b", Code: "B", Name: "Tesorería", LocationCode: "LOC-B"})
	s.PutDepartment(entity.Department{ID: "dep-c", Code: "C", Name: "Archivo", LocationCode: "LOC-C"})
	s.PutDistributionType(entity.DistributionType{ID: "type-n", Code: "NOR", Name: "Normal"})
	s.PutUser(entity.User{ID: "usr-a", DepartmentID: "dep-a", Name: "Ana"})
	s.PutUser(entity.User{ID: "usr-b", DepartmentID: "dep-b", Name: "Bruno"})
	s.PutAdditionalDocument(entity.AdditionalDocument{ID: "ad-1", Number: "OC-1", Kind: "Orden de compra", Location: "LOC-A"})
	s.PutInvoice(entity.InvoiceDocument{
		ID: "inv-1", Number: "FE-1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(250000), Currency: "COP", Location: "LOC-A",
		Attachments: []entity.AttachedDocument{{ID: "ad-1"}},
	})

	compose := appdist.NewComposeUseCase(s, s.Distributions(), s.Departments(), s.DistributionTypes(),
		s.Catalog(), s.Sequences(), nil, nil, appdist.ComposeOptions{})
	wf := appdist.NewWorkflowUseCase(s, s.Distributions(), s.History(), s.Departments(), nil, nil)
	transmittal := appdist.NewTransmittalUseCase(s.Distributions(), s.Departments(), s.DistributionTypes(),
		s.Users(), s.Catalog(), nil, xmlexport.NewExporter())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ComposeUC:         compose,
		WorkflowUC:        wf,
		TransmittalUC:     transmittal,
		Departments:       s.Departments(),
		DistributionTypes: s.DistributionTypes(),
		JWTSecret:         testJWTSecret,
	})
	return app
}

// call ejecuta la petición con cuerpo JSON opcional y devuelve estado y cuerpo crudo.
func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func createDraft(t *testing.T, app *fiber.App) dto.CreateDistributionResponse {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/distributions", bearer(t, "usr-a", "dep-a"), dto.CreateDistributionRequest{
		DocumentType:            "invoice",
		TypeID:                  "type-n",
		DestinationDepartmentID: "dep-b",
		DocumentIDs:             []string{"inv-1"},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var out dto.CreateDistributionResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func verdicts(d dto.DistributionResponse, override map[string]dto.VerdictRequest) dto.VerificationRequest {
	req := dto.VerificationRequest{}
	for _, l := range d.Documents {
		v, ok := override[l.DocumentID]
		if !ok {
			v = dto.VerdictRequest{DocumentType: l.DocumentType, DocumentID: l.DocumentID, Status: "verified"}
		}
		req.Documents = append(req.Documents, v)
	}
	return req
}

func TestCreate_IncluyeAdjuntoYAccionesDisponibles(t *testing.T) {
	out := createDraft(t, buildAPI(t))

	d := out.Distribution
	assert.Equal(t, "draft", d.Status)
	assert.Equal(t, "dep-a", d.OriginDepartmentID, "el origen por defecto es el departamento del token")
	require.Len(t, d.Documents, 2)
	assert.True(t, d.Documents[1].AutoIncluded)
	assert.Equal(t, []string{"verify_sender"}, d.AvailableActions)
	assert.Empty(t, out.Warnings)
	assert.Regexp(t, `^NOR/\d{6}/0001$`, d.Number)
}

func TestCreate_Validacion_Retorna400(t *testing.T) {
	app := buildAPI(t)
	status, raw := call(t, app, http.MethodPost, "/api/distributions", bearer(t, "usr-a", "dep-a"), dto.CreateDistributionRequest{
		DocumentType:            "invoice",
		TypeID:                  "type-n",
		DestinationDepartmentID: "dep-a",
		DocumentIDs:             []string{"inv-1"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestGetByID_NoExiste_Retorna404(t *testing.T) {
	status, raw := call(t, buildAPI(t), http.MethodGet, "/api/distributions/no-existe", bearer(t, "usr-a", "dep-a"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(raw), "NOT_FOUND")
}

func TestSend_DesdeBorrador_Retorna409TransicionIlegal(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution

	status, raw := call(t, app, http.MethodPost, "/api/distributions/"+d.ID+"/send", bearer(t, "usr-a", "dep-a"), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "ILLEGAL_TRANSITION")
}

func TestVerifySender_ActorAjeno_Retorna403(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution

	status, raw := call(t, app, http.MethodPost, "/api/distributions/"+d.ID+"/verify-sender",
		bearer(t, "usr-c", "dep-c"), verdicts(d, nil))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(raw), "FORBIDDEN")
}

func TestFlujoCompleto_ConDiscrepanciaConfirmada(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution
	sender := bearer(t, "usr-a", "dep-a")
	receiver := bearer(t, "usr-b", "dep-b")
	base := "/api/distributions/" + d.ID

	status, raw := call(t, app, http.MethodPost, base+"/verify-sender", sender, verdicts(d, nil))
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = call(t, app, http.MethodPost, base+"/send", sender, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = call(t, app, http.MethodPost, base+"/receive", receiver, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	req := verdicts(d, map[string]dto.VerdictRequest{
		"ad-1": {DocumentType: "additional_document", DocumentID: "ad-1", Status: "missing", Notes: "no llegó en el sobre"},
	})
	status, raw = call(t, app, http.MethodPost, base+"/verify-receiver", receiver, req)
	require.Equal(t, http.StatusConflict, status)
	var confirm dto.ConfirmationRequiredResponse
	require.NoError(t, json.Unmarshal(raw, &confirm))
	assert.Equal(t, "DISCREPANCY_CONFIRMATION_REQUIRED", confirm.Code)
	assert.True(t, confirm.RequiresConfirmation)
	require.Len(t, confirm.Discrepancies, 1)
	assert.Equal(t, "ad-1", confirm.Discrepancies[0].DocumentID)

	status, raw = call(t, app, http.MethodGet, base, receiver, nil)
	require.Equal(t, http.StatusOK, status)
	var current dto.DistributionResponse
	require.NoError(t, json.Unmarshal(raw, &current))
	assert.Equal(t, "received", current.Status, "sin force no se aplica nada")

	req.Force = true
	status, raw = call(t, app, http.MethodPost, base+"/verify-receiver", receiver, req)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = call(t, app, http.MethodPost, base+"/complete", receiver, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var done dto.DistributionResponse
	require.NoError(t, json.Unmarshal(raw, &done))
	assert.Equal(t, "completed", done.Status)
	assert.True(t, done.HasDiscrepancies)
	assert.Empty(t, done.AvailableActions)

	status, raw = call(t, app, http.MethodGet, base+"/history", receiver, nil)
	require.Equal(t, http.StatusOK, status)
	var history []dto.HistoryEntryResponse
	require.NoError(t, json.Unmarshal(raw, &history))
	actions := make([]string, 0, len(history))
	for _, h := range history {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []string{"created", "sender_verified", "sent", "received", "receiver_verified", "completed"}, actions)
}

func TestTransmittalXML_IncluyeDigest(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution

	req := httptest.NewRequest(http.MethodGet, "/api/distributions/"+d.ID+"/transmittal/xml", nil)
	req.Header.Set("Authorization", bearer(t, "usr-a", "dep-a"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderTransmittalDigest))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "remision_")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FE-1")
}

func TestTransmittalJSON_TotalDocumentos(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution

	status, raw := call(t, app, http.MethodGet, "/api/distributions/"+d.ID+"/transmittal", bearer(t, "usr-b", "dep-b"), nil)
	require.Equal(t, http.StatusOK, status)
	var snap dto.TransmittalResponse
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, 2, snap.TotalDocuments)
	assert.Equal(t, "Tesorería", snap.Destination.Name)
	assert.Equal(t, "Ana", snap.CreatedBy.Name)
}

func TestCandidates_ExcluyeDocumentosEnlazados(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, "usr-a", "dep-a")

	status, raw := call(t, app, http.MethodGet, "/api/catalog/candidates?document_type=invoice", auth, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var before []dto.CandidateDocumentResponse
	require.NoError(t, json.Unmarshal(raw, &before))
	require.Len(t, before, 1)
	assert.Equal(t, "inv-1", before[0].ID)

	createDraft(t, app)

	status, raw = call(t, app, http.MethodGet, "/api/catalog/candidates?document_type=invoice", auth, nil)
	require.Equal(t, http.StatusOK, status)
	var after []dto.CandidateDocumentResponse
	require.NoError(t, json.Unmarshal(raw, &after))
	assert.Empty(t, after)
}

func TestDiscard_Retorna204(t *testing.T) {
	app := buildAPI(t)
	d := createDraft(t, app).Distribution
	auth := bearer(t, "usr-a", "dep-a")

	status, _ := call(t, app, http.MethodDelete, "/api/distributions/"+d.ID, auth, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, app, http.MethodGet, "/api/distributions/"+d.ID, auth, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestList_EstadoDesconocido_Retorna400(t *testing.T) {
	status, _ := call(t, buildAPI(t), http.MethodGet, "/api/distributions?status=perdida", bearer(t, "usr-a", "dep-a"), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
