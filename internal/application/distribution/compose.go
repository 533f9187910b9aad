package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// DefaultNotesMaxLength longitud máxima de las notas libres si no se configura otra.
const DefaultNotesMaxLength = 2000

// ComposeOptions parámetros de configuración del armado de distribuciones.
type ComposeOptions struct {
	NotesMaxLength int
	NumberPrefix   string
}

// ComposeUseCase arma y edita distribuciones en borrador: candidatos, alta, edición,
// retiro de documentos y descarte.
type ComposeUseCase struct {
	txRunner  TxRunner
	distRepo  repository.DistributionRepository
	deptRepo  repository.DepartmentRepository
	typeRepo  repository.DistributionTypeRepository
	catalog   repository.DocumentCatalog
	sequences repository.SequenceIssuer
	metrics   Metrics
	log       *logger.Logger
	opts      ComposeOptions
	now       func() time.Time
}

// NewComposeUseCase construye el caso de uso. metrics puede ser nil.
func NewComposeUseCase(
	txRunner TxRunner,
	distRepo repository.DistributionRepository,
	deptRepo repository.DepartmentRepository,
	typeRepo repository.DistributionTypeRepository,
	catalog repository.DocumentCatalog,
	sequences repository.SequenceIssuer,
	metrics Metrics,
	log *logger.Logger,
	opts ComposeOptions,
) *ComposeUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.NotesMaxLength <= 0 {
		opts.NotesMaxLength = DefaultNotesMaxLength
	}
	return &ComposeUseCase{
		txRunner:  txRunner,
		distRepo:  distRepo,
		deptRepo:  deptRepo,
		typeRepo:  typeRepo,
		catalog:   catalog,
		sequences: sequences,
		metrics:   metrics,
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
}

// CreateInput entrada para crear una distribución.
type CreateInput struct {
	DocumentType            entity.DocumentType
	TypeID                  string
	OriginDepartmentID      string
	DestinationDepartmentID string
	Notes                   string
	DocumentIDs             []string
}

// CreateResult distribución creada más las advertencias de documentos adicionales no incluidos.
type CreateResult struct {
	Distribution *entity.Distribution
	Warnings     []entity.DistributionWarning
}

// ListCandidates documentos del tipo pedido ubicados en el departamento y que no están
// en otra distribución activa. searchText filtra por número/descripción sin distinguir acentos.
func (uc *ComposeUseCase) ListCandidates(ctx context.Context, departmentID string, docType entity.DocumentType, searchText string) ([]entity.Document, error) {
	if departmentID == "" {
		return nil, domain.NewValidationError("department_id", "el departamento es obligatorio")
	}
	if !docType.Valid() {
		return nil, domain.NewValidationError("document_type", "tipo de documento inválido %q", docType)
	}
	dept, err := uc.deptRepo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("candidatos: obtener departamento: %w", err)
	}
	if dept == nil {
		return nil, &domain.NotFoundError{Resource: "department", ID: departmentID}
	}
	docs, err := uc.catalog.ListCandidates(ctx, departmentID, docType, strings.TrimSpace(searchText))
	if err != nil {
		return nil, fmt.Errorf("candidatos: listar: %w", err)
	}
	linked, err := uc.distRepo.LinkedDocumentIDs(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("candidatos: documentos enlazados: %w", err)
	}
	out := make([]entity.Document, 0, len(docs))
	for _, doc := range docs {
		if !linked[doc.Ref().ID] {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Create valida la entrada, resuelve la inclusión automática de documentos adicionales
// (solo para distribuciones de facturas), numera y persiste la distribución en estado draft.
func (uc *ComposeUseCase) Create(ctx context.Context, actor entity.Actor, in CreateInput) (*CreateResult, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := uc.validateCreate(in); err != nil {
		return nil, err
	}
	if actor.ID == "" || actor.DepartmentID != in.OriginDepartmentID {
		return nil, &domain.UnauthorizedError{
			ActorID:              actor.ID,
			ActorDepartmentID:    actor.DepartmentID,
			RequiredDepartmentID: in.OriginDepartmentID,
			Action:               "create",
		}
	}

	distType, err := uc.typeRepo.GetByID(ctx, in.TypeID)
	if err != nil {
		return nil, fmt.Errorf("crear: obtener tipo: %w", err)
	}
	if distType == nil {
		return nil, &domain.NotFoundError{Resource: "distribution_type", ID: in.TypeID}
	}
	origin, err := uc.department(ctx, in.OriginDepartmentID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.department(ctx, in.DestinationDepartmentID); err != nil {
		return nil, err
	}

	linked, err := uc.distRepo.LinkedDocumentIDs(ctx, in.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("crear: documentos enlazados: %w", err)
	}

	links := make([]entity.DocumentLink, 0, len(in.DocumentIDs))
	var invoices []entity.InvoiceDocument
	for _, id := range in.DocumentIDs {
		ref := entity.DocumentRef{Type: in.DocumentType, ID: id}
		doc, err := uc.catalog.FindDocument(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("crear: obtener documento %s: %w", id, err)
		}
		if doc == nil {
			return nil, &domain.NotFoundError{Resource: string(in.DocumentType), ID: id}
		}
		if loc := documentLocation(doc); strings.TrimSpace(loc) != strings.TrimSpace(origin.LocationCode) {
			return nil, domain.NewValidationError("document_ids", "el documento %s no está ubicado en el departamento de origen", id)
		}
		if linked[id] {
			return nil, domain.NewValidationError("document_ids", "el documento %s ya pertenece a otra distribución activa", id)
		}
		if inv, ok := asInvoice(doc); ok {
			invoices = append(invoices, inv)
		}
		links = append(links, entity.DocumentLink{
			DocumentType:       in.DocumentType,
			DocumentID:         id,
			VerificationStatus: entity.VerificationVerified,
		})
	}

	var warnings []entity.DistributionWarning
	if in.DocumentType == entity.DocumentTypeInvoice {
		linkedAttachments, err := uc.distRepo.LinkedDocumentIDs(ctx, entity.DocumentTypeAdditionalDocument)
		if err != nil {
			return nil, fmt.Errorf("crear: adjuntos enlazados: %w", err)
		}
		res := excludeLinked(workflow.ResolveAutoInclusions(invoices, origin.LocationCode), invoices, linkedAttachments)
		links = append(links, res.Included...)
		warnings = res.Warnings
		uc.metrics.ObserveAutoInclusion(len(res.Included), len(res.Warnings))
	}

	now := uc.now()
	number, err := uc.nextNumber(ctx, distType, now)
	if err != nil {
		return nil, err
	}

	d := &entity.Distribution{
		ID:                      uuid.New().String(),
		Number:                  number,
		DocumentType:            in.DocumentType,
		TypeID:                  in.TypeID,
		OriginDepartmentID:      in.OriginDepartmentID,
		DestinationDepartmentID: in.DestinationDepartmentID,
		Status:                  entity.StatusDraft,
		Notes:                   in.Notes,
		CreatedAt:               now,
		UpdatedAt:               now,
		CreatedBy:               actor.ID,
		Documents:               links,
		Version:                 1,
	}
	auto := len(links) - len(in.DocumentIDs)
	entry := newHistoryEntry(d, entity.HistoryActionCreated,
		fmt.Sprintf("Distribución %s creada con %d documento(s), %d incluido(s) automáticamente", number, len(links), auto),
		actor, in.Notes, now)

	err = uc.txRunner.RunDistribution(ctx, func(
		distRepo repository.DistributionRepository,
		historyRepo repository.HistoryRepository,
		_ repository.DocumentLocationRepository,
	) error {
		if err := distRepo.LockDocuments(ctx, refsOf(d.Documents)); err != nil {
			return err
		}
		if err := ensureUnlinked(ctx, distRepo, d.Documents); err != nil {
			return err
		}
		if err := distRepo.Create(ctx, d); err != nil {
			return err
		}
		return historyRepo.Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("crear: persistir: %w", err)
	}

	uc.log.Info().
		Str("distribution_id", d.ID).
		Str("number", d.Number).
		Str("actor_id", actor.ID).
		Int("documents", len(links)).
		Int("warnings", len(warnings)).
		Msg("distribución creada")
	return &CreateResult{Distribution: d, Warnings: warnings}, nil
}

func (uc *ComposeUseCase) validateCreate(in CreateInput) error {
	if !in.DocumentType.Valid() {
		return domain.NewValidationError("document_type", "tipo de documento inválido %q", in.DocumentType)
	}
	if in.TypeID == "" {
		return domain.NewValidationError("type_id", "el tipo de distribución es obligatorio")
	}
	if in.OriginDepartmentID == "" || in.DestinationDepartmentID == "" {
		return domain.NewValidationError("destination_department_id", "origen y destino son obligatorios")
	}
	if in.OriginDepartmentID == in.DestinationDepartmentID {
		return domain.NewValidationError("destination_department_id", "el destino debe ser distinto del origen")
	}
	if err := uc.validateNotes(in.Notes); err != nil {
		return err
	}
	if len(in.DocumentIDs) == 0 {
		return domain.NewValidationError("document_ids", "se requiere al menos un documento")
	}
	seen := make(map[string]bool, len(in.DocumentIDs))
	for _, id := range in.DocumentIDs {
		if id == "" {
			return domain.NewValidationError("document_ids", "id de documento vacío")
		}
		if seen[id] {
			return domain.NewValidationError("document_ids", "documento repetido %s", id)
		}
		seen[id] = true
	}
	return nil
}

func (uc *ComposeUseCase) validateNotes(notes string) error {
	if len([]rune(notes)) > uc.opts.NotesMaxLength {
		return domain.NewValidationError("notes", "las notas superan %d caracteres", uc.opts.NotesMaxLength)
	}
	return nil
}

func (uc *ComposeUseCase) department(ctx context.Context, id string) (*entity.Department, error) {
	dept, err := uc.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener departamento %s: %w", id, err)
	}
	if dept == nil {
		return nil, &domain.NotFoundError{Resource: "department", ID: id}
	}
	return dept, nil
}

// nextNumber arma el número visible: [prefijo]CODIGO/AAAAMM/secuencia.
func (uc *ComposeUseCase) nextNumber(ctx context.Context, t *entity.DistributionType, now time.Time) (string, error) {
	period := now.Format("200601")
	seq, err := uc.sequences.Next(ctx, t.ID, period)
	if err != nil {
		return "", fmt.Errorf("crear: numerar: %w", err)
	}
	return fmt.Sprintf("%s%s/%s/%04d", uc.opts.NumberPrefix, t.Code, period, seq), nil
}

// UpdateDraftInput campos editables de un borrador. nil = sin cambio.
type UpdateDraftInput struct {
	DestinationDepartmentID *string
	Notes                   *string
}

// UpdateDraft edita destino y notas de una distribución en draft.
func (uc *ComposeUseCase) UpdateDraft(ctx context.Context, actor entity.Actor, id string, in UpdateDraftInput) (*entity.Distribution, error) {
	d, err := uc.loadDraft(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	expected := d.Version

	var changes []string
	if in.DestinationDepartmentID != nil && *in.DestinationDepartmentID != d.DestinationDepartmentID {
		dest := *in.DestinationDepartmentID
		if dest == "" || dest == d.OriginDepartmentID {
			return nil, domain.NewValidationError("destination_department_id", "el destino debe ser distinto del origen")
		}
		if _, err := uc.department(ctx, dest); err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("destino %s -> %s", d.DestinationDepartmentID, dest))
		d.DestinationDepartmentID = dest
	}
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if err := uc.validateNotes(notes); err != nil {
			return nil, err
		}
		if notes != d.Notes {
			changes = append(changes, "notas")
			d.Notes = notes
		}
	}
	if len(changes) == 0 {
		return d, nil
	}

	now := uc.now()
	d.UpdatedAt = now
	entry := newHistoryEntry(d, entity.HistoryActionUpdated, "Borrador actualizado: "+strings.Join(changes, ", "), actor, "", now)
	if err := commit(ctx, uc.txRunner, d, expected, entry, nil); err != nil {
		return nil, resolveConflict(ctx, uc.distRepo, err, id, entity.StatusDraft, "update")
	}
	return d, nil
}

// RemoveDocument retira un documento seleccionado del borrador. En distribuciones de facturas
// la inclusión automática se recalcula con las facturas que quedan.
func (uc *ComposeUseCase) RemoveDocument(ctx context.Context, actor entity.Actor, id string, ref entity.DocumentRef) (*CreateResult, error) {
	d, err := uc.loadDraft(ctx, actor, id, "remove_document")
	if err != nil {
		return nil, err
	}
	expected := d.Version

	idx := d.FindLink(ref)
	if idx < 0 {
		return nil, &domain.NotFoundError{Resource: "document_link", ID: string(ref.Type) + "/" + ref.ID}
	}
	if d.Documents[idx].AutoIncluded {
		return nil, domain.NewValidationError("document", "el documento %s fue incluido automáticamente; retire la factura que lo adjunta", ref.ID)
	}

	var explicit []entity.DocumentLink
	for i, l := range d.Documents {
		if i != idx && !l.AutoIncluded {
			explicit = append(explicit, l)
		}
	}
	if len(explicit) == 0 {
		return nil, domain.NewValidationError("document", "la distribución debe conservar al menos un documento")
	}

	links := explicit
	var warnings []entity.DistributionWarning
	if d.DocumentType == entity.DocumentTypeInvoice {
		origin, err := uc.department(ctx, d.OriginDepartmentID)
		if err != nil {
			return nil, err
		}
		invoices := make([]entity.InvoiceDocument, 0, len(explicit))
		for _, l := range explicit {
			doc, err := uc.catalog.FindDocument(ctx, l.Ref())
			if err != nil {
				return nil, fmt.Errorf("retirar: obtener documento %s: %w", l.DocumentID, err)
			}
			if inv, ok := asInvoice(doc); ok {
				invoices = append(invoices, inv)
			}
		}
		linkedAttachments, err := uc.distRepo.LinkedDocumentIDs(ctx, entity.DocumentTypeAdditionalDocument)
		if err != nil {
			return nil, fmt.Errorf("retirar: adjuntos enlazados: %w", err)
		}
		for _, l := range d.Documents {
			if l.DocumentType == entity.DocumentTypeAdditionalDocument {
				delete(linkedAttachments, l.DocumentID)
			}
		}
		res := excludeLinked(workflow.ResolveAutoInclusions(invoices, origin.LocationCode), invoices, linkedAttachments)
		links = append(links, res.Included...)
		warnings = res.Warnings
	}
	d.Documents = links

	now := uc.now()
	d.UpdatedAt = now
	entry := newHistoryEntry(d, entity.HistoryActionDocumentRemoved,
		fmt.Sprintf("Documento %s/%s retirado del borrador", ref.Type, ref.ID), actor, "", now)
	if err := commit(ctx, uc.txRunner, d, expected, entry, nil); err != nil {
		return nil, resolveConflict(ctx, uc.distRepo, err, id, entity.StatusDraft, "remove_document")
	}
	return &CreateResult{Distribution: d, Warnings: warnings}, nil
}

// DiscardDraft elimina un borrador. El historial se conserva.
func (uc *ComposeUseCase) DiscardDraft(ctx context.Context, actor entity.Actor, id string) error {
	d, err := uc.loadDraft(ctx, actor, id, "discard")
	if err != nil {
		return err
	}
	if err := uc.distRepo.DeleteDraft(ctx, d.ID, d.Version); err != nil {
		return resolveConflict(ctx, uc.distRepo, err, id, entity.StatusDraft, "discard")
	}
	uc.log.Info().Str("distribution_id", d.ID).Str("actor_id", actor.ID).Msg("borrador descartado")
	return nil
}

// loadDraft carga la distribución y exige estado draft y actor del departamento de origen.
func (uc *ComposeUseCase) loadDraft(ctx context.Context, actor entity.Actor, id, action string) (*entity.Distribution, error) {
	d, err := loadDistribution(ctx, uc.distRepo, id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.StatusDraft {
		return nil, &domain.IllegalTransitionError{From: d.Status, Action: action}
	}
	if actor.ID == "" || actor.DepartmentID != d.OriginDepartmentID {
		return nil, &domain.UnauthorizedError{
			ActorID:              actor.ID,
			ActorDepartmentID:    actor.DepartmentID,
			RequiredDepartmentID: d.OriginDepartmentID,
			Action:               action,
		}
	}
	return d, nil
}

func documentLocation(doc entity.Document) string {
	switch v := doc.(type) {
	case *entity.InvoiceDocument:
		return v.Location
	case entity.InvoiceDocument:
		return v.Location
	case *entity.AdditionalDocument:
		return v.Location
	case entity.AdditionalDocument:
		return v.Location
	}
	return ""
}

func asInvoice(doc entity.Document) (entity.InvoiceDocument, bool) {
	switch v := doc.(type) {
	case *entity.InvoiceDocument:
		return *v, true
	case entity.InvoiceDocument:
		return v, true
	}
	return entity.InvoiceDocument{}, false
}

// excludeLinked retira de la inclusión automática los adjuntos que ya están en otra distribución
// activa y los reporta como advertencia de la factura que los adjunta.
func excludeLinked(res workflow.Resolution, invoices []entity.InvoiceDocument, linked map[string]bool) workflow.Resolution {
	if len(linked) == 0 || len(res.Included) == 0 {
		return res
	}
	out := workflow.Resolution{Warnings: res.Warnings}
	skipped := make(map[string]bool)
	for _, l := range res.Included {
		if linked[l.DocumentID] {
			skipped[l.DocumentID] = true
			continue
		}
		out.Included = append(out.Included, l)
	}
	if len(skipped) == 0 {
		return res
	}
	warned := make(map[string]bool)
	for _, inv := range invoices {
		for _, att := range inv.Attachments {
			key := inv.ID + "|" + att.ID
			if !skipped[att.ID] || warned[key] {
				continue
			}
			warned[key] = true
			out.Warnings = append(out.Warnings, entity.DistributionWarning{
				InvoiceID:                  inv.ID,
				InvoiceNumber:              inv.Number,
				AdditionalDocumentID:       att.ID,
				AdditionalDocumentNumber:   att.Number,
				AdditionalDocumentLocation: att.Location,
				Message: fmt.Sprintf("el documento %s adjunto a la factura %s ya pertenece a otra distribución activa; no se incluyó",
					firstNonEmpty(att.Number, att.ID), firstNonEmpty(inv.Number, inv.ID)),
			})
		}
	}
	return out
}

// ensureUnlinked repite dentro de la transacción el control de documentos en distribuciones activas.
func ensureUnlinked(ctx context.Context, repo repository.DistributionRepository, links []entity.DocumentLink) error {
	byType := make(map[entity.DocumentType]map[string]bool)
	for _, l := range links {
		linked, ok := byType[l.DocumentType]
		if !ok {
			var err error
			linked, err = repo.LinkedDocumentIDs(ctx, l.DocumentType)
			if err != nil {
				return fmt.Errorf("documentos enlazados: %w", err)
			}
			byType[l.DocumentType] = linked
		}
		if linked[l.DocumentID] {
			return domain.NewValidationError("document_ids", "el documento %s ya pertenece a otra distribución activa", l.DocumentID)
		}
	}
	return nil
}

func refsOf(links []entity.DocumentLink) []entity.DocumentRef {
	out := make([]entity.DocumentRef, 0, len(links))
	for _, l := range links {
		out = append(out, l.Ref())
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
