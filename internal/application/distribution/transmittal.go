package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// NoDocumentsMessage fila explícita cuando la distribución no tiene documentos.
const NoDocumentsMessage = "Sin documentos adjuntos"

// TransmittalSnapshot vista desnormalizada e inmutable de una distribución para el documento de
// remisión. Se construye una vez y no mantiene referencias al agregado.
type TransmittalSnapshot struct {
	DistributionID   string
	Number           string
	Date             time.Time
	Status           entity.DistributionStatus
	DocumentType     entity.DocumentType
	Type             TransmittalType
	Origin           TransmittalDepartment
	Destination      TransmittalDepartment
	CreatedBy        TransmittalPerson
	SenderVerifier   TransmittalPerson
	ReceiverVerifier TransmittalPerson
	Notes            string
	SentAt           *time.Time
	ReceivedAt       *time.Time
	CompletedAt      *time.Time
	HasDiscrepancies bool
	Documents        []TransmittalDocument
	TotalDocuments   int
	// EmptyMessage se llena cuando no hay documentos para que el renderizador imprima una fila explícita.
	EmptyMessage string
	GeneratedAt  time.Time
}

// TransmittalType datos visibles del tipo de distribución.
type TransmittalType struct {
	Code  string
	Name  string
	Color string
}

// TransmittalDepartment datos visibles de un departamento.
type TransmittalDepartment struct {
	ID           string
	Code         string
	Name         string
	LocationCode string
}

// TransmittalPerson usuario responsable de un paso.
type TransmittalPerson struct {
	ID   string
	Name string
}

// TransmittalDocument fila del detalle de documentos. Amount es nil para documentos adicionales.
type TransmittalDocument struct {
	DocumentType       entity.DocumentType
	DocumentID         string
	Number             string
	Date               time.Time
	Description        string
	Amount             *decimal.Decimal
	Currency           string
	AutoIncluded       bool
	VerificationStatus entity.VerificationStatus
	VerificationNotes  string
}

// TransmittalUseCase arma el snapshot de remisión y lo entrega a los renderizadores.
type TransmittalUseCase struct {
	distRepo repository.DistributionRepository
	deptRepo repository.DepartmentRepository
	typeRepo repository.DistributionTypeRepository
	userRepo repository.UserRepository
	catalog  repository.DocumentCatalog
	pdf      TransmittalPDFGenerator
	xml      TransmittalXMLExporter
	now      func() time.Time
}

// NewTransmittalUseCase construye el caso de uso. pdf y xml pueden ser nil si no se exponen.
func NewTransmittalUseCase(
	distRepo repository.DistributionRepository,
	deptRepo repository.DepartmentRepository,
	typeRepo repository.DistributionTypeRepository,
	userRepo repository.UserRepository,
	catalog repository.DocumentCatalog,
	pdf TransmittalPDFGenerator,
	xml TransmittalXMLExporter,
) *TransmittalUseCase {
	return &TransmittalUseCase{
		distRepo: distRepo,
		deptRepo: deptRepo,
		typeRepo: typeRepo,
		userRepo: userRepo,
		catalog:  catalog,
		pdf:      pdf,
		xml:      xml,
		now:      time.Now,
	}
}

// BuildSnapshot carga la distribución y desnormaliza en paralelo tipo, departamentos, usuarios y documentos.
// Un documento que ya no existe en el catálogo conserva su fila con los datos del enlace.
func (uc *TransmittalUseCase) BuildSnapshot(ctx context.Context, id string) (*TransmittalSnapshot, error) {
	d, err := loadDistribution(ctx, uc.distRepo, id)
	if err != nil {
		return nil, err
	}

	s := &TransmittalSnapshot{
		DistributionID:   d.ID,
		Number:           d.Number,
		Date:             d.CreatedAt,
		Status:           d.Status,
		DocumentType:     d.DocumentType,
		Notes:            d.Notes,
		SentAt:           copyTime(d.SentAt),
		ReceivedAt:       copyTime(d.ReceivedAt),
		CompletedAt:      copyTime(d.CompletedAt),
		HasDiscrepancies: d.HasDiscrepancies,
		Documents:        make([]TransmittalDocument, len(d.Documents)),
		TotalDocuments:   len(d.Documents),
		GeneratedAt:      uc.now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := uc.typeRepo.GetByID(gctx, d.TypeID)
		if err != nil {
			return fmt.Errorf("remisión: tipo: %w", err)
		}
		if t != nil {
			s.Type = TransmittalType{Code: t.Code, Name: t.Name, Color: t.Color}
		} else {
			s.Type = TransmittalType{Code: d.TypeID}
		}
		return nil
	})
	g.Go(func() error { return uc.fillDepartment(gctx, d.OriginDepartmentID, &s.Origin) })
	g.Go(func() error { return uc.fillDepartment(gctx, d.DestinationDepartmentID, &s.Destination) })
	g.Go(func() error { return uc.fillPerson(gctx, d.CreatedBy, &s.CreatedBy) })
	g.Go(func() error { return uc.fillPerson(gctx, d.SenderVerifier, &s.SenderVerifier) })
	g.Go(func() error { return uc.fillPerson(gctx, d.ReceiverVerifier, &s.ReceiverVerifier) })
	for i, link := range d.Documents {
		g.Go(func() error {
			row, err := uc.documentRow(gctx, link)
			if err != nil {
				return err
			}
			s.Documents[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.TotalDocuments == 0 {
		s.EmptyMessage = NoDocumentsMessage
	}
	return s, nil
}

// DownloadPDF genera el PDF de remisión. Devuelve bytes y nombre sugerido del archivo.
func (uc *TransmittalUseCase) DownloadPDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("remisión: generador PDF no configurado")
	}
	s, err := uc.BuildSnapshot(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateTransmittalPDF(ctx, s)
	if err != nil {
		return nil, "", fmt.Errorf("remisión: generar pdf: %w", err)
	}
	return b, fileName(s, "pdf"), nil
}

// ExportXML exporta el snapshot a XML. Devuelve bytes, nombre sugerido y digest SHA-256 de la forma canónica.
func (uc *TransmittalUseCase) ExportXML(ctx context.Context, id string) ([]byte, string, string, error) {
	if uc.xml == nil {
		return nil, "", "", fmt.Errorf("remisión: exportador XML no configurado")
	}
	s, err := uc.BuildSnapshot(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	b, digest, err := uc.xml.ExportTransmittalXML(s)
	if err != nil {
		return nil, "", "", fmt.Errorf("remisión: exportar xml: %w", err)
	}
	return b, fileName(s, "xml"), digest, nil
}

func (uc *TransmittalUseCase) fillDepartment(ctx context.Context, id string, dst *TransmittalDepartment) error {
	dst.ID = id
	dept, err := uc.deptRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("remisión: departamento %s: %w", id, err)
	}
	if dept != nil {
		dst.Code = dept.Code
		dst.Name = dept.Name
		dst.LocationCode = dept.LocationCode
	}
	return nil
}

func (uc *TransmittalUseCase) fillPerson(ctx context.Context, id string, dst *TransmittalPerson) error {
	if id == "" {
		return nil
	}
	dst.ID = id
	if uc.userRepo == nil {
		return nil
	}
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("remisión: usuario %s: %w", id, err)
	}
	if u != nil {
		dst.Name = u.Name
	}
	return nil
}

func (uc *TransmittalUseCase) documentRow(ctx context.Context, link entity.DocumentLink) (TransmittalDocument, error) {
	row := TransmittalDocument{
		DocumentType:       link.DocumentType,
		DocumentID:         link.DocumentID,
		Number:             link.DocumentID,
		AutoIncluded:       link.AutoIncluded,
		VerificationStatus: link.VerificationStatus,
		VerificationNotes:  link.VerificationNotes,
	}
	doc, err := uc.catalog.FindDocument(ctx, link.Ref())
	if err != nil {
		return row, fmt.Errorf("remisión: documento %s: %w", link.DocumentID, err)
	}
	if inv, ok := asInvoice(doc); ok {
		amount := inv.Amount
		row.Number = inv.Number
		row.Date = inv.Date
		row.Description = joinNonEmpty(" - ", inv.SupplierName, inv.Description)
		row.Amount = &amount
		row.Currency = inv.Currency
		return row, nil
	}
	switch v := doc.(type) {
	case *entity.AdditionalDocument:
		fillAdditional(&row, *v)
	case entity.AdditionalDocument:
		fillAdditional(&row, v)
	}
	return row, nil
}

func fillAdditional(row *TransmittalDocument, a entity.AdditionalDocument) {
	row.Number = a.Number
	row.Date = a.Date
	row.Description = joinNonEmpty(" - ", a.Kind, a.Description)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func fileName(s *TransmittalSnapshot, ext string) string {
	return fmt.Sprintf("remision_%s.%s", strings.ReplaceAll(s.Number, "/", "-"), ext)
}
