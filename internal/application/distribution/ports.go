package distribution

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a esa tx.
// Si fn devuelve error no se persiste nada (ni el agregado, ni el historial, ni ubicaciones).
type TxRunner interface {
	RunDistribution(ctx context.Context, fn func(
		distRepo repository.DistributionRepository,
		historyRepo repository.HistoryRepository,
		locationRepo repository.DocumentLocationRepository,
	) error) error
}

// TransmittalPDFGenerator renderizador externo que convierte el snapshot en PDF.
type TransmittalPDFGenerator interface {
	GenerateTransmittalPDF(ctx context.Context, snapshot *TransmittalSnapshot) ([]byte, error)
}

// TransmittalXMLExporter exporta el snapshot a XML y devuelve el digest de su forma canónica.
type TransmittalXMLExporter interface {
	ExportTransmittalXML(snapshot *TransmittalSnapshot) (xmlBytes []byte, digest string, err error)
}

// Metrics puerto de observabilidad del flujo. Las implementaciones deben tolerar llamadas concurrentes.
type Metrics interface {
	IncrementTransition(action, outcome string)
	ObserveDiscrepancies(count int)
	ObserveAutoInclusion(included, excluded int)
}

// Resultados de una transición para métricas.
const (
	OutcomeCommitted            = "committed"
	OutcomeIllegal              = "illegal_transition"
	OutcomeUnauthorized         = "unauthorized"
	OutcomeInvalid              = "invalid"
	OutcomeConfirmationRequired = "confirmation_required"
	OutcomeError                = "error"
)

type nopMetrics struct{}

func (nopMetrics) IncrementTransition(string, string) {}
func (nopMetrics) ObserveDiscrepancies(int) {}
func (nopMetrics) ObserveAutoInclusion(int, int) {}
