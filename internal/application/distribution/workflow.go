package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/domain/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// WorkflowUseCase ejecuta las transiciones del ciclo de vida y las consultas de distribuciones.
// Cada transición confirmada escribe exactamente una entrada de historial en la misma transacción.
type WorkflowUseCase struct {
	txRunner    TxRunner
	distRepo    repository.DistributionRepository
	historyRepo repository.HistoryRepository
	deptRepo    repository.DepartmentRepository
	metrics     Metrics
	log         *logger.Logger
	now         func() time.Time
}

// NewWorkflowUseCase construye el caso de uso. metrics puede ser nil.
func NewWorkflowUseCase(
	txRunner TxRunner,
	distRepo repository.DistributionRepository,
	historyRepo repository.HistoryRepository,
	deptRepo repository.DepartmentRepository,
	metrics Metrics,
	log *logger.Logger,
) *WorkflowUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{
		txRunner:    txRunner,
		distRepo:    distRepo,
		historyRepo: historyRepo,
		deptRepo:    deptRepo,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

// step resultado de preparar una transición sobre el agregado ya validado.
type step struct {
	description string
	notes       string
	discrepancy bool
	moves       []locationMove
}

// run carga, valida la transición, deja que prepare mute el agregado y confirma con chequeo de versión.
func (uc *WorkflowUseCase) run(
	ctx context.Context,
	actor entity.Actor,
	id string,
	action workflow.Action,
	prepare func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error),
) (d *entity.Distribution, err error) {
	var from entity.DistributionStatus
	defer func() {
		uc.metrics.IncrementTransition(string(action), outcomeOf(err))
		if err != nil {
			uc.logRejected(action, id, from, actor, err)
		}
	}()

	d, err = loadDistribution(ctx, uc.distRepo, id)
	if err != nil {
		return nil, err
	}
	from = d.Status
	t, err := workflow.CheckTransition(d, action, actor)
	if err != nil {
		return nil, err
	}
	expected := d.Version
	now := uc.now()

	st, err := prepare(d, t, now)
	if err != nil {
		return nil, err
	}

	entry := newHistoryEntry(d, t.HistoryAction, st.description, actor, st.notes, now)
	entry.Discrepancy = st.discrepancy
	if err := commit(ctx, uc.txRunner, d, expected, entry, st.moves); err != nil {
		return nil, resolveConflict(ctx, uc.distRepo, err, id, t.From, string(action))
	}

	uc.log.Info().
		Str("distribution_id", d.ID).
		Str("action", string(action)).
		Str("from", string(t.From)).
		Str("to", string(t.To)).
		Str("actor_id", actor.ID).
		Msg("transición confirmada")
	return d, nil
}

// logRejected registra una transición rechazada: warn si el actor no está autorizado o perdió la
// carrera de versión, debug para el resto (estado, validación, confirmación pendiente).
func (uc *WorkflowUseCase) logRejected(action workflow.Action, id string, from entity.DistributionStatus, actor entity.Actor, err error) {
	ev := uc.log.Debug()
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrConflict) {
		ev = uc.log.Warn()
	}
	ev.Err(err).
		Str("distribution_id", id).
		Str("action", string(action)).
		Str("from", string(from)).
		Str("actor_id", actor.ID).
		Str("outcome", outcomeOf(err)).
		Msg("transición rechazada")
}

// VerifySender confirma que todos los documentos salen completos (draft -> verified_by_sender).
func (uc *WorkflowUseCase) VerifySender(ctx context.Context, actor entity.Actor, id string, verdicts []workflow.Verdict, notes string) (*entity.Distribution, error) {
	normalized, err := workflow.NormalizeVerdicts(verdicts)
	if err != nil {
		uc.metrics.IncrementTransition(string(workflow.ActionVerifySender), OutcomeInvalid)
		uc.logRejected(workflow.ActionVerifySender, id, "", actor, err)
		return nil, err
	}
	return uc.run(ctx, actor, id, workflow.ActionVerifySender, func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error) {
		if err := workflow.CheckSenderVerdicts(d, normalized); err != nil {
			return step{}, err
		}
		workflow.ApplySenderVerification(d, t, actor, notes, now)
		return step{
			description: fmt.Sprintf("Remitente verificó %d documento(s)", len(d.Documents)),
			notes:       d.SenderVerificationNotes,
		}, nil
	})
}

// Send despacha la distribución (verified_by_sender -> sent).
func (uc *WorkflowUseCase) Send(ctx context.Context, actor entity.Actor, id string) (*entity.Distribution, error) {
	return uc.run(ctx, actor, id, workflow.ActionSend, func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error) {
		workflow.ApplyTransition(d, t, actor, now)
		return step{description: "Distribución enviada al departamento destino"}, nil
	})
}

// Receive registra la recepción física (sent -> received).
func (uc *WorkflowUseCase) Receive(ctx context.Context, actor entity.Actor, id string) (*entity.Distribution, error) {
	return uc.run(ctx, actor, id, workflow.ActionReceive, func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error) {
		workflow.ApplyTransition(d, t, actor, now)
		return step{description: "Distribución recibida por el departamento destino"}, nil
	})
}

// VerifyReceiver registra el veredicto del receptor (received -> verified_by_receiver).
// Si hay documentos missing/damaged y force es false no se modifica nada y se devuelve
// *domain.DiscrepancyConfirmationRequiredError con la lista para que el cliente confirme.
func (uc *WorkflowUseCase) VerifyReceiver(ctx context.Context, actor entity.Actor, id string, verdicts []workflow.Verdict, notes string, force bool) (*entity.Distribution, error) {
	normalized, err := workflow.NormalizeVerdicts(verdicts)
	if err != nil {
		uc.metrics.IncrementTransition(string(workflow.ActionVerifyReceiver), OutcomeInvalid)
		uc.logRejected(workflow.ActionVerifyReceiver, id, "", actor, err)
		return nil, err
	}
	return uc.run(ctx, actor, id, workflow.ActionVerifyReceiver, func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error) {
		discrepancies, err := workflow.EvaluateReceiverVerdicts(d, normalized)
		if err != nil {
			return step{}, err
		}
		if len(discrepancies) > 0 && !force {
			return step{}, &domain.DiscrepancyConfirmationRequiredError{DistributionID: d.ID, Discrepancies: discrepancies}
		}
		workflow.ApplyReceiverVerification(d, t, actor, normalized, notes, now)
		if len(discrepancies) > 0 {
			uc.metrics.ObserveDiscrepancies(len(discrepancies))
			uc.log.Warn().
				Str("distribution_id", d.ID).
				Int("discrepancies", len(discrepancies)).
				Str("actor_id", actor.ID).
				Msg("verificación del receptor confirmada con discrepancias")
		}
		return step{
			description: workflow.DiscrepancySummary(discrepancies),
			notes:       d.ReceiverVerificationNotes,
			discrepancy: len(discrepancies) > 0,
		}, nil
	})
}

// Complete cierra la distribución (verified_by_receiver -> completed) y traslada a la ubicación
// del destino los documentos que el receptor confirmó como verified.
func (uc *WorkflowUseCase) Complete(ctx context.Context, actor entity.Actor, id string) (*entity.Distribution, error) {
	return uc.run(ctx, actor, id, workflow.ActionComplete, func(d *entity.Distribution, t workflow.Transition, now time.Time) (step, error) {
		dest, err := uc.deptRepo.GetByID(ctx, d.DestinationDepartmentID)
		if err != nil {
			return step{}, fmt.Errorf("completar: obtener destino: %w", err)
		}
		var moves []locationMove
		if dest != nil && dest.LocationCode != "" {
			for _, l := range d.Documents {
				if l.ReceiverVerified && l.VerificationStatus == entity.VerificationVerified {
					moves = append(moves, locationMove{ref: l.Ref(), locationCode: dest.LocationCode})
				}
			}
		}
		workflow.ApplyTransition(d, t, actor, now)
		desc := fmt.Sprintf("Distribución completada; %d documento(s) trasladado(s) al destino", len(moves))
		if d.HasDiscrepancies {
			desc += " (con discrepancias)"
		}
		return step{description: desc, discrepancy: d.HasDiscrepancies, moves: moves}, nil
	})
}

// Get devuelve la distribución o NotFoundError.
func (uc *WorkflowUseCase) Get(ctx context.Context, id string) (*entity.Distribution, error) {
	return loadDistribution(ctx, uc.distRepo, id)
}

// List consulta distribuciones por filtro.
func (uc *WorkflowUseCase) List(ctx context.Context, filter repository.DistributionFilter, limit, offset int) ([]*entity.Distribution, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, domain.NewValidationError("status", "estado desconocido %q", filter.Status)
	}
	return uc.distRepo.List(ctx, filter, limit, offset)
}

// History entradas del historial en orden cronológico.
func (uc *WorkflowUseCase) History(ctx context.Context, id string) ([]*entity.HistoryEntry, error) {
	if _, err := loadDistribution(ctx, uc.distRepo, id); err != nil {
		return nil, err
	}
	return uc.historyRepo.ListByDistribution(ctx, id)
}

func validStatus(s entity.DistributionStatus) bool {
	switch s {
	case entity.StatusDraft, entity.StatusVerifiedBySender, entity.StatusSent,
		entity.StatusReceived, entity.StatusVerifiedByReceiver, entity.StatusCompleted:
		return true
	}
	return false
}
