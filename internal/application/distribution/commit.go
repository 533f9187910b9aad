package distribution

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// locationMove documento cuya ubicación cambia en la misma transacción que el agregado.
type locationMove struct {
	ref          entity.DocumentRef
	locationCode string
}

// commit persiste el agregado con chequeo de versión, mueve ubicaciones y agrega una entrada al historial,
// todo en una transacción. Si la versión cambió devuelve domain.ErrConflict.
func commit(
	ctx context.Context,
	tx TxRunner,
	d *entity.Distribution,
	expectedVersion int,
	entry *entity.HistoryEntry,
	moves []locationMove,
) error {
	return tx.RunDistribution(ctx, func(
		distRepo repository.DistributionRepository,
		historyRepo repository.HistoryRepository,
		locationRepo repository.DocumentLocationRepository,
	) error {
		if err := distRepo.UpdateIfVersion(ctx, d, expectedVersion); err != nil {
			return err
		}
		for _, m := range moves {
			if err := locationRepo.UpdateLocation(ctx, m.ref, m.locationCode); err != nil {
				return err
			}
		}
		if entry != nil {
			return historyRepo.Append(ctx, entry)
		}
		return nil
	})
}

func newHistoryEntry(d *entity.Distribution, action, description string, actor entity.Actor, notes string, now time.Time) *entity.HistoryEntry {
	return &entity.HistoryEntry{
		ID:             uuid.New().String(),
		DistributionID: d.ID,
		Action:         action,
		Description:    description,
		ActorID:        actor.ID,
		Notes:          notes,
		CreatedAt:      now,
	}
}

// loadDistribution obtiene el agregado o NotFoundError.
func loadDistribution(ctx context.Context, repo repository.DistributionRepository, id string) (*entity.Distribution, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "el id de la distribución es obligatorio")
	}
	d, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &domain.NotFoundError{Resource: "distribution", ID: id}
	}
	return d, nil
}

// resolveConflict traduce la pérdida de una carrera optimista: si el estado almacenado ya no es el
// estado de origen de la acción, el perdedor recibe IllegalTransitionError como cualquier otro intento tardío.
func resolveConflict(ctx context.Context, repo repository.DistributionRepository, err error, id string, from entity.DistributionStatus, action string) error {
	if !errors.Is(err, domain.ErrConflict) {
		return err
	}
	current, gerr := repo.GetByID(ctx, id)
	if gerr != nil || current == nil {
		return err
	}
	if current.Status != from {
		return &domain.IllegalTransitionError{From: current.Status, Action: action}
	}
	return err
}

// outcomeOf clasifica un error para métricas.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrIllegalTransition):
		return OutcomeIllegal
	case errors.Is(err, domain.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, domain.ErrDiscrepancyConfirmationRequired):
		return OutcomeConfirmationRequired
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		return OutcomeInvalid
	}
	return OutcomeError
}
