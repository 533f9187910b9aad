package workflow

import (
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// Action acción del ciclo de vida de una distribución.
type Action string

// Acciones de la tabla de transiciones.
const (
	ActionVerifySender   Action = "verify_sender"
	ActionSend           Action = "send"
	ActionReceive        Action = "receive"
	ActionVerifyReceiver Action = "verify_receiver"
	ActionComplete       Action = "complete"
)

// Party parte de la distribución que debe ejecutar una acción.
type Party int

const (
	PartyOrigin Party = iota
	PartyDestination
)

// Transition fila de la tabla de transiciones.
type Transition struct {
	Action        Action
	From          entity.DistributionStatus
	To            entity.DistributionStatus
	Party         Party
	HistoryAction string
}

var transitions = map[Action]Transition{
	ActionVerifySender:   {ActionVerifySender, entity.StatusDraft, entity.StatusVerifiedBySender, PartyOrigin, entity.HistoryActionSenderVerified},
	ActionSend:           {ActionSend, entity.StatusVerifiedBySender, entity.StatusSent, PartyOrigin, entity.HistoryActionSent},
	ActionReceive:        {ActionReceive, entity.StatusSent, entity.StatusReceived, PartyDestination, entity.HistoryActionReceived},
	ActionVerifyReceiver: {ActionVerifyReceiver, entity.StatusReceived, entity.StatusVerifiedByReceiver, PartyDestination, entity.HistoryActionReceiverVerified},
	ActionComplete:       {ActionComplete, entity.StatusVerifiedByReceiver, entity.StatusCompleted, PartyDestination, entity.HistoryActionCompleted},
}

// TransitionFor devuelve la fila de la tabla para la acción.
func TransitionFor(a Action) (Transition, bool) {
	t, ok := transitions[a]
	return t, ok
}

// AvailableActions acciones que el actor podría ejecutar sobre la distribución en su estado actual.
func AvailableActions(d *entity.Distribution, actor entity.Actor) []Action {
	var out []Action
	for _, a := range []Action{ActionVerifySender, ActionSend, ActionReceive, ActionVerifyReceiver, ActionComplete} {
		if _, err := CheckTransition(d, a, actor); err == nil {
			out = append(out, a)
		}
	}
	return out
}

// RequiredDepartment departamento cuyos miembros pueden actuar como la parte indicada.
func RequiredDepartment(d *entity.Distribution, p Party) string {
	if p == PartyDestination {
		return d.DestinationDepartmentID
	}
	return d.OriginDepartmentID
}

// CheckTransition valida, sin modificar nada, que la acción sea legal desde el estado actual
// y que el actor pertenezca al departamento requerido. El estado se revisa primero.
func CheckTransition(d *entity.Distribution, a Action, actor entity.Actor) (Transition, error) {
	t, ok := transitions[a]
	if !ok || d.Status != t.From {
		return Transition{}, &domain.IllegalTransitionError{From: d.Status, Action: string(a)}
	}
	required := RequiredDepartment(d, t.Party)
	if actor.ID == "" || actor.DepartmentID == "" || actor.DepartmentID != required {
		return Transition{}, &domain.UnauthorizedError{
			ActorID:              actor.ID,
			ActorDepartmentID:    actor.DepartmentID,
			RequiredDepartmentID: required,
			Action:               string(a),
		}
	}
	return t, nil
}

// ApplyTransition avanza el estado y fija, una única vez, la marca de tiempo y el actor del paso.
// Debe llamarse solo después de CheckTransition.
func ApplyTransition(d *entity.Distribution, t Transition, actor entity.Actor, now time.Time) {
	d.Status = t.To
	d.UpdatedAt = now
	switch t.Action {
	case ActionVerifySender:
		setOnce(&d.SenderVerifiedAt, now)
		if d.SenderVerifier == "" {
			d.SenderVerifier = actor.ID
		}
	case ActionSend:
		setOnce(&d.SentAt, now)
	case ActionReceive:
		setOnce(&d.ReceivedAt, now)
	case ActionVerifyReceiver:
		setOnce(&d.ReceiverVerifiedAt, now)
		if d.ReceiverVerifier == "" {
			d.ReceiverVerifier = actor.ID
		}
	case ActionComplete:
		setOnce(&d.CompletedAt, now)
	}
}

func setOnce(dst **time.Time, now time.Time) {
	if *dst != nil {
		return
	}
	t := now
	*dst = &t
}
