package entity

import "time"

// Acciones registradas en el historial de una distribución.
const (
	HistoryActionCreated          = "created"
	HistoryActionUpdated          = "updated"
	HistoryActionDocumentRemoved  = "document_removed"
	HistoryActionSenderVerified   = "sender_verified"
	HistoryActionSent             = "sent"
	HistoryActionReceived         = "received"
	HistoryActionReceiverVerified = "receiver_verified"
	HistoryActionCompleted        = "completed"
)

// HistoryEntry registro inmutable del historial (solo se agrega, nunca se edita ni se borra).
type HistoryEntry struct {
	ID             string
	DistributionID string
	Action         string
	Description    string
	ActorID        string // vacío en entradas generadas por el sistema
	Notes          string
	Discrepancy    bool
	CreatedAt      time.Time
}
