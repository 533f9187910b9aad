package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// Verdict veredicto enviado por una parte para un documento de la distribución.
type Verdict struct {
	DocumentType entity.DocumentType
	DocumentID   string
	Status       entity.VerificationStatus
	Notes        string
}

func (v Verdict) ref() entity.DocumentRef {
	return entity.DocumentRef{Type: v.DocumentType, ID: v.DocumentID}
}

// NormalizeVerdicts valida la forma del envío antes de tocar el agregado:
// veredicto vacío se toma como verified, los valores deben ser conocidos,
// todo veredicto distinto de verified exige notas y no puede haber documentos repetidos.
func NormalizeVerdicts(verdicts []Verdict) ([]Verdict, error) {
	if len(verdicts) == 0 {
		return nil, domain.NewValidationError("documents", "se requiere un veredicto por documento")
	}
	out := make([]Verdict, 0, len(verdicts))
	seen := make(map[entity.DocumentRef]bool, len(verdicts))
	for i, v := range verdicts {
		v.Notes = strings.TrimSpace(v.Notes)
		if v.Status == "" {
			v.Status = entity.VerificationVerified
		}
		if !v.DocumentType.Valid() || v.DocumentID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("documents[%d]", i), "tipo o id de documento inválido")
		}
		if !v.Status.Valid() {
			return nil, domain.NewValidationError(fmt.Sprintf("documents[%d].status", i), "estado de verificación desconocido %q", v.Status)
		}
		if v.Status != entity.VerificationVerified && v.Notes == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("documents[%d].notes", i),
				"las notas son obligatorias cuando el documento se marca como %s", v.Status)
		}
		if seen[v.ref()] {
			return nil, domain.NewValidationError(fmt.Sprintf("documents[%d]", i), "documento repetido %s/%s", v.DocumentType, v.DocumentID)
		}
		seen[v.ref()] = true
		out = append(out, v)
	}
	return out, nil
}

// matchVerdicts asocia cada enlace de la distribución con su veredicto.
// Todos los enlaces deben recibir veredicto y no se aceptan documentos ajenos a la distribución.
func matchVerdicts(d *entity.Distribution, verdicts []Verdict) ([]Verdict, error) {
	byLink := make([]Verdict, len(d.Documents))
	covered := make([]bool, len(d.Documents))
	for _, v := range verdicts {
		idx := d.FindLink(v.ref())
		if idx < 0 {
			return nil, domain.NewValidationError("documents", "el documento %s/%s no pertenece a la distribución", v.DocumentType, v.DocumentID)
		}
		byLink[idx] = v
		covered[idx] = true
	}
	var missing []string
	for i, ok := range covered {
		if !ok {
			missing = append(missing, string(d.Documents[i].DocumentType)+"/"+d.Documents[i].DocumentID)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("documents", "faltan veredictos para: %s", strings.Join(missing, ", "))
	}
	return byLink, nil
}

// CheckSenderVerdicts exige que cada enlace esté confirmado explícitamente como verified.
// El remitente no tiene los estados missing/damaged.
func CheckSenderVerdicts(d *entity.Distribution, verdicts []Verdict) error {
	if len(d.Documents) == 0 {
		return domain.NewValidationError("documents", "la distribución no tiene documentos para verificar")
	}
	byLink, err := matchVerdicts(d, verdicts)
	if err != nil {
		return err
	}
	for _, v := range byLink {
		if v.Status != entity.VerificationVerified {
			return domain.NewValidationError("documents", "el remitente solo puede confirmar documentos como verified (%s/%s=%s)",
				v.DocumentType, v.DocumentID, v.Status)
		}
	}
	return nil
}

// ApplySenderVerification marca todos los enlaces como verificados por el remitente y avanza el estado.
func ApplySenderVerification(d *entity.Distribution, t Transition, actor entity.Actor, notes string, now time.Time) {
	for i := range d.Documents {
		d.Documents[i].SenderVerified = true
	}
	d.SenderVerificationNotes = strings.TrimSpace(notes)
	ApplyTransition(d, t, actor, now)
}

// EvaluateReceiverVerdicts revisa que todos los enlaces tengan veredicto y devuelve las discrepancias
// (veredictos missing o damaged) en el orden de los enlaces.
func EvaluateReceiverVerdicts(d *entity.Distribution, verdicts []Verdict) ([]entity.Discrepancy, error) {
	if len(d.Documents) == 0 {
		return nil, domain.NewValidationError("documents", "la distribución no tiene documentos para verificar")
	}
	byLink, err := matchVerdicts(d, verdicts)
	if err != nil {
		return nil, err
	}
	var out []entity.Discrepancy
	for _, v := range byLink {
		if v.Status != entity.VerificationVerified {
			out = append(out, entity.Discrepancy{
				DocumentType: v.DocumentType,
				DocumentID:   v.DocumentID,
				Status:       v.Status,
				Notes:        v.Notes,
			})
		}
	}
	return out, nil
}

// ApplyReceiverVerification registra el veredicto de cada enlace y avanza el estado.
// Con discrepancias la distribución queda marcada de forma permanente.
func ApplyReceiverVerification(d *entity.Distribution, t Transition, actor entity.Actor, verdicts []Verdict, notes string, now time.Time) {
	for _, v := range verdicts {
		idx := d.FindLink(v.ref())
		if idx < 0 {
			continue
		}
		link := &d.Documents[idx]
		link.ReceiverVerified = true
		link.VerificationStatus = v.Status
		link.VerificationNotes = v.Notes
		if v.Status != entity.VerificationVerified {
			d.HasDiscrepancies = true
		}
	}
	d.ReceiverVerificationNotes = strings.TrimSpace(notes)
	ApplyTransition(d, t, actor, now)
}

// DiscrepancySummary texto del historial para una verificación confirmada con discrepancias.
func DiscrepancySummary(discrepancies []entity.Discrepancy) string {
	if len(discrepancies) == 0 {
		return "Verificación del receptor: todos los documentos recibidos conformes"
	}
	var missing, damaged int
	parts := make([]string, 0, len(discrepancies))
	for _, d := range discrepancies {
		switch d.Status {
		case entity.VerificationMissing:
			missing++
		case entity.VerificationDamaged:
			damaged++
		}
		parts = append(parts, fmt.Sprintf("%s/%s %s: %s", d.DocumentType, d.DocumentID, d.Status, d.Notes))
	}
	return fmt.Sprintf("Verificación del receptor confirmada con discrepancias (%d faltante(s), %d dañado(s)): %s",
		missing, damaged, strings.Join(parts, "; "))
}
