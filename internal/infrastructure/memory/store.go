// Package memory implementa los puertos de persistencia en memoria. Se usa para desarrollo
// local (STORAGE_DRIVER=memory) y como doble de pruebas de los casos de uso.
package memory

import (
	"context"
	"maps"
	"sync"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ appdist.TxRunner = (*Store)(nil)

// state datos mutables por transacción. Los valores guardados nunca se modifican en sitio:
// cada escritura reemplaza el puntero, por eso basta una copia superficial de los mapas.
type state struct {
	distributions map[string]*entity.Distribution
	history       map[string][]*entity.HistoryEntry
	invoices      map[string]*entity.InvoiceDocument
	additional    map[string]*entity.AdditionalDocument
}

func newState() *state {
	return &state{
		distributions: make(map[string]*entity.Distribution),
		history:       make(map[string][]*entity.HistoryEntry),
		invoices:      make(map[string]*entity.InvoiceDocument),
		additional:    make(map[string]*entity.AdditionalDocument),
	}
}

func (st *state) clone() *state {
	return &state{
		distributions: maps.Clone(st.distributions),
		history:       maps.Clone(st.history),
		invoices:      maps.Clone(st.invoices),
		additional:    maps.Clone(st.additional),
	}
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu          sync.RWMutex
	st          *state
	departments map[string]*entity.Department
	types       map[string]*entity.DistributionType
	users       map[string]*entity.User
	sequences   map[string]int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		st:          newState(),
		departments: make(map[string]*entity.Department),
		types:       make(map[string]*entity.DistributionType),
		users:       make(map[string]*entity.User),
		sequences:   make(map[string]int64),
	}
}

// view acceso al estado: fuera de una transacción toma el lock; dentro usa el estado en preparación
// (el lock de escritura ya lo tiene RunDistribution).
type view struct {
	s  *Store
	tx *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

// RunDistribution serializa las escrituras: ejecuta fn sobre una copia del estado y la publica
// solo si fn no devuelve error.
func (s *Store) RunDistribution(ctx context.Context, fn func(
	distRepo repository.DistributionRepository,
	historyRepo repository.HistoryRepository,
	locationRepo repository.DocumentLocationRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	v := view{s: s, tx: staged}
	if err := fn(&DistributionRepo{v: v}, &HistoryRepo{v: v}, &CatalogRepo{v: v}); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// Distributions repositorio de distribuciones fuera de transacción.
func (s *Store) Distributions() *DistributionRepo { return &DistributionRepo{v: view{s: s}} }

// History repositorio de historial fuera de transacción.
func (s *Store) History() *HistoryRepo { return &HistoryRepo{v: view{s: s}} }

// Catalog catálogo de documentos fuera de transacción.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{v: view{s: s}} }

// Departments repositorio de departamentos.
func (s *Store) Departments() *DepartmentRepo { return &DepartmentRepo{s: s} }

// DistributionTypes repositorio de tipos.
func (s *Store) DistributionTypes() *DistributionTypeRepo { return &DistributionTypeRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Sequences emisor de consecutivos.
func (s *Store) Sequences() *SequenceIssuer { return &SequenceIssuer{s: s} }

// PutDepartment registra o reemplaza un departamento.
func (s *Store) PutDepartment(d entity.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[d.ID] = &d
}

// PutDistributionType registra o reemplaza un tipo de distribución.
func (s *Store) PutDistributionType(t entity.DistributionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[t.ID] = &t
}

// PutUser registra o reemplaza un usuario.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// PutInvoice registra o reemplaza una factura. Solo se guardan los ids de los adjuntos;
// número y ubicación se leen siempre del documento adicional.
func (s *Store) PutInvoice(inv entity.InvoiceDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.Attachments = append([]entity.AttachedDocument(nil), inv.Attachments...)
	s.st.invoices[inv.ID] = &inv
}

// PutAdditionalDocument registra o reemplaza un documento adicional.
func (s *Store) PutAdditionalDocument(a entity.AdditionalDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.additional[a.ID] = &a
}
