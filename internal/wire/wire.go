// Package wire arma las dependencias compartidas por la API y la CLI: almacenamiento
// según STORAGE_DRIVER, consecutivos (Redis opcional) y casos de uso.
package wire

import (
	"context"
	"fmt"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Distribucion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Distribucion-api/internal/infrastructure/redis"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/xmlexport"
	"github.com/jhoicas/Distribucion-api/pkg/config"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// Storage puertos de persistencia resueltos.
type Storage struct {
	TxRunner          appdist.TxRunner
	Distributions     repository.DistributionRepository
	History           repository.HistoryRepository
	Departments       repository.DepartmentRepository
	DistributionTypes repository.DistributionTypeRepository
	Users             repository.UserRepository
	Catalog           repository.DocumentCatalog
	Sequences         repository.SequenceIssuer

	// Memory solo se llena con STORAGE_DRIVER=memory (permite sembrar datos).
	Memory *memory.Store

	health []func(ctx context.Context) error
	close  []func()
}

// MemoryStorage expone un store en memoria con la misma forma que los demás drivers.
func MemoryStorage(s *memory.Store) *Storage {
	return &Storage{
		TxRunner:          s,
		Distributions:     s.Distributions(),
		History:           s.History(),
		Departments:       s.Departments(),
		DistributionTypes: s.DistributionTypes(),
		Users:             s.Users(),
		Catalog:           s.Catalog(),
		Sequences:         s.Sequences(),
		Memory:            s,
	}
}

// Open abre el almacenamiento configurado. Con REDIS_URL los consecutivos salen de Redis.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	var st *Storage
	switch cfg.App.Storage {
	case config.StorageMemory:
		s := memory.NewStore()
		memory.SeedDemo(s)
		log.Warn().Msg("almacenamiento en memoria con datos de demostración; los cambios se pierden al reiniciar")
		st = MemoryStorage(s)
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		st = &Storage{
			TxRunner:          postgres.NewTxRunner(pool),
			Distributions:     postgres.NewDistributionRepository(pool),
			History:           postgres.NewHistoryRepository(pool),
			Departments:       postgres.NewDepartmentRepository(pool),
			DistributionTypes: postgres.NewDistributionTypeRepository(pool),
			Users:             postgres.NewUserRepository(pool),
			Catalog:           postgres.NewDocumentCatalog(pool),
			Sequences:         postgres.NewSequenceIssuer(pool),
			health:            []func(context.Context) error{pool.Ping},
			close:             []func(){pool.Close},
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido %q", cfg.App.Storage)
	}

	rc, err := infraredis.New(ctx, cfg.Redis)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("conexión a Redis: %w", err)
	}
	if rc != nil {
		st.Sequences = infraredis.NewSequenceIssuer(rc.Client, st.Distributions)
		st.health = append(st.health, rc.Health)
		st.close = append(st.close, func() { _ = rc.Close() })
		log.Info().Msg("numeración de distribuciones en Redis")
	}
	return st, nil
}

// Health revisa cada backend abierto.
func (s *Storage) Health(ctx context.Context) error {
	for _, check := range s.health {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close libera conexiones en orden inverso de apertura.
func (s *Storage) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// Services casos de uso del flujo de distribución.
type Services struct {
	Compose     *appdist.ComposeUseCase
	Workflow    *appdist.WorkflowUseCase
	Transmittal *appdist.TransmittalUseCase
}

// NewServices construye los casos de uso sobre el almacenamiento. metrics puede ser nil.
func NewServices(st *Storage, cfg *config.Config, metrics appdist.Metrics, log *logger.Logger) *Services {
	return &Services{
		Compose: appdist.NewComposeUseCase(
			st.TxRunner, st.Distributions, st.Departments, st.DistributionTypes, st.Catalog, st.Sequences, metrics, log.Component("compose"),
			appdist.ComposeOptions{
				NotesMaxLength: cfg.Distribution.NotesMaxLength,
				NumberPrefix:   cfg.Distribution.NumberPrefix,
			},
		),
		Workflow: appdist.NewWorkflowUseCase(st.TxRunner, st.Distributions, st.History, st.Departments, metrics, log.Component("workflow")),
		Transmittal: appdist.NewTransmittalUseCase(
			st.Distributions, st.Departments, st.DistributionTypes, st.Users, st.Catalog,
			infrapdf.NewMarotoTransmittalGenerator(cfg.App.Name),
			xmlexport.NewExporter(),
		),
	}
}
