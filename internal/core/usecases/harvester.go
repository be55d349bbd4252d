// internal/core/usecases/harvester.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/logx"
)

// SourceBuilder construye la lista de fuentes para un modo.
type SourceBuilder interface {
	Build(mode domain.RunMode) ([]ports.Source, error)
}

// SourceBuilderFunc adapta una función a SourceBuilder.
type SourceBuilderFunc func(mode domain.RunMode) ([]ports.Source, error)

// Build implementa SourceBuilder.
func (f SourceBuilderFunc) Build(mode domain.RunMode) ([]ports.Source, error) { return f(mode) }

// Harvester es el punto de entrada del batch: selecciona las fuentes una vez,
// ejecuta el scheduler y fusiona el resultado.
type Harvester struct {
	builder       SourceBuilder
	concurrency   int
	sourceTimeout time.Duration
	unique        bool
	notifier      ports.Notifier
	logger        logx.Logger

	lastStats Stats
}

// HarvesterOptions configura el harvester.
type HarvesterOptions struct {
	Builder       SourceBuilder
	Concurrency   int
	SourceTimeout time.Duration

	// Unique activa la deduplicación global del resultado
	Unique   bool
	Notifier ports.Notifier
	Logger   logx.Logger
}

// NewHarvester crea un nuevo harvester.
func NewHarvester(opts HarvesterOptions) *Harvester {
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}
	if opts.Notifier == nil {
		opts.Notifier = ports.NopNotifier{}
	}
	return &Harvester{
		builder:       opts.Builder,
		concurrency:   opts.Concurrency,
		sourceTimeout: opts.SourceTimeout,
		unique:        opts.Unique,
		notifier:      opts.Notifier,
		logger:        opts.Logger,
	}
}

// Run enumera los subdominios de todos los hosts con las fuentes del modo.
// Solo falla si el modo es inválido o no hay fuentes; los fallos de proveedores
// nunca llegan aquí.
func (h *Harvester) Run(ctx context.Context, hosts []domain.Host, mode domain.RunMode) ([]string, error) {
	if h.builder == nil {
		return nil, fmt.Errorf("%w: no source builder", domain.ErrNoSourcesAvailable)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRunMode, mode)
	}

	sources, err := h.builder.Build(mode)
	if err != nil {
		return nil, err
	}

	scheduler := NewScheduler(SchedulerOptions{
		Sources:     sources,
		Concurrency: h.concurrency,
		Aggregator: NewAggregator(AggregatorOptions{
			Logger:        h.logger,
			Notifier:      h.notifier,
			SourceTimeout: h.sourceTimeout,
		}),
		Notifier: h.notifier,
		Logger:   h.logger,
	})

	sets, stats := scheduler.Run(ctx, hosts)
	h.lastStats = stats

	if h.unique {
		return MergeUnique(sets), nil
	}
	return Merge(sets), nil
}

// LastStats retorna las estadísticas del último Run.
func (h *Harvester) LastStats() Stats {
	return h.lastStats
}
