// internal/core/usecases/aggregator.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/logx"
)

// Aggregator invoca todas las fuentes para un host en paralelo, espera a que
// todas terminen (join completo, sin cancelación temprana) y une los sets de
// las que tuvieron éxito. Los fallos se registran y se descartan.
type Aggregator struct {
	logger        logx.Logger
	notifier      ports.Notifier
	sourceTimeout time.Duration
}

// AggregatorOptions configura el aggregator.
type AggregatorOptions struct {
	Logger   logx.Logger
	Notifier ports.Notifier

	// SourceTimeout límite por invocación de fuente (0 = solo el del contexto)
	SourceTimeout time.Duration
}

// NewAggregator crea un nuevo aggregator.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}
	if opts.Notifier == nil {
		opts.Notifier = ports.NopNotifier{}
	}
	return &Aggregator{
		logger:        opts.Logger.With("component", "aggregator"),
		notifier:      opts.Notifier,
		sourceTimeout: opts.SourceTimeout,
	}
}

// Aggregate retorna la unión de los resultados exitosos de sources para host.
// Un set vacío es un resultado válido (todas las fuentes fallaron o nada encontrado).
func (a *Aggregator) Aggregate(ctx context.Context, host domain.Host, sources []ports.Source) domain.SubdomainSet {
	outcomes := a.Outcomes(ctx, host, sources)

	acc := domain.NewSubdomainSet()
	for _, o := range outcomes {
		if !o.Succeeded() {
			a.logger.Debug("source failed",
				"host", host.String(),
				"source", o.Source,
				"kind", errors.Classify(o.Err),
				"error", o.Err.Error(),
			)
			ev := ports.NewEvent(ports.EventTypeSourceFailed, host.String())
			ev.Source = o.Source
			ev.Err = o.Err
			a.notifier.Notify(ev)
			continue
		}
		acc.Union(o.Subdomains)
	}
	return acc
}

// Outcomes invoca cada fuente en su propio goroutine y retorna un Outcome por
// fuente, en el mismo orden que sources. Cada goroutine escribe solo en su
// posición del slice, así que no hace falta lock.
func (a *Aggregator) Outcomes(ctx context.Context, host domain.Host, sources []ports.Source) []domain.Outcome {
	outcomes := make([]domain.Outcome, len(sources))

	// Sin WithContext ni SetLimit: ningún goroutine retorna error, así que
	// un fallo nunca cancela a los demás y el número de fuentes es fijo.
	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			outcomes[i] = a.invoke(ctx, host, src)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// invoke ejecuta una fuente y convierte cualquier panic en un Outcome fallido.
func (a *Aggregator) invoke(ctx context.Context, host domain.Host, src ports.Source) (out domain.Outcome) {
	name := src.Name()
	defer func() {
		if r := recover(); r != nil {
			out = domain.Failure(name, errors.Wrap(errors.ErrSourcePanic, fmt.Sprintf("%s: %v", name, r)))
		}
	}()

	if a.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.sourceTimeout)
		defer cancel()
	}

	set, err := src.Fetch(ctx, host)
	if err != nil {
		return domain.Failure(name, err)
	}
	return domain.Success(name, set)
}
