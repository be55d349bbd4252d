// internal/core/usecases/host_task.go
package usecases

import (
	"context"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
)

// HostTask adapta la agregación de un host a workerpool.Task.
type HostTask struct {
	host       domain.Host
	sources    []ports.Source
	aggregator *Aggregator

	// Resultado de la ejecución
	result domain.SubdomainSet
}

// NewHostTask crea una nueva HostTask.
func NewHostTask(host domain.Host, sources []ports.Source, aggregator *Aggregator) *HostTask {
	return &HostTask{
		host:       host,
		sources:    sources,
		aggregator: aggregator,
	}
}

// Execute agrega todas las fuentes para el host. Nunca retorna error:
// los fallos de fuentes se absorben en la agregación.
func (ht *HostTask) Execute(ctx context.Context) error {
	ht.result = ht.aggregator.Aggregate(ctx, ht.host, ht.sources)
	return nil
}

// Name retorna el nombre de la tarea (el host).
func (ht *HostTask) Name() string {
	return ht.host.String()
}

// Host retorna el host de la tarea.
func (ht *HostTask) Host() domain.Host {
	return ht.host
}

// Result retorna el set agregado; nil si la tarea no llegó a ejecutarse.
func (ht *HostTask) Result() domain.SubdomainSet {
	return ht.result
}
