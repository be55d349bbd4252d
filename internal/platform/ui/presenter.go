// internal/platform/ui/presenter.go
package ui

import (
	"time"

	"subharvest/internal/core/ports"
)

// Presenter presenta el progreso de un batch de hosts. Recibe los eventos del
// batch como ports.Notifier, así que debe ser seguro para uso concurrente.
type Presenter interface {
	ports.Notifier

	// Start inicia la presentación con información del batch
	Start(info RunInfo)

	// Finish finaliza la presentación con estadísticas finales
	Finish(stats RunStats)

	// Close limpia recursos del presenter
	Close() error
}

// RunInfo contiene información inicial del batch
type RunInfo struct {
	Hosts       int
	Mode        string
	Sources     []string
	Concurrency int
	TimeoutS    int
}

// RunStats contiene estadísticas finales del batch
type RunStats struct {
	Duration     time.Duration
	Hosts        int
	Completed    int
	Skipped      int
	PeakInFlight int
	Subdomains   int
}

// SourceSummary agrega los fallos de un proveedor durante el batch
type SourceSummary struct {
	Name     string
	Failures int
	ByKind   map[string]int
}

// Status resume el estado de un proveedor al final del batch.
func (s SourceSummary) Status(hosts int) Status {
	switch {
	case s.Failures == 0:
		return StatusSuccess
	case hosts > 0 && s.Failures >= hosts:
		return StatusError
	default:
		return StatusWarning
	}
}
