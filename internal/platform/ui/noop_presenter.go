// internal/platform/ui/noop_presenter.go
package ui

import "subharvest/internal/core/ports"

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Notify no hace nada
func (n *NoopPresenter) Notify(ports.Event) {}

// Start no hace nada
func (n *NoopPresenter) Start(RunInfo) {}

// Finish no hace nada
func (n *NoopPresenter) Finish(RunStats) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
