// internal/core/ports/notifier.go
package ports

import "time"

// Notifier es el port para notificaciones de progreso del batch.
// Desacopla la agregación de la presentación (terminal, logs).
// Las implementaciones deben ser seguras para uso concurrente: los eventos
// llegan desde todas las goroutines de host y de fuente.
type Notifier interface {
	// Notify recibe un evento; no debe bloquear
	Notify(event Event)
}

// EventType define los tipos de eventos del batch.
type EventType string

const (
	EventTypeHostStarted    EventType = "host.started"
	EventTypeHostCompleted  EventType = "host.completed"
	EventTypeSourceFailed   EventType = "source.failed"
	EventTypeBatchCompleted EventType = "batch.completed"
)

// Event representa un evento del batch.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Host afectado (vacío en batch.completed)
	Host string

	// Source proveedor afectado (solo source.failed)
	Source string

	// Count subdominios del host, o total de hosts en batch.completed
	Count int

	// Err causa del fallo (solo source.failed)
	Err error
}

// NewEvent crea un nuevo evento con timestamp actual.
func NewEvent(eventType EventType, host string) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Host:      host,
	}
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(Event)

// Notify implementa Notifier.
func (f NotifierFunc) Notify(e Event) { f(e) }

// NopNotifier descarta todos los eventos.
type NopNotifier struct{}

// Notify implementa Notifier.
func (NopNotifier) Notify(Event) {}
