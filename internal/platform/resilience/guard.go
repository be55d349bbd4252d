// internal/platform/resilience/guard.go
package resilience

import (
	"context"
	"math"
	"time"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/logx"
)

// GuardConfig configura el decorador de resiliencia de una fuente.
type GuardConfig struct {
	// MaxRetries reintentos tras fallos de disponibilidad (0 = sin reintentos)
	MaxRetries int

	// BackoffBase espera antes del primer reintento; crece x2 por intento
	BackoffBase time.Duration

	// MaxBackoff techo del backoff
	MaxBackoff time.Duration

	// Breaker circuit breaker compartido entre hosts (nil = desactivado).
	// Abierto, la fuente deja de consultarse para los hosts siguientes.
	Breaker *CircuitBreaker
}

// Guard envuelve una ports.Source con circuit breaker y reintentos.
// Solo los fallos ErrProviderUnavailable se reintentan y cuentan para el
// breaker: un payload malformado o una credencial ausente no mejoran
// repitiendo la llamada.
type Guard struct {
	source ports.Source
	cfg    GuardConfig
	logger logx.Logger
}

// NewGuard crea un Guard alrededor de source.
func NewGuard(source ports.Source, cfg GuardConfig, logger logx.Logger) *Guard {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if logger == nil {
		logger = logx.NewSilent()
	}

	return &Guard{
		source: source,
		cfg:    cfg,
		logger: logger.With("component", "guard", "source", source.Name()),
	}
}

// Name retorna el nombre de la fuente subyacente.
func (g *Guard) Name() string {
	return g.source.Name()
}

// Unwrap retorna la fuente subyacente.
func (g *Guard) Unwrap() ports.Source {
	return g.source
}

// Breaker retorna el circuit breaker (puede ser nil).
func (g *Guard) Breaker() *CircuitBreaker {
	return g.cfg.Breaker
}

// Fetch ejecuta la fuente aplicando breaker y reintentos.
func (g *Guard) Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error) {
	cb := g.cfg.Breaker
	if cb != nil && !cb.Allow() {
		return nil, errors.Wrapf(errors.Join(errors.ErrCircuitOpen, errors.ErrProviderUnavailable),
			"%s skipped", g.source.Name())
	}

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := g.backoff(attempt - 1)
			g.logger.Debug("retrying source", "host", host.String(), "attempt", attempt, "delay_ms", delay.Milliseconds())

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				g.record(lastErr)
				return nil, errors.Unavailable(ctx.Err(), "canceled during backoff")
			case <-timer.C:
			}
		}

		set, err := g.source.Fetch(ctx, host)
		if err == nil {
			if cb != nil {
				cb.RecordSuccess()
			}
			return set, nil
		}

		lastErr = err
		if !errors.IsUnavailable(err) || ctx.Err() != nil {
			break
		}
	}

	g.record(lastErr)
	return nil, lastErr
}

func (g *Guard) record(err error) {
	if g.cfg.Breaker == nil {
		return
	}
	if errors.IsUnavailable(err) {
		g.cfg.Breaker.RecordFailure()
		if g.cfg.Breaker.State() == StateOpen {
			g.logger.Warn("circuit opened", "error", err.Error())
		}
		return
	}
	// Un fallo que no es de disponibilidad prueba que el proveedor responde
	g.cfg.Breaker.RecordSuccess()
}

// backoff calcula el delay exponencial: base * 2^attempt, con techo.
func (g *Guard) backoff(attempt int) time.Duration {
	d := time.Duration(float64(g.cfg.BackoffBase) * math.Pow(2, float64(attempt)))
	if d > g.cfg.MaxBackoff || d <= 0 {
		d = g.cfg.MaxBackoff
	}
	return d
}
