// internal/platform/registry/source_registry.go
package registry

import (
	"fmt"
	"sync"
	"time"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/cache"
	"subharvest/internal/platform/httpclient"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/resilience"
)

// SourceRegistry gestiona el registro y construcción de sources.
// Se construye en el arranque y se pasa explícitamente; no hay instancia global.
// El orden de registro es el orden de invocación de la lista construida.
type SourceRegistry struct {
	mu        sync.RWMutex
	order     []string
	factories map[string]ports.SourceFactory
	metadata  map[string]ports.SourceMetadata
	logger    logx.Logger
}

// SourceSettings ajustes por fuente que vienen de la configuración.
type SourceSettings struct {
	// Disabled excluye la fuente de la lista aunque el modo la incluya
	Disabled bool

	// RateLimit sustituye el límite recomendado de la metadata (0 = usar metadata)
	RateLimit float64

	// BaseURL sustituye el endpoint por defecto
	BaseURL string
}

// GuardOptions configura el decorador de resiliencia de cada fuente.
type GuardOptions struct {
	MaxRetries       int
	Backoff          time.Duration
	BreakerThreshold int // 0 = sin circuit breaker
	BreakerTimeout   time.Duration
}

// BuildOptions contiene todo lo que Build necesita para instanciar fuentes.
type BuildOptions struct {
	// HTTP configuración base del cliente; cada fuente recibe su propio cliente
	// con su rate limit
	HTTP httpclient.Config

	// CacheCapacity entradas de la cache de respuestas compartida (0 = sin cache)
	CacheCapacity int

	Settings    map[string]SourceSettings
	Credentials map[string]string
	MaxPages    int
	PageWorkers int
	Guard       GuardOptions
	Logger      logx.Logger
}

// NewSourceRegistry crea un nuevo registry de sources.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &SourceRegistry{
		factories: make(map[string]ports.SourceFactory),
		metadata:  make(map[string]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register registra una source factory con su metadata.
func (r *SourceRegistry) Register(name string, factory ports.SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}

	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	if meta.Name == "" {
		meta.Name = name
	}
	if !meta.Tier.IsValid() {
		return fmt.Errorf("source %s has invalid tier %q", name, meta.Tier)
	}

	r.order = append(r.order, name)
	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name, "tier", meta.Tier)

	return nil
}

// ForMode retorna la metadata de las fuentes que el modo incluye, en orden de registro.
func (r *SourceRegistry) ForMode(mode domain.RunMode) []ports.SourceMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var metas []ports.SourceMetadata
	for _, name := range r.order {
		meta := r.metadata[name]
		if mode.Includes(meta.Tier) {
			metas = append(metas, meta)
		}
	}
	return metas
}

// Build construye la lista de fuentes para el modo, cada una envuelta en un
// resilience.Guard. Una fuente con credencial ausente se construye igualmente:
// su Fetch fallará con ErrCredentialMissing sin abortar el batch.
func (r *SourceRegistry) Build(mode domain.RunMode, opts BuildOptions) ([]ports.Source, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRunMode, mode)
	}

	logger := opts.Logger
	if logger == nil {
		logger = r.logger
	}

	var shared cache.Cache[[]byte]
	if opts.CacheCapacity > 0 {
		shared = cache.NewMemoryCache[[]byte](opts.CacheCapacity)
	}

	metas := r.ForMode(mode)
	sources := make([]ports.Source, 0, len(metas))

	for _, meta := range metas {
		settings := opts.Settings[meta.Name]
		if settings.Disabled {
			logger.Debug("source disabled by config", "source", meta.Name)
			continue
		}

		src, err := r.buildOne(meta, settings, shared, opts, logger)
		if err != nil {
			logger.Warn("source build error", "source", meta.Name, "error", err.Error())
			continue
		}

		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSourcesAvailable, mode)
	}

	logger.Debug("sources built", "mode", mode.String(), "count", len(sources))
	return sources, nil
}

func (r *SourceRegistry) buildOne(meta ports.SourceMetadata, settings SourceSettings, shared cache.Cache[[]byte], opts BuildOptions, logger logx.Logger) (ports.Source, error) {
	r.mu.RLock()
	factory := r.factories[meta.Name]
	r.mu.RUnlock()

	httpCfg := opts.HTTP
	httpCfg.RateLimit = meta.RateLimit
	if settings.RateLimit > 0 {
		httpCfg.RateLimit = settings.RateLimit
	}
	httpCfg.Cache = shared

	srcLogger := logger.With("source", meta.Name)
	client, err := httpclient.New(httpCfg, srcLogger)
	if err != nil {
		return nil, err
	}

	creds := make(map[string]string, len(meta.CredentialEnv))
	for _, env := range meta.CredentialEnv {
		if v := opts.Credentials[env]; v != "" {
			creds[env] = v
		} else {
			logger.Debug("credential not configured", "source", meta.Name, "env", env)
		}
	}

	src, err := factory(ports.SourceOptions{
		Client:      client,
		Credentials: creds,
		BaseURL:     settings.BaseURL,
		MaxPages:    opts.MaxPages,
		PageWorkers: opts.PageWorkers,
		Logger:      srcLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build source %s: %w", meta.Name, err)
	}

	var breaker *resilience.CircuitBreaker
	if opts.Guard.BreakerThreshold > 0 {
		breaker = resilience.NewCircuitBreaker(opts.Guard.BreakerThreshold, opts.Guard.BreakerTimeout, 1)
	}

	return resilience.NewGuard(src, resilience.GuardConfig{
		MaxRetries:  opts.Guard.MaxRetries,
		BackoffBase: opts.Guard.Backoff,
		Breaker:     breaker,
	}, srcLogger), nil
}

// List retorna los nombres de todas las sources registradas, en orden de registro.
func (r *SourceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// GetMetadata retorna el metadata de una source.
func (r *SourceRegistry) GetMetadata(name string) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered verifica si una source está registrada.
func (r *SourceRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}
