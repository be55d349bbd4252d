// internal/core/ports/source.go
package ports

import (
	"context"

	"subharvest/internal/core/domain"
	"subharvest/internal/platform/httpclient"
	"subharvest/internal/platform/logx"
)

// Source es el port primario para todos los proveedores de subdominios.
// Cada invocación de Fetch termina en exactamente un resultado: un set
// (posiblemente vacío) o un error que envuelve la taxonomía de platform/errors.
// Las implementaciones deben ser seguras para invocaciones concurrentes con
// hosts distintos y no deben compartir estado mutable entre ellas.
type Source interface {
	// Name retorna el nombre único del proveedor (ej: "crtsh", "binaryedge")
	Name() string

	// Fetch consulta el proveedor para un host y retorna los nombres en scope
	Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error)
}

// SourceMetadata contiene metadatos sobre una fuente.
type SourceMetadata struct {
	Name         string
	Description  string
	Tier         domain.Tier
	RequiresAuth bool

	// CredentialEnv variables de entorno de las que se leen las credenciales
	CredentialEnv []string

	// RateLimit límite recomendado de requests/segundo (0 = sin límite)
	RateLimit float64
}

// SourceOptions es lo que recibe una factory al construir una fuente.
type SourceOptions struct {
	// Client cliente HTTP compartido (timeouts, retries, cache, proxy)
	Client *httpclient.Client

	// Credentials valores de las variables listadas en CredentialEnv
	Credentials map[string]string

	// BaseURL sustituye el endpoint por defecto (tests, mirrors)
	BaseURL string

	// MaxPages techo de páginas para fuentes paginadas (0 = default de la fuente)
	MaxPages int

	// PageWorkers páginas pedidas en paralelo tras la primera
	PageWorkers int

	Logger logx.Logger
}

// Credential retorna el valor de una credencial o "" si no está configurada.
func (o SourceOptions) Credential(env string) string {
	if o.Credentials == nil {
		return ""
	}
	return o.Credentials[env]
}

// SourceFactory es una función que crea una instancia de Source.
type SourceFactory func(opts SourceOptions) (Source, error)
