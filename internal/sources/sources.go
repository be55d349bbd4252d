// Package sources registra todos los proveedores de subdominios.
package sources

import (
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/alienvault"
	"subharvest/internal/sources/anubisdb"
	"subharvest/internal/sources/binaryedge"
	"subharvest/internal/sources/c99"
	"subharvest/internal/sources/certspotter"
	"subharvest/internal/sources/crtsh"
	"subharvest/internal/sources/hackertarget"
	"subharvest/internal/sources/passivetotal"
	"subharvest/internal/sources/sublister"
	"subharvest/internal/sources/threatminer"
	"subharvest/internal/sources/urlscan"
	"subharvest/internal/sources/wayback"
)

// registrars en orden de invocación.
var registrars = []func(*registry.SourceRegistry) error{
	anubisdb.Register,
	binaryedge.Register,
	alienvault.Register,
	certspotter.Register,
	crtsh.Register,
	urlscan.Register,
	threatminer.Register,
	sublister.Register,
	wayback.Register,
	c99.Register,
	passivetotal.Register,
	hackertarget.Register,
}

// RegisterAll registra cada proveedor en r. Falla en el primer error.
func RegisterAll(r *registry.SourceRegistry) error {
	for _, register := range registrars {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}
