// internal/sources/anubisdb/anubisdb.go
package anubisdb

import (
	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "anubisdb"

// Meta describe la fuente AnubisDB.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "AnubisDB subdomain index (jldc.me)",
	Tier:        domain.TierFree,
}

// Register añade AnubisDB al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente AnubisDB. La respuesta es un array JSON de nombres.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://jldc.me",
		Path: func(host domain.Host, _ common.Credentials) string {
			return "/anubis/subdomains/" + host.String()
		},
		Parse: common.StringList,
	}, opts)
}
