// internal/sources/sublister/sublister.go
package sublister

import (
	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "sublister"

// Meta describe la fuente Sublist3r.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "Sublist3r public search API",
	Tier:        domain.TierFree,
}

// Register añade Sublist3r al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente Sublist3r.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://api.sublist3r.com",
		Path: func(host domain.Host, _ common.Credentials) string {
			return "/search.php?domain=" + host.String()
		},
		Parse: parse,
	}, opts)
}

// parse acepta el array de nombres; el API responde "null" cuando no hay datos.
func parse(body []byte, host domain.Host) ([]string, error) {
	return common.StringList(body, host)
}
