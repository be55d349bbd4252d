// internal/sources/certspotter/certspotter.go
package certspotter

import (
	"fmt"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "certspotter"

// Meta describe la fuente Cert Spotter.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "SSLMate Cert Spotter issuances",
	Tier:        domain.TierFree,
}

// Register añade Cert Spotter al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente Cert Spotter.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://api.certspotter.com",
		Path: func(host domain.Host, _ common.Credentials) string {
			return fmt.Sprintf("/v1/issuances?domain=%s&include_subdomains=true&expand=dns_names", host)
		},
		Parse: parse,
	}, opts)
}

type issuance struct {
	DNSNames []string `json:"dns_names"`
}

func parse(body []byte, _ domain.Host) ([]string, error) {
	var issuances []issuance
	if err := common.DecodeJSON(body, &issuances); err != nil {
		return nil, err
	}

	var names []string
	for _, is := range issuances {
		names = append(names, is.DNSNames...)
	}
	return names, nil
}
