// internal/sources/urlscan/urlscan.go
package urlscan

import (
	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "urlscan"

// Meta describe la fuente urlscan.io.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "urlscan.io public search",
	Tier:        domain.TierFree,
}

// Register añade urlscan.io al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente urlscan.io.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://urlscan.io",
		Path: func(host domain.Host, _ common.Credentials) string {
			return "/api/v1/search/?q=domain:" + host.String()
		},
		Parse: parse,
	}, opts)
}

type searchResponse struct {
	Results []struct {
		Task struct {
			Domain string `json:"domain"`
		} `json:"task"`
		Page struct {
			Domain string `json:"domain"`
		} `json:"page"`
	} `json:"results"`
}

// parse toma el dominio de la tarea y el de la página final (puede haber redirección).
func parse(body []byte, _ domain.Host) ([]string, error) {
	var resp searchResponse
	if err := common.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, 2*len(resp.Results))
	for _, r := range resp.Results {
		names = append(names, r.Task.Domain, r.Page.Domain)
	}
	return names, nil
}
