// internal/sources/threatminer/threatminer.go
package threatminer

import (
	"fmt"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "threatminer"

// Meta describe la fuente ThreatMiner.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "ThreatMiner domain subdomains report (rt=5)",
	Tier:        domain.TierFree,
	RateLimit:   0.15, // 10 req/min documentados
}

// Register añade ThreatMiner al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente ThreatMiner.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://api.threatminer.org",
		Path: func(host domain.Host, _ common.Credentials) string {
			return fmt.Sprintf("/v2/domain.php?q=%s&rt=5", host)
		},
		Parse: parse,
	}, opts)
}

type response struct {
	StatusCode    string   `json:"status_code"`
	StatusMessage string   `json:"status_message"`
	Results       []string `json:"results"`
}

// parse interpreta status_code: "200" con resultados, "404" sin resultados.
func parse(body []byte, _ domain.Host) ([]string, error) {
	var resp response
	if err := common.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case "200":
		return resp.Results, nil
	case "404":
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "status_code %q: %s", resp.StatusCode, resp.StatusMessage)
	}
}
