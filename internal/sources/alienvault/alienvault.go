// internal/sources/alienvault/alienvault.go
package alienvault

import (
	"fmt"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "alienvault"

// Meta describe la fuente AlienVault OTX.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "AlienVault OTX passive DNS",
	Tier:        domain.TierFree,
}

// Register añade AlienVault al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente AlienVault.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://otx.alienvault.com",
		Path: func(host domain.Host, _ common.Credentials) string {
			return fmt.Sprintf("/api/v1/indicators/domain/%s/passive_dns", host)
		},
		Parse: parse,
	}, opts)
}

type passiveDNSResponse struct {
	PassiveDNS []struct {
		Hostname string `json:"hostname"`
		Address  string `json:"address"`
	} `json:"passive_dns"`
}

func parse(body []byte, _ domain.Host) ([]string, error) {
	var resp passiveDNSResponse
	if err := common.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.PassiveDNS))
	for _, r := range resp.PassiveDNS {
		names = append(names, r.Hostname)
	}
	return names, nil
}
