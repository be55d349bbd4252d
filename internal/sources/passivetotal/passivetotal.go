// internal/sources/passivetotal/passivetotal.go
package passivetotal

import (
	"encoding/base64"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const (
	name        = "passivetotal"
	usernameEnv = "PASSIVETOTAL_USERNAME"
	keyEnv      = "PASSIVETOTAL_KEY"
)

// Meta describe la fuente PassiveTotal.
var Meta = ports.SourceMetadata{
	Name:          name,
	Description:   "RiskIQ PassiveTotal subdomain enrichment",
	Tier:          domain.TierCredentialed,
	RequiresAuth:  true,
	CredentialEnv: []string{usernameEnv, keyEnv},
}

// Register añade PassiveTotal al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente PassiveTotal (basic auth usuario:clave).
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:        name,
		BaseURL:     "https://api.passivetotal.org",
		Credentials: []string{usernameEnv, keyEnv},
		Path: func(host domain.Host, _ common.Credentials) string {
			return "/v2/enrichment/subdomains?query=" + host.String()
		},
		Headers: func(creds common.Credentials) map[string]string {
			auth := creds.Get(usernameEnv) + ":" + creds.Get(keyEnv)
			return map[string]string{
				"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(auth)),
			}
		},
		Parse: parse,
	}, opts)
}

type response struct {
	Success    bool     `json:"success"`
	PrimaryDom string   `json:"primaryDomain"`
	Subdomains []string `json:"subdomains"`
}

// parse devuelve prefijos ("www"); se completan con el host.
func parse(body []byte, host domain.Host) ([]string, error) {
	var resp response
	if err := common.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Subdomains))
	for _, prefix := range resp.Subdomains {
		if prefix == "" {
			continue
		}
		names = append(names, prefix+"."+host.String())
	}
	return names, nil
}
