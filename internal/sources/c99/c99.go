// internal/sources/c99/c99.go
package c99

import (
	"fmt"
	"net/url"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const (
	name   = "c99"
	keyEnv = "C99_API_KEY"
)

// Meta describe la fuente C99.
var Meta = ports.SourceMetadata{
	Name:          name,
	Description:   "C99.nl subdomain finder",
	Tier:          domain.TierCredentialed,
	RequiresAuth:  true,
	CredentialEnv: []string{keyEnv},
}

// Register añade C99 al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente C99. La clave va en la query.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:        name,
		BaseURL:     "https://api.c99.nl",
		Credentials: []string{keyEnv},
		Path: func(host domain.Host, creds common.Credentials) string {
			return fmt.Sprintf("/subdomainfinder?key=%s&domain=%s&json",
				url.QueryEscape(creds.Get(keyEnv)), host)
		},
		Parse: parse,
	}, opts)
}

type response struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Subdomains []struct {
		Subdomain string `json:"subdomain"`
		IP        string `json:"ip"`
	} `json:"subdomains"`
}

func parse(body []byte, _ domain.Host) ([]string, error) {
	var resp response
	if err := common.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "success=false: %s", resp.Error)
	}

	names := make([]string, 0, len(resp.Subdomains))
	for _, s := range resp.Subdomains {
		names = append(names, s.Subdomain)
	}
	return names, nil
}
