// internal/sources/crtsh/crtsh.go
package crtsh

import (
	"fmt"
	"strings"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "crtsh"

// Meta describe la fuente crt.sh.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "Certificate Transparency log search via crt.sh",
	Tier:        domain.TierFree,
	RateLimit:   2, // ser respetuoso con crt.sh
}

// Register añade crt.sh al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente crt.sh.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://crt.sh",
		Path: func(host domain.Host, _ common.Credentials) string {
			return fmt.Sprintf("/?q=%%25.%s&output=json", host)
		},
		Parse: parse,
	}, opts)
}

// certRecord representa un registro de certificado de crt.sh.
type certRecord struct {
	IssuerName   string `json:"issuer_name"`
	NameValue    string `json:"name_value"`
	SerialNumber string `json:"serial_number"`
}

// parse extrae los nombres de name_value; puede contener varios separados por \n.
func parse(body []byte, _ domain.Host) ([]string, error) {
	var records []certRecord
	if err := common.DecodeJSON(body, &records); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, strings.Split(record.NameValue, "\n")...)
	}
	return names, nil
}
