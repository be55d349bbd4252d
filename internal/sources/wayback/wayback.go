// internal/sources/wayback/wayback.go
package wayback

import (
	"fmt"
	"net/url"
	"strings"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "wayback"

// Meta describe la fuente Wayback Machine.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "Wayback Machine CDX index (hosts of archived URLs)",
	Tier:        domain.TierFree,
}

// Register añade Wayback Machine al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente Wayback Machine.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://web.archive.org",
		Path: func(host domain.Host, _ common.Credentials) string {
			return fmt.Sprintf("/cdx/search/cdx?url=*.%s/*&output=json&fl=original&collapse=urlkey", host)
		},
		Parse: parse,
	}, opts)
}

// parse lee filas CDX [["original"], ["http://a.example.com/x"], ...]; la
// primera fila es la cabecera.
func parse(body []byte, _ domain.Host) ([]string, error) {
	var rows [][]string
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	if err := common.DecodeJSON(body, &rows); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if h := hostOf(row[0]); h != "" {
			names = append(names, h)
		}
	}
	return names, nil
}

// hostOf extrae el host de una URL archivada, con o sin esquema.
func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
