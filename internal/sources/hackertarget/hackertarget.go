// internal/sources/hackertarget/hackertarget.go
package hackertarget

import (
	"bufio"
	"bytes"
	"strings"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const name = "hackertarget"

// Meta describe la fuente HackerTarget.
var Meta = ports.SourceMetadata{
	Name:        name,
	Description: "HackerTarget host search (CSV host,ip)",
	Tier:        domain.TierFree,
	RateLimit:   1,
}

// Register añade HackerTarget al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// New crea la fuente HackerTarget.
func New(opts ports.SourceOptions) (ports.Source, error) {
	return common.NewAPISource(common.APISpec{
		Name:    name,
		BaseURL: "https://api.hackertarget.com",
		Path: func(host domain.Host, _ common.Credentials) string {
			return "/hostsearch/?q=" + host.String()
		},
		Parse: parse,
	}, opts)
}

// parse lee líneas "host,ip". El API responde 200 con texto plano en caso de
// error o cuota agotada ("error ...", "API count exceeded ...").
func parse(body []byte, _ domain.Host) ([]string, error) {
	trimmed := bytes.TrimSpace(body)
	lower := strings.ToLower(string(trimmed))
	if strings.HasPrefix(lower, "error") || strings.HasPrefix(lower, "api count exceeded") {
		return nil, errors.Wrap(errors.ErrInvalidResponse, firstLine(string(trimmed)))
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	for scanner.Scan() {
		line := scanner.Text()
		host, _, _ := strings.Cut(line, ",")
		names = append(names, host)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(errors.ErrInvalidResponse, err)
	}
	return names, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
