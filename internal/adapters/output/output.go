// internal/adapters/output/output.go
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Format formato de salida de resultados.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Report es lo que se escribe al final del batch.
type Report struct {
	Mode        string    `json:"mode"`
	Hosts       []string  `json:"hosts"`
	Unique      bool      `json:"unique"`
	Count       int       `json:"count"`
	Subdomains  []string  `json:"subdomains"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport construye un Report con Count y marca de tiempo.
func NewReport(mode string, hosts, subdomains []string, unique bool) Report {
	if subdomains == nil {
		subdomains = []string{}
	}
	return Report{
		Mode:        mode,
		Hosts:       hosts,
		Unique:      unique,
		Count:       len(subdomains),
		Subdomains:  subdomains,
		GeneratedAt: time.Now().UTC(),
	}
}

// Write escribe el report en w con el formato indicado.
func Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatJSON:
		return OutputJSON(w, report, true)
	case FormatText, "":
		return OutputText(w, report.Subdomains)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Open retorna el destino de la salida: stdout si path está vacío, o el fichero
// (creando su directorio). El closer de stdout no cierra nada.
func Open(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
