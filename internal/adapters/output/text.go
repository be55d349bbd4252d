// internal/adapters/output/text.go
package output

import (
	"bufio"
	"fmt"
	"io"
)

// OutputText escribe un subdominio por línea, en el orden recibido.
func OutputText(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, name := range names {
		if _, err := bw.WriteString(name); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	return nil
}
