// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputJSON exporta el report en formato JSON.
func OutputJSON(w io.Writer, report Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
