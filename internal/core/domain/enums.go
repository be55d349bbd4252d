// internal/core/domain/enums.go
package domain

import (
	"fmt"
	"strings"
)

// RunMode selecciona el conjunto de fuentes a consultar.
type RunMode string

const (
	// RunModeFree solo usa fuentes que no requieren credenciales
	RunModeFree RunMode = "free"

	// RunModeAll usa todas las fuentes registradas, incluidas las que requieren credenciales
	RunModeAll RunMode = "all"
)

// ParseRunMode convierte un string (sin distinguir mayúsculas) en RunMode.
func ParseRunMode(s string) (RunMode, error) {
	m := RunMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunMode, s)
	}
	return m, nil
}

// IsValid verifica si el modo es válido.
func (m RunMode) IsValid() bool {
	switch m {
	case RunModeFree, RunModeAll:
		return true
	default:
		return false
	}
}

// String retorna la representación string del modo.
func (m RunMode) String() string {
	return string(m)
}

// Includes indica si las fuentes del tier se ejecutan en este modo.
// All es un superconjunto de Free.
func (m RunMode) Includes(tier Tier) bool {
	switch m {
	case RunModeAll:
		return tier.IsValid()
	case RunModeFree:
		return tier == TierFree
	default:
		return false
	}
}

// Tier clasifica una fuente según sus requisitos de credenciales.
type Tier string

const (
	// TierFree fuentes públicas, sin credenciales
	TierFree Tier = "free"

	// TierCredentialed fuentes que requieren API key o usuario
	TierCredentialed Tier = "credentialed"
)

// IsValid verifica si el tier es válido.
func (t Tier) IsValid() bool {
	return t == TierFree || t == TierCredentialed
}

// String retorna la representación string del tier.
func (t Tier) String() string {
	return string(t)
}
