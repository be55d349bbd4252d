// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Errores de host
	ErrEmptyHost   = errors.New("host cannot be empty")
	ErrInvalidHost = errors.New("invalid host")

	// Errores de modo
	ErrInvalidRunMode = errors.New("invalid run mode")

	// Errores de fuentes
	ErrSourceNotFound     = errors.New("source not found")
	ErrNoSourcesAvailable = errors.New("no sources available for run mode")

	// Errores de configuración
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)
