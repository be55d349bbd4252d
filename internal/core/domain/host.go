// internal/core/domain/host.go
package domain

import (
	"fmt"

	"subharvest/internal/platform/validator"
)

// Host es un dominio raíz a enumerar (ej: "example.com").
// Solo se construye mediante NewHost, que normaliza y valida.
type Host string

// NewHost normaliza (trim, minúsculas, sin punto final) y valida un host de entrada.
// Rechaza IPs, sintaxis inválida y sufijos públicos ("com", "co.uk").
func NewHost(raw string) (Host, error) {
	if validator.IsEmpty(raw) {
		return "", ErrEmptyHost
	}

	name := validator.NormalizeDomain(raw)
	if !validator.IsDomain(name) || !validator.IsRegistrable(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, raw)
	}
	return Host(name), nil
}

// ParseHosts construye hosts desde una lista de entrada, conservando orden y
// repeticiones. Las entradas vacías se ignoran; las inválidas se devuelven aparte.
func ParseHosts(raws []string) (hosts []Host, invalid []string) {
	for _, raw := range raws {
		if validator.IsEmpty(raw) {
			continue
		}
		h, err := NewHost(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		hosts = append(hosts, h)
	}
	return hosts, invalid
}

// String retorna el nombre del host.
func (h Host) String() string {
	return string(h)
}

// InScope verifica si name es el host o uno de sus subdominios.
func (h Host) InScope(name string) bool {
	return validator.InScope(name, string(h))
}
