// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// Validadores de dominio

// IsDomain verifica si un string es un nombre de dominio sintácticamente válido.
// Soporta punycode; las IPs no son dominios.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}
	if !domainRegex.MatchString(domain) {
		return false
	}
	return net.ParseIP(domain) == nil
}

// IsRegistrable verifica que el dominio no sea un sufijo público (com, co.uk, ...).
// Los subdominios de un dominio registrable también son válidos como raíz.
func IsRegistrable(domain string) bool {
	if !IsDomain(domain) || !strings.Contains(domain, ".") {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return domain != suffix
}

// RegistrableDomain retorna eTLD+1 del dominio (ej: api.bbc.co.uk -> bbc.co.uk).
func RegistrableDomain(domain string) (string, error) {
	return publicsuffix.EffectiveTLDPlusOne(domain)
}

// IsSubdomain verifica si subdomain es un subdominio de baseDomain (sin distinguir mayúsculas).
func IsSubdomain(subdomain, baseDomain string) bool {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	baseDomain = strings.ToLower(strings.TrimSpace(baseDomain))

	if subdomain == baseDomain {
		return false
	}
	return strings.HasSuffix(subdomain, "."+baseDomain)
}

// InScope verifica si name es el propio root o uno de sus subdominios.
func InScope(name, root string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(root)) || IsSubdomain(name, root)
}

// NormalizeDomain normaliza un dominio raíz de entrada a su forma canónica.
// Acepta también URLs ("https://example.com/path").
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if strings.Contains(domain, "://") {
		if u, err := url.Parse(domain); err == nil && u.Hostname() != "" {
			domain = u.Hostname()
		}
	}
	domain = strings.ToLower(domain)
	domain = strings.TrimSuffix(domain, ".")
	return domain
}

// CleanName limpia un nombre devuelto por un proveedor: quita espacios,
// el prefijo wildcard y el punto final. No cambia mayúsculas.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "*.")
	name = strings.TrimSuffix(name, ".")
	return name
}

// Validadores genéricos

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
