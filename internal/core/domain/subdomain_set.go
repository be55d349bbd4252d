// internal/core/domain/subdomain_set.go
package domain

import "sort"

// SubdomainSet es un conjunto de nombres distintos tal como los emiten los proveedores.
// No normaliza mayúsculas: "WWW.example.com" y "www.example.com" son entradas distintas.
// No es seguro para uso concurrente; cada invocación es dueña de su set.
type SubdomainSet map[string]struct{}

// NewSubdomainSet crea un set con los elementos dados (vacíos ignorados).
func NewSubdomainSet(items ...string) SubdomainSet {
	s := make(SubdomainSet, len(items))
	s.AddAll(items...)
	return s
}

// Add inserta un nombre. Retorna true si no estaba presente.
func (s SubdomainSet) Add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// AddAll inserta varios nombres.
func (s SubdomainSet) AddAll(names ...string) {
	for _, n := range names {
		s.Add(n)
	}
}

// Union añade todos los elementos de other a s y retorna s.
func (s SubdomainSet) Union(other SubdomainSet) SubdomainSet {
	for n := range other {
		s[n] = struct{}{}
	}
	return s
}

// Contains verifica si el nombre está en el set.
func (s SubdomainSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len retorna el número de elementos.
func (s SubdomainSet) Len() int {
	return len(s)
}

// Sorted retorna los elementos ordenados lexicográficamente.
func (s SubdomainSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
