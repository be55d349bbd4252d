// internal/core/usecases/merge.go
package usecases

import (
	"github.com/samber/lo"

	"subharvest/internal/core/domain"
)

// Merge aplana los sets por host en una secuencia. Cada set sale ordenado;
// no se deduplica entre hosts: un nombre hallado bajo dos hosts aparece dos veces.
func Merge(sets []domain.SubdomainSet) []string {
	return lo.FlatMap(sets, func(s domain.SubdomainSet, _ int) []string {
		return s.Sorted()
	})
}

// MergeUnique aplana los sets eliminando duplicados globales (primera aparición gana).
func MergeUnique(sets []domain.SubdomainSet) []string {
	return lo.Uniq(Merge(sets))
}
