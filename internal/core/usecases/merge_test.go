// internal/core/usecases/merge_test.go
package usecases

import (
	"testing"

	"gotest.tools/v3/assert"

	"subharvest/internal/core/domain"
)

func TestMerge_KeepsCrossHostDuplicates(t *testing.T) {
	sets := []domain.SubdomainSet{
		domain.NewSubdomainSet("b.example.com", "shared.example.com"),
		domain.NewSubdomainSet("shared.example.com"),
	}

	got := Merge(sets)
	assert.DeepEqual(t, got, []string{"b.example.com", "shared.example.com", "shared.example.com"})
}

func TestMergeUnique(t *testing.T) {
	sets := []domain.SubdomainSet{
		domain.NewSubdomainSet("b.example.com", "shared.example.com"),
		domain.NewSubdomainSet("shared.example.com", "a.other.com"),
	}

	got := MergeUnique(sets)
	assert.DeepEqual(t, got, []string{"b.example.com", "shared.example.com", "a.other.com"})
}

func TestMerge_Empty(t *testing.T) {
	assert.Equal(t, len(Merge(nil)), 0)
	assert.Equal(t, len(Merge([]domain.SubdomainSet{domain.NewSubdomainSet()})), 0)
}
