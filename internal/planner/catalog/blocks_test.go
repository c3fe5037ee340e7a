package catalog

import (
	"testing"

	"plan-builder/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	b, ok := Lookup("kitchen_chef")
	require.True(t, ok)
	assert.Equal(t, "Chef's Kitchen", b.Label)
	assert.Equal(t, 60000, b.BaseCost)
	assert.Equal(t, models.Dimensions{W: 8, H: 6}, b.Dimensions)

	_, ok = Lookup("ballroom")
	assert.False(t, ok)
}

func TestCatalogShape(t *testing.T) {
	all := All()
	assert.Len(t, all, 15)

	seen := make(map[string]bool)
	for _, b := range all {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.Positive(t, b.BaseCost)
		assert.Positive(t, b.Dimensions.W)
		assert.Positive(t, b.Dimensions.H)
	}

	groups := ByCategory()
	assert.Len(t, groups, 4)
	assert.Len(t, groups[models.CategoryOutdoor], 3)

	// через All каталог не изменить
	all[0].BaseCost = 1
	first, _ := Lookup(all[0].ID)
	assert.Equal(t, 45000, first.BaseCost)
}
