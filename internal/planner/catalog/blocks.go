package catalog

import (
	"plan-builder/internal/planner/models"
)

// ============================================================
// Block Catalog
// ============================================================

// Размеры в единицах сетки, 1 единица = 2 фута.
var blocks = []models.BlockDescriptor{
	// Спальни
	{ID: "master_suite_luxury", Category: models.CategorySleeping, Label: "Luxury Master Suite", BaseCost: 45000, Dimensions: models.Dimensions{W: 8, H: 8}, Color: "#e0e7ff"},
	{ID: "bedroom_standard", Category: models.CategorySleeping, Label: "Standard Bedroom", BaseCost: 15000, Dimensions: models.Dimensions{W: 6, H: 6}, Color: "#dbeafe"},
	{ID: "guest_suite", Category: models.CategorySleeping, Label: "Guest Suite", BaseCost: 25000, Dimensions: models.Dimensions{W: 7, H: 7}, Color: "#eef2ff"},
	{ID: "bunk_room", Category: models.CategorySleeping, Label: "Bunk Room", BaseCost: 18000, Dimensions: models.Dimensions{W: 6, H: 8}, Color: "#eff6ff"},

	// Жилые
	{ID: "living_greatroom", Category: models.CategoryLiving, Label: "Great Room", BaseCost: 30000, Dimensions: models.Dimensions{W: 10, H: 8}, Color: "#d1fae5"},
	{ID: "kitchen_chef", Category: models.CategoryLiving, Label: "Chef's Kitchen", BaseCost: 60000, Dimensions: models.Dimensions{W: 8, H: 6}, Color: "#ffedd5"},
	{ID: "home_office", Category: models.CategoryLiving, Label: "Home Office", BaseCost: 12000, Dimensions: models.Dimensions{W: 5, H: 6}, Color: "#ecfdf5"},
	{ID: "scullery", Category: models.CategoryLiving, Label: "Scullery / Pantry", BaseCost: 15000, Dimensions: models.Dimensions{W: 4, H: 5}, Color: "#fff7ed"},

	// Хозяйственные
	{ID: "garage_2car", Category: models.CategoryUtility, Label: "2-Car Garage", BaseCost: 25000, Dimensions: models.Dimensions{W: 11, H: 11}, Color: "#e2e8f0"},
	{ID: "garage_3car", Category: models.CategoryUtility, Label: "3-Car Garage", BaseCost: 35000, Dimensions: models.Dimensions{W: 16, H: 11}, Color: "#cbd5e1"},
	{ID: "bath_full", Category: models.CategoryUtility, Label: "Full Bath", BaseCost: 20000, Dimensions: models.Dimensions{W: 4, H: 5}, Color: "#cffafe"},
	{ID: "laundry_room", Category: models.CategoryUtility, Label: "Laundry Room", BaseCost: 8000, Dimensions: models.Dimensions{W: 4, H: 4}, Color: "#ecfeff"},

	// Уличные
	{ID: "porch_covered", Category: models.CategoryOutdoor, Label: "Covered Porch", BaseCost: 15000, Dimensions: models.Dimensions{W: 10, H: 6}, Color: "#fef3c7"},
	{ID: "deck", Category: models.CategoryOutdoor, Label: "Deck", BaseCost: 12000, Dimensions: models.Dimensions{W: 8, H: 6}, Color: "#fffbeb"},
	{ID: "patio", Category: models.CategoryOutdoor, Label: "Concrete Patio", BaseCost: 8000, Dimensions: models.Dimensions{W: 8, H: 6}, Color: "#e7e5e4"},
}

// All возвращает копию каталога в порядке отображения.
func All() []models.BlockDescriptor {
	out := make([]models.BlockDescriptor, len(blocks))
	copy(out, blocks)
	return out
}

// ByCategory группирует каталог по категориям.
func ByCategory() map[models.Category][]models.BlockDescriptor {
	out := make(map[models.Category][]models.BlockDescriptor)
	for _, b := range blocks {
		out[b.Category] = append(out[b.Category], b)
	}
	return out
}

// Lookup ищет блок по id типа.
func Lookup(id string) (models.BlockDescriptor, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return models.BlockDescriptor{}, false
}
