package store

import (
	"plan-builder/internal/planner/cost"
	"plan-builder/internal/planner/models"
)

// ============================================================
// Aggregation Engine
// ============================================================

// Aggregate пересчитывает все итоги с нуля. Стоимость блока: фиксированная
// базовая цена независимо от размера и поворота.
func Aggregate(rooms []models.RoomPolygon, blocks []models.PlacedBlock) models.Totals {
	var roomSqFt, blockSqFt, blockCost int

	for _, r := range rooms {
		roomSqFt += r.SqFt
	}
	for _, b := range blocks {
		blockSqFt += cost.BlockSqFt(b.Dimensions.W, b.Dimensions.H)
		blockCost += b.BaseCost
	}

	rng := cost.AggregateCostRange(roomSqFt, blockCost)
	return models.Totals{
		TotalCostLow:  rng.Low,
		TotalCostHigh: rng.High,
		TotalSqFt:     roomSqFt + blockSqFt,
	}
}
