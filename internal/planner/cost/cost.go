package cost

import (
	"math"
)

// ============================================================
// Cost Model
// ============================================================

const (
	// CostPerSqFt: базовая ставка за материалы.
	CostPerSqFt = 150
	// UnitToSqFt переводит единицы сетки² в фут² (1 единица = 2 фута).
	UnitToSqFt = 4
	// HighMultiplier расширяет верхнюю границу на отделку и работы.
	HighMultiplier = 1.45
)

// Range: оценка стоимости: нижняя и верхняя граница.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// SqFtFromUnits: единый перевод единиц сетки² в фут² для комнат и блоков.
func SqFtFromUnits(areaInUnits float64) int {
	return int(math.Round(areaInUnits * UnitToSqFt))
}

// RoomCost считает площадь и стоимость комнаты.
func RoomCost(areaInUnits float64) (sqFt, cost int) {
	sqFt = SqFtFromUnits(areaInUnits)
	return sqFt, sqFt * CostPerSqFt
}

// BlockSqFt возвращает площадь блока w×h в фут².
func BlockSqFt(w, h int) int {
	return SqFtFromUnits(float64(w * h))
}

// AggregateCostRange складывает площадь комнат и фиксированную стоимость
// блоков. Множитель применяется только к верхней границе.
func AggregateCostRange(roomSqFtTotal, blockBaseCostTotal int) Range {
	low := roomSqFtTotal*CostPerSqFt + blockBaseCostTotal
	return Range{
		Low:  low,
		High: int(math.Round(float64(low) * HighMultiplier)),
	}
}
