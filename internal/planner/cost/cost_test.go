package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomCost(t *testing.T) {
	sqFt, c := RoomCost(10)
	assert.Equal(t, 40, sqFt)
	assert.Equal(t, 6000, c)

	sqFt, c = RoomCost(12)
	assert.Equal(t, 48, sqFt)
	assert.Equal(t, 7200, c)

	sqFt, _ = RoomCost(2.375)
	assert.Equal(t, 10, sqFt, "9.5 ft² rounds up")
}

func TestBlockSqFt(t *testing.T) {
	// 8x6 единиц = 16x12 футов
	assert.Equal(t, 192, BlockSqFt(8, 6))
	assert.Equal(t, 8*2*6*2, BlockSqFt(8, 6))
	assert.Equal(t, 0, BlockSqFt(0, 5))
}

func TestAggregateCostRange(t *testing.T) {
	r := AggregateCostRange(48, 0)
	assert.Equal(t, Range{Low: 7200, High: 10440}, r)

	r = AggregateCostRange(0, 60000)
	assert.Equal(t, 60000, r.Low)
	assert.Equal(t, 87000, r.High)

	assert.Equal(t, Range{}, AggregateCostRange(0, 0))
}
