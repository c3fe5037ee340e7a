package mapper

import (
	"strings"
	"testing"

	"plan-builder/internal/planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() models.Plan {
	return models.Plan{
		Version: models.PlanVersion,
		Rooms: []models.RoomPolygon{
			{
				ID:   "r1",
				Name: "Kitchen & Dining",
				Points: []models.WallNode{
					{ID: "a", X: 0, Y: 0},
					{ID: "b", X: 4, Y: 0},
					{ID: "c", X: 4, Y: 3},
					{ID: "d", X: 0, Y: 3},
				},
				Floor: 0,
				SqFt:  48,
				Cost:  7200,
				Color: "#e2e8f0",
			},
			{
				ID:     "r2",
				Name:   "Loft",
				Points: []models.WallNode{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
				Floor:  1,
			},
		},
		PlacedBlocks: []models.PlacedBlock{
			{
				BlockDescriptor: models.BlockDescriptor{
					ID: "garage-2", Label: "2-Car Garage", BaseCost: 45000,
					Dimensions: models.Dimensions{W: 6, H: 4}, Color: "#cbd5e1",
				},
				InstanceID: "b1", X: 5, Y: 1, Floor: 0, Rotation: 90,
			},
		},
	}
}

func TestRenderFloor(t *testing.T) {
	r := NewRenderer(0)
	svg, err := r.Render(testPlan(), 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	assert.True(t, strings.HasSuffix(svg, `</svg>`))
	assert.Contains(t, svg, `<path id="room-r1" d="M 0 0 L 160 0 L 160 120 L 0 120 Z" fill="#e2e8f0"`)
	assert.Contains(t, svg, `Kitchen &amp; Dining (48 sq ft)`)
	assert.NotContains(t, svg, "room-r2")

	// поворот на 90: 6x4 становится 4x6
	assert.Contains(t, svg, `<rect id="block-b1" x="200" y="40" width="160" height="240"`)
	assert.Contains(t, svg, `2-Car Garage (96 sq ft)`)
}

func TestRenderOtherFloor(t *testing.T) {
	svg, err := NewRenderer(10).Render(testPlan(), 1)
	require.NoError(t, err)

	assert.Contains(t, svg, "room-r2")
	assert.Contains(t, svg, `fill="#e2e8f0"`, "missing color falls back to default")
	assert.NotContains(t, svg, "block-b1")
}

func TestRenderEmptyPlan(t *testing.T) {
	svg, err := NewRenderer(DefaultScale).Render(models.Plan{Version: models.PlanVersion}, 0)
	require.NoError(t, err)

	assert.Contains(t, svg, `viewBox="-40 -40 400 400"`)
	assert.NotContains(t, svg, "<path")
}

func TestRenderInvalidFloor(t *testing.T) {
	_, err := NewRenderer(0).Render(testPlan(), -1)
	assert.Error(t, err)
}
