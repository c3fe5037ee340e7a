package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"plan-builder/internal/planner/cost"
	"plan-builder/internal/planner/geometry"
	"plan-builder/internal/planner/models"
)

// ============================================================
// Renderer
// ============================================================

const (
	// DefaultScale: пикселей на единицу сетки (клетка 40px).
	DefaultScale = 40.0
	padding      = 1.0
	minExtent    = 10.0
)

type Renderer struct {
	scale float64
}

func NewRenderer(scale float64) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Renderer{scale: scale}
}

// Render собирает SVG одного этажа плана: комнаты-полигоны и блоки.
func (r *Renderer) Render(plan models.Plan, floor int) (string, error) {
	if floor < 0 {
		return "", fmt.Errorf("invalid floor %d", floor)
	}

	var rooms []models.RoomPolygon
	for _, room := range plan.Rooms {
		if room.Floor == floor {
			rooms = append(rooms, room)
		}
	}
	var blocks []models.PlacedBlock
	for _, b := range plan.PlacedBlocks {
		if b.Floor == floor {
			blocks = append(blocks, b)
		}
	}

	min, max := r.extent(rooms, blocks)
	width := (max.X - min.X) * r.scale
	height := (max.Y - min.Y) * r.scale

	var elements []string
	elements = append(elements, r.renderRooms(rooms)...)
	elements = append(elements, r.renderBlocks(blocks)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(min.X*r.scale), formatFloat(min.Y*r.scale), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

// extent всегда включает начало координат, чтобы этажи совпадали при наложении.
func (r *Renderer) extent(rooms []models.RoomPolygon, blocks []models.PlacedBlock) (geometry.Point, geometry.Point) {
	points := []geometry.Point{{X: 0, Y: 0}}
	for _, room := range rooms {
		points = append(points, models.Points(room.Points)...)
	}
	for _, b := range blocks {
		fp := b.Footprint()
		points = append(points,
			geometry.Point{X: float64(b.X), Y: float64(b.Y)},
			geometry.Point{X: float64(b.X + fp.W), Y: float64(b.Y + fp.H)},
		)
	}

	min, max, _ := geometry.Bounds(points)
	min.X -= padding
	min.Y -= padding
	max.X = math.Max(max.X+padding, min.X+minExtent)
	max.Y = math.Max(max.Y+padding, min.Y+minExtent)
	return min, max
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderRooms(rooms []models.RoomPolygon) []string {
	var out []string

	for _, room := range rooms {
		points := models.Points(room.Points)
		if len(points) < 3 {
			continue
		}

		color := room.Color
		if color == "" {
			color = models.DefaultRoomColor
		}

		var path strings.Builder
		path.WriteString(`<path id="room-`)
		path.WriteString(html.EscapeString(room.ID))
		path.WriteString(`" d="M `)
		path.WriteString(r.formatPoint(points[0]))
		for _, p := range points[1:] {
			path.WriteString(" L ")
			path.WriteString(r.formatPoint(p))
		}
		path.WriteString(` Z" fill="`)
		path.WriteString(html.EscapeString(color))
		path.WriteString(`" stroke="#334155" stroke-width="2" />`)
		out = append(out, path.String())

		c := geometry.Centroid(points)
		out = append(out, r.label(c, room.Name, room.SqFt))
	}

	return out
}

func (r *Renderer) renderBlocks(blocks []models.PlacedBlock) []string {
	var out []string

	for _, b := range blocks {
		fp := b.Footprint()
		x := float64(b.X) * r.scale
		y := float64(b.Y) * r.scale
		w := float64(fp.W) * r.scale
		h := float64(fp.H) * r.scale

		out = append(out, fmt.Sprintf(`<rect id="block-%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#475569" data-rotation="%d" />`,
			html.EscapeString(b.InstanceID), formatFloat(x), formatFloat(y), formatFloat(w), formatFloat(h),
			html.EscapeString(b.Color), b.Rotation))

		center := geometry.Point{X: float64(b.X) + float64(fp.W)/2, Y: float64(b.Y) + float64(fp.H)/2}
		out = append(out, r.label(center, b.Label, cost.BlockSqFt(b.Dimensions.W, b.Dimensions.H)))
	}

	return out
}

func (r *Renderer) label(at geometry.Point, name string, sqFt int) string {
	return fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-family="sans-serif" font-size="12">%s (%d sq ft)</text>`,
		formatFloat(at.X*r.scale), formatFloat(at.Y*r.scale), html.EscapeString(name), sqFt)
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func (r *Renderer) formatPoint(p geometry.Point) string {
	return formatFloat(p.X*r.scale) + " " + formatFloat(p.Y*r.scale)
}
