package models

import (
	"plan-builder/internal/planner/geometry"
)

// ============================================================
// Catalog blocks
// ============================================================

type Category string

const (
	CategoryLiving   Category = "living"
	CategorySleeping Category = "sleeping"
	CategoryUtility  Category = "utility"
	CategoryOutdoor  Category = "outdoor"
)

// Dimensions задаются в единицах сетки.
type Dimensions struct {
	W int `json:"w"`
	H int `json:"h"`
}

// BlockDescriptor описывает запись каталога, прямоугольную комнату заданного размера.
type BlockDescriptor struct {
	ID         string     `json:"id"`
	Category   Category   `json:"category"`
	Label      string     `json:"label"`
	BaseCost   int        `json:"baseCost"`
	Dimensions Dimensions `json:"dimensions"`
	Color      string     `json:"color"`
}

// PlacedBlock: экземпляр блока каталога на сетке.
type PlacedBlock struct {
	BlockDescriptor
	InstanceID string `json:"instanceId"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Floor      int    `json:"floor"`
	Rotation   int    `json:"rotation"`
}

// Footprint возвращает ширину и высоту на сетке с учётом поворота. Площадь
// и стоимость всегда считаются по исходным размерам.
func (b PlacedBlock) Footprint() Dimensions {
	if b.Rotation == 90 || b.Rotation == 270 {
		return Dimensions{W: b.Dimensions.H, H: b.Dimensions.W}
	}
	return b.Dimensions
}

// ============================================================
// Rooms
// ============================================================

// WallNode: вершина полигона в единицах сетки. id нужен только как ключ
// при отрисовке списков.
type WallNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (n WallNode) Point() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// Points переводит узлы в точки геометрии, сохраняя порядок.
func Points(nodes []WallNode) []geometry.Point {
	out := make([]geometry.Point, len(nodes))
	for i, n := range nodes {
		out[i] = n.Point()
	}
	return out
}

const DefaultRoomColor = "#e2e8f0"

// RoomPolygon: сохранённая именованная комната. SqFt и Cost фиксируются
// в момент сохранения.
type RoomPolygon struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Points []WallNode `json:"points"`
	Floor  int        `json:"floor"`
	SqFt   int        `json:"sqFt"`
	Cost   int        `json:"cost"`
	Color  string     `json:"color"`
}

// ============================================================
// Plan state
// ============================================================

// PlanVersion: версия сохраняемого формата.
const PlanVersion = 1

// Plan: зафиксированная, сохраняемая часть плана.
type Plan struct {
	Version      int           `json:"version"`
	Rooms        []RoomPolygon `json:"rooms"`
	PlacedBlocks []PlacedBlock `json:"placedBlocks"`
	ActiveFloor  int           `json:"activeFloor"`
}

// DrawingSession: незавершённое рисование, никогда не сохраняется.
type DrawingSession struct {
	IsDrawing    bool       `json:"isDrawing"`
	IsNamingRoom bool       `json:"isNamingRoom"`
	Floor        int        `json:"floor"`
	ActivePoints []WallNode `json:"activePoints"`
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseDrawing Phase = "drawing"
	PhaseNaming  Phase = "naming"
)

func (s DrawingSession) Phase() Phase {
	switch {
	case !s.IsDrawing:
		return PhaseIdle
	case s.IsNamingRoom:
		return PhaseNaming
	default:
		return PhaseDrawing
	}
}

// Totals вычисляются только агрегацией.
type Totals struct {
	TotalCostLow  int `json:"totalCostLow"`
	TotalCostHigh int `json:"totalCostHigh"`
	TotalSqFt     int `json:"totalSqFt"`
}

// Snapshot: представление только для чтения после каждого действия.
type Snapshot struct {
	Rooms        []RoomPolygon `json:"rooms"`
	PlacedBlocks []PlacedBlock `json:"placedBlocks"`
	ActiveFloor  int           `json:"activeFloor"`
	IsDrawing    bool          `json:"isDrawing"`
	ActivePoints []WallNode    `json:"activePoints"`
	IsNamingRoom bool          `json:"isNamingRoom"`
	Phase        Phase         `json:"phase"`
	Totals
}

// ============================================================
// Action results
// ============================================================

// Причины, по которым действие отклонено без изменений.
const (
	ReasonUnknownRoom       = "unknown_room"
	ReasonUnknownBlock      = "unknown_block"
	ReasonTooFewPoints      = "too_few_points"
	ReasonEmptyName         = "empty_name"
	ReasonSelfIntersecting  = "self_intersecting"
	ReasonDuplicatePoint    = "duplicate_point"
	ReasonNotDrawing        = "not_drawing"
	ReasonAlreadyDrawing    = "already_drawing"
	ReasonNotNaming         = "not_naming"
	ReasonNamingInProgress  = "naming_in_progress"
	ReasonNoPoints          = "no_points"
	ReasonNotNearStart      = "not_near_start"
	ReasonInvalidFloor      = "invalid_floor"
	ReasonInvalidCoordinate = "invalid_coordinate"
)

// Result сообщает, изменило ли действие состояние.
type Result struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func Applied() Result {
	return Result{Applied: true}
}

func Rejected(reason string) Result {
	return Result{Reason: reason}
}
