package store

import (
	"errors"
	"fmt"

	"plan-builder/internal/planner/geometry"
	"plan-builder/internal/planner/models"

	"github.com/google/uuid"
)

// ============================================================
// Floorplan Store
// ============================================================

// DefaultFloorCount: два доступных этажа.
const DefaultFloorCount = 2

var (
	ErrUnsupportedVersion = errors.New("unsupported plan version")
	ErrInvalidPlan        = errors.New("invalid plan")
)

// Store владеет одним планом: зафиксированный план, временная сессия
// рисования и итоги. Каждое действие заменяет свою часть состояния и
// пересчитывает итоги до возврата, Snapshot не видит частичных обновлений.
//
// Store не потокобезопасен; доступ сериализует вызывающий.
type Store struct {
	plan       models.Plan
	session    models.DrawingSession
	totals     models.Totals
	floorCount int
	newID      func() string
}

func New(floorCount int) *Store {
	if floorCount <= 0 {
		floorCount = DefaultFloorCount
	}
	s := &Store{
		floorCount: floorCount,
		newID:      uuid.NewString,
	}
	s.reset()
	return s
}

// SetIDGenerator заменяет генератор идентификаторов (в тестах детерминированный).
func (s *Store) SetIDGenerator(f func() string) {
	if f == nil {
		s.newID = uuid.NewString
		return
	}
	s.newID = f
}

func (s *Store) FloorCount() int {
	return s.floorCount
}

// ============================================================
// Reads
// ============================================================

func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Rooms:        cloneRooms(s.plan.Rooms),
		PlacedBlocks: cloneBlocks(s.plan.PlacedBlocks),
		ActiveFloor:  s.plan.ActiveFloor,
		IsDrawing:    s.session.IsDrawing,
		ActivePoints: cloneNodes(s.session.ActivePoints),
		IsNamingRoom: s.session.IsNamingRoom,
		Phase:        s.session.Phase(),
		Totals:       s.totals,
	}
}

// Plan возвращает сохраняемую часть состояния, без сессии рисования и
// флага именования.
func (s *Store) Plan() models.Plan {
	return models.Plan{
		Version:      models.PlanVersion,
		Rooms:        cloneRooms(s.plan.Rooms),
		PlacedBlocks: cloneBlocks(s.plan.PlacedBlocks),
		ActiveFloor:  s.plan.ActiveFloor,
	}
}

func (s *Store) Totals() models.Totals {
	return s.totals
}

// Session возвращает текущую сессию рисования.
func (s *Store) Session() models.DrawingSession {
	out := s.session
	out.ActivePoints = cloneNodes(s.session.ActivePoints)
	return out
}

// ============================================================
// Floor & drawing actions
// ============================================================

// SetActiveFloor переключает этаж и завершает сессию рисования: у точек
// контура нет этажа.
func (s *Store) SetActiveFloor(floor int) models.Result {
	if !s.validFloor(floor) {
		return models.Rejected(models.ReasonInvalidFloor)
	}
	s.plan.ActiveFloor = floor
	s.session = idleSession()
	return models.Applied()
}

func (s *Store) SetIsDrawing(drawing bool) models.Result {
	var res models.Result
	if drawing {
		s.session, res = startDrawing(s.session, s.plan.ActiveFloor)
	} else {
		s.session, res = stopDrawing(s.session)
	}
	return res
}

// AddPoint добавляет вершину. Координаты должны быть уже привязаны.
func (s *Store) AddPoint(x, y float64) models.Result {
	var res models.Result
	s.session, res = addPoint(s.session, s.newID, x, y)
	return res
}

func (s *Store) UndoLastPoint() models.Result {
	var res models.Result
	s.session, res = undoLastPoint(s.session)
	return res
}

func (s *Store) ResetDrawing() models.Result {
	var res models.Result
	s.session, res = resetDrawing(s.session)
	return res
}

func (s *Store) SetNamingRoom(naming bool) models.Result {
	var res models.Result
	s.session, res = setNaming(s.session, naming)
	return res
}

// TryClose обрабатывает нажатие в (x, y); рядом с первой точкой контура из
// трёх и более точек сессия переходит к именованию.
func (s *Store) TryClose(x, y float64) models.Result {
	var res models.Result
	s.session, res = tryClose(s.session, x, y)
	return res
}

// SubmitRoom сохраняет контур как именованную комнату на этаже floor.
func (s *Store) SubmitRoom(name string, floor int) (models.RoomPolygon, models.Result) {
	if len(s.session.ActivePoints) >= minRoomPoints && !s.validFloor(floor) {
		return models.RoomPolygon{}, models.Rejected(models.ReasonInvalidFloor)
	}

	room, next, res := commitRoom(s.session, s.newID, name, floor)
	if !res.Applied {
		return models.RoomPolygon{}, res
	}

	s.session = next
	s.plan.Rooms = appendRoom(s.plan.Rooms, room)
	s.recompute()
	return room, res
}

// ============================================================
// Room & block actions
// ============================================================

func (s *Store) RemoveRoom(id string) models.Result {
	rooms, ok := removeRoom(s.plan.Rooms, id)
	if !ok {
		return models.Rejected(models.ReasonUnknownRoom)
	}
	s.plan.Rooms = rooms
	s.recompute()
	return models.Applied()
}

// AddBlock ставит блок каталога на активный этаж. Координаты здесь не
// обрезаются; вызывающий обрезает до >= 0.
func (s *Store) AddBlock(desc models.BlockDescriptor, x, y int) (models.PlacedBlock, models.Result) {
	id := s.newID()
	s.plan.PlacedBlocks = addBlock(s.plan.PlacedBlocks, desc, id, x, y, s.plan.ActiveFloor)
	s.recompute()
	return s.plan.PlacedBlocks[len(s.plan.PlacedBlocks)-1], models.Applied()
}

func (s *Store) RemoveBlock(instanceID string) models.Result {
	return s.applyBlocks(removeBlock(s.plan.PlacedBlocks, instanceID))
}

func (s *Store) MoveBlock(instanceID string, x, y int) models.Result {
	return s.applyBlocks(moveBlock(s.plan.PlacedBlocks, instanceID, x, y))
}

func (s *Store) RotateBlock(instanceID string) models.Result {
	return s.applyBlocks(rotateBlock(s.plan.PlacedBlocks, instanceID))
}

// ResetPlan возвращает пустое начальное состояние.
func (s *Store) ResetPlan() {
	s.reset()
}

// Restore заменяет план сохранённым. Итоги не берутся из хранилища, а
// пересчитываются.
func (s *Store) Restore(plan models.Plan) error {
	if plan.Version != models.PlanVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, plan.Version)
	}
	if !s.validFloor(plan.ActiveFloor) {
		return fmt.Errorf("%w: active floor %d", ErrInvalidPlan, plan.ActiveFloor)
	}
	for _, r := range plan.Rooms {
		if len(r.Points) < minRoomPoints {
			return fmt.Errorf("%w: room %s has %d points", ErrInvalidPlan, r.ID, len(r.Points))
		}
		if !s.validFloor(r.Floor) {
			return fmt.Errorf("%w: room %s on floor %d", ErrInvalidPlan, r.ID, r.Floor)
		}
		for _, p := range r.Points {
			if !geometry.InRange(p.X) || !geometry.InRange(p.Y) {
				return fmt.Errorf("%w: room %s point (%v, %v) out of range", ErrInvalidPlan, r.ID, p.X, p.Y)
			}
		}
	}
	for _, b := range plan.PlacedBlocks {
		if !s.validFloor(b.Floor) {
			return fmt.Errorf("%w: block %s on floor %d", ErrInvalidPlan, b.InstanceID, b.Floor)
		}
		if !validRotation(b.Rotation) {
			return fmt.Errorf("%w: block %s rotation %d", ErrInvalidPlan, b.InstanceID, b.Rotation)
		}
		if !validBlockCoord(b.X) || !validBlockCoord(b.Y) {
			return fmt.Errorf("%w: block %s at (%d, %d)", ErrInvalidPlan, b.InstanceID, b.X, b.Y)
		}
	}

	s.plan = models.Plan{
		Version:      models.PlanVersion,
		Rooms:        cloneRooms(plan.Rooms),
		PlacedBlocks: cloneBlocks(plan.PlacedBlocks),
		ActiveFloor:  plan.ActiveFloor,
	}
	s.session = idleSession()
	s.recompute()
	return nil
}

// ============================================================
// Helpers
// ============================================================

func (s *Store) applyBlocks(blocks []models.PlacedBlock, ok bool) models.Result {
	if !ok {
		return models.Rejected(models.ReasonUnknownBlock)
	}
	s.plan.PlacedBlocks = blocks
	s.recompute()
	return models.Applied()
}

func (s *Store) recompute() {
	s.totals = Aggregate(s.plan.Rooms, s.plan.PlacedBlocks)
}

func (s *Store) reset() {
	s.plan = models.Plan{
		Version:      models.PlanVersion,
		Rooms:        []models.RoomPolygon{},
		PlacedBlocks: []models.PlacedBlock{},
	}
	s.session = idleSession()
	s.recompute()
}

func (s *Store) validFloor(floor int) bool {
	return floor >= 0 && floor < s.floorCount
}

func validRotation(r int) bool {
	return r == 0 || r == 90 || r == 180 || r == 270
}

func validBlockCoord(v int) bool {
	return v >= 0 && v <= geometry.MaxCoordinate
}

func cloneNodes(in []models.WallNode) []models.WallNode {
	out := make([]models.WallNode, len(in))
	copy(out, in)
	return out
}

func cloneRooms(in []models.RoomPolygon) []models.RoomPolygon {
	out := make([]models.RoomPolygon, len(in))
	for i, r := range in {
		r.Points = cloneNodes(r.Points)
		out[i] = r
	}
	return out
}

func cloneBlocks(in []models.PlacedBlock) []models.PlacedBlock {
	out := make([]models.PlacedBlock, len(in))
	copy(out, in)
	return out
}
