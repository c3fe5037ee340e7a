package store

import (
	"math"
	"strings"

	"plan-builder/internal/planner/cost"
	"plan-builder/internal/planner/geometry"
	"plan-builder/internal/planner/models"
)

// ============================================================
// Drawing Session
// ============================================================

// Переходы принимают сессию по значению и возвращают следующую.
// Отклонённый переход возвращает вход без изменений.

const minRoomPoints = 3

func idleSession() models.DrawingSession {
	return models.DrawingSession{ActivePoints: []models.WallNode{}}
}

// startDrawing привязывает новую сессию к активному этажу.
func startDrawing(s models.DrawingSession, floor int) (models.DrawingSession, models.Result) {
	if s.IsDrawing {
		return s, models.Rejected(models.ReasonAlreadyDrawing)
	}
	return models.DrawingSession{
		IsDrawing:    true,
		Floor:        floor,
		ActivePoints: []models.WallNode{},
	}, models.Applied()
}

func stopDrawing(s models.DrawingSession) (models.DrawingSession, models.Result) {
	if !s.IsDrawing {
		return s, models.Rejected(models.ReasonNotDrawing)
	}
	return idleSession(), models.Applied()
}

func addPoint(s models.DrawingSession, newID func() string, x, y float64) (models.DrawingSession, models.Result) {
	switch {
	case !s.IsDrawing:
		return s, models.Rejected(models.ReasonNotDrawing)
	case s.IsNamingRoom:
		return s, models.Rejected(models.ReasonNamingInProgress)
	case !finite(x) || !finite(y):
		return s, models.Rejected(models.ReasonInvalidCoordinate)
	}

	if n := len(s.ActivePoints); n > 0 {
		last := s.ActivePoints[n-1]
		if last.X == x && last.Y == y {
			return s, models.Rejected(models.ReasonDuplicatePoint)
		}
	}

	points := make([]models.WallNode, 0, len(s.ActivePoints)+1)
	points = append(points, s.ActivePoints...)
	s.ActivePoints = append(points, models.WallNode{ID: newID(), X: x, Y: y})
	return s, models.Applied()
}

func undoLastPoint(s models.DrawingSession) (models.DrawingSession, models.Result) {
	if s.IsNamingRoom {
		return s, models.Rejected(models.ReasonNamingInProgress)
	}
	n := len(s.ActivePoints)
	if n == 0 {
		return s, models.Rejected(models.ReasonNoPoints)
	}
	points := make([]models.WallNode, n-1)
	copy(points, s.ActivePoints[:n-1])
	s.ActivePoints = points
	return s, models.Applied()
}

// resetDrawing сбрасывает контур, но оставляет сессию открытой. Флаг
// именования сбрасывается вместе с точками.
func resetDrawing(s models.DrawingSession) (models.DrawingSession, models.Result) {
	s.ActivePoints = []models.WallNode{}
	s.IsNamingRoom = false
	return s, models.Applied()
}

func setNaming(s models.DrawingSession, naming bool) (models.DrawingSession, models.Result) {
	if !naming {
		// Окно закрыто: точки остаются, рисование продолжается.
		if !s.IsNamingRoom {
			return s, models.Rejected(models.ReasonNotNaming)
		}
		s.IsNamingRoom = false
		return s, models.Applied()
	}

	if !s.IsDrawing {
		return s, models.Rejected(models.ReasonNotDrawing)
	}
	if len(s.ActivePoints) < minRoomPoints {
		return s, models.Rejected(models.ReasonTooFewPoints)
	}
	s.IsNamingRoom = true
	return s, models.Applied()
}

// tryClose трактует нажатие как попытку замкнуть контур.
func tryClose(s models.DrawingSession, x, y float64) (models.DrawingSession, models.Result) {
	switch {
	case !s.IsDrawing:
		return s, models.Rejected(models.ReasonNotDrawing)
	case s.IsNamingRoom:
		return s, models.Rejected(models.ReasonNamingInProgress)
	case len(s.ActivePoints) < minRoomPoints:
		return s, models.Rejected(models.ReasonTooFewPoints)
	}

	start := s.ActivePoints[0].Point()
	if !geometry.IsNearStart(geometry.Point{X: x, Y: y}, start, geometry.CloseThreshold) {
		return s, models.Rejected(models.ReasonNotNearStart)
	}
	s.IsNamingRoom = true
	return s, models.Applied()
}

// commitRoom завершает контур. Этаж передаёт вызывающий, а не сессия.
func commitRoom(s models.DrawingSession, newID func() string, name string, floor int) (models.RoomPolygon, models.DrawingSession, models.Result) {
	if len(s.ActivePoints) < minRoomPoints {
		return models.RoomPolygon{}, s, models.Rejected(models.ReasonTooFewPoints)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.RoomPolygon{}, s, models.Rejected(models.ReasonEmptyName)
	}

	pts := models.Points(s.ActivePoints)
	if !geometry.IsSimple(pts) {
		return models.RoomPolygon{}, s, models.Rejected(models.ReasonSelfIntersecting)
	}

	sqFt, c := cost.RoomCost(geometry.Area(pts))
	nodes := make([]models.WallNode, len(s.ActivePoints))
	copy(nodes, s.ActivePoints)

	room := models.RoomPolygon{
		ID:     newID(),
		Name:   name,
		Points: nodes,
		Floor:  floor,
		SqFt:   sqFt,
		Cost:   c,
		Color:  models.DefaultRoomColor,
	}
	return room, idleSession(), models.Applied()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
