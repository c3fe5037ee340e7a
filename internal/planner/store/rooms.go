package store

import (
	"plan-builder/internal/planner/models"
)

// ============================================================
// Room Registry
// ============================================================

// appendRoom вызывается только при сохранении контура; других путей
// создания комнат нет.
func appendRoom(rooms []models.RoomPolygon, room models.RoomPolygon) []models.RoomPolygon {
	out := make([]models.RoomPolygon, 0, len(rooms)+1)
	out = append(out, rooms...)
	return append(out, room)
}

func removeRoom(rooms []models.RoomPolygon, id string) ([]models.RoomPolygon, bool) {
	out := make([]models.RoomPolygon, 0, len(rooms))
	found := false
	for _, r := range rooms {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}
