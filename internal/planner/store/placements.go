package store

import (
	"plan-builder/internal/planner/models"
)

// ============================================================
// Placement Registry
// ============================================================

// Каждая операция возвращает новый срез; вход не изменяется.

func addBlock(blocks []models.PlacedBlock, desc models.BlockDescriptor, instanceID string, x, y, floor int) []models.PlacedBlock {
	out := make([]models.PlacedBlock, 0, len(blocks)+1)
	out = append(out, blocks...)
	return append(out, models.PlacedBlock{
		BlockDescriptor: desc,
		InstanceID:      instanceID,
		X:               x,
		Y:               y,
		Floor:           floor,
		Rotation:        0,
	})
}

func removeBlock(blocks []models.PlacedBlock, instanceID string) ([]models.PlacedBlock, bool) {
	out := make([]models.PlacedBlock, 0, len(blocks))
	found := false
	for _, b := range blocks {
		if b.InstanceID == instanceID {
			found = true
			continue
		}
		out = append(out, b)
	}
	return out, found
}

func moveBlock(blocks []models.PlacedBlock, instanceID string, x, y int) ([]models.PlacedBlock, bool) {
	return updateBlock(blocks, instanceID, func(b *models.PlacedBlock) {
		b.X, b.Y = x, y
	})
}

func rotateBlock(blocks []models.PlacedBlock, instanceID string) ([]models.PlacedBlock, bool) {
	return updateBlock(blocks, instanceID, func(b *models.PlacedBlock) {
		b.Rotation = (b.Rotation + 90) % 360
	})
}

func updateBlock(blocks []models.PlacedBlock, instanceID string, fn func(*models.PlacedBlock)) ([]models.PlacedBlock, bool) {
	out := make([]models.PlacedBlock, len(blocks))
	copy(out, blocks)
	for i := range out {
		if out[i].InstanceID == instanceID {
			fn(&out[i])
			return out, true
		}
	}
	return blocks, false
}
