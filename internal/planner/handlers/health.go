package handlers

import (
	"context"
	"net/http"
	"time"

	"plan-builder/internal/common/logger"
	"plan-builder/internal/planner/repository"
	"plan-builder/internal/planner/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

type HealthHandler struct {
	repo     *repository.Repository
	storage  *service.FileStorage
	sessions *service.SessionManager
}

func NewHealthHandler(repo *repository.Repository, storage *service.FileStorage, sessions *service.SessionManager) *HealthHandler {
	return &HealthHandler{repo: repo, storage: storage, sessions: sessions}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет БД и каталог экспорта.
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		logger.Log.Warnf("[HEALTH] Database not ready: %v", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": "database"})
	}
	if err := h.storage.Probe(); err != nil {
		logger.Log.Warnf("[HEALTH] Storage not ready: %v", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": "storage"})
	}

	return c.JSON(fiber.Map{
		"status":   "ready",
		"sessions": h.sessions.Count(),
	})
}
