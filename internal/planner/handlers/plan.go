package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"plan-builder/internal/common/logger"
	"plan-builder/internal/planner/catalog"
	"plan-builder/internal/planner/geometry"
	"plan-builder/internal/planner/mapper"
	"plan-builder/internal/planner/models"
	"plan-builder/internal/planner/repository"
	"plan-builder/internal/planner/service"
	"plan-builder/internal/planner/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plan Handler
// ============================================================

var planValidate = validator.New()

type PlanHandler struct {
	sessions *service.SessionManager
	repo     *repository.Repository
	storage  *service.FileStorage
	renderer *mapper.Renderer
}

func NewPlanHandler(sessions *service.SessionManager, repo *repository.Repository, storage *service.FileStorage) *PlanHandler {
	return &PlanHandler{
		sessions: sessions,
		repo:     repo,
		storage:  storage,
		renderer: mapper.NewRenderer(mapper.DefaultScale),
	}
}

// Register подключает маршруты планировщика к router.
func (h *PlanHandler) Register(router fiber.Router) {
	router.Get("/catalog", h.GetCatalog)

	router.Post("/plans", h.CreatePlan)
	router.Get("/plans/:id", h.GetPlan)
	router.Delete("/plans/:id", h.ClosePlan)

	// Сессия рисования
	router.Post("/plans/:id/floor", h.SetFloor)
	router.Post("/plans/:id/drawing", h.SetDrawing)
	router.Post("/plans/:id/points", h.AddPoint)
	router.Delete("/plans/:id/points/last", h.UndoPoint)
	router.Delete("/plans/:id/points", h.ResetDrawing)
	router.Post("/plans/:id/close", h.TryClose)
	router.Post("/plans/:id/naming", h.SetNaming)
	router.Post("/plans/:id/rooms", h.SubmitRoom)

	// Комнаты
	router.Delete("/plans/:id/rooms/:roomId", h.RemoveRoom)
	router.Post("/plans/:id/rooms/import", h.ImportRoom)

	// Блоки
	router.Post("/plans/:id/blocks", h.AddBlock)
	router.Patch("/plans/:id/blocks/:instanceId", h.MoveBlock)
	router.Delete("/plans/:id/blocks/:instanceId", h.RemoveBlock)
	router.Post("/plans/:id/blocks/:instanceId/rotate", h.RotateBlock)

	// Жизненный цикл плана
	router.Post("/plans/:id/reset", h.ResetPlan)
	router.Post("/plans/:id/save", h.SavePlan)
	router.Post("/plans/:id/restore", h.RestorePlan)
	router.Get("/plans/:id/svg", h.GetSVG)
	router.Post("/plans/:id/export", h.ExportPlan)
}

// ============================================================
// DTOs
// ============================================================

type floorRequest struct {
	Floor *int `json:"floor" validate:"required"`
}

type toggleRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// Лимиты координат совпадают с geometry.MaxCoordinate.
type pointRequest struct {
	X *float64 `json:"x" validate:"required,gte=-100000,lte=100000"`
	Y *float64 `json:"y" validate:"required,gte=-100000,lte=100000"`
}

// Отрицательные координаты блока допустимы: они обрезаются до 0.
type moveBlockRequest struct {
	X *float64 `json:"x" validate:"required,gte=-100000,lte=100000"`
	Y *float64 `json:"y" validate:"required,gte=-100000,lte=100000"`
}

type submitRoomRequest struct {
	Name  string `json:"name" validate:"max=120"`
	Floor *int   `json:"floor,omitempty"`
}

type importRoomRequest struct {
	Name  string  `json:"name" validate:"max=120"`
	Path  string  `json:"path" validate:"required,max=20000"`
	Scale float64 `json:"scale,omitempty" validate:"omitempty,gt=0"`
	Floor *int    `json:"floor,omitempty"`
}

type addBlockRequest struct {
	BlockID string  `json:"blockId" validate:"required"`
	X       float64 `json:"x" validate:"gte=-100000,lte=100000"`
	Y       float64 `json:"y" validate:"gte=-100000,lte=100000"`
}

type createPlanResponse struct {
	ID       string          `json:"id"`
	Snapshot models.Snapshot `json:"snapshot"`
}

type actionResponse struct {
	Result   models.Result   `json:"result"`
	Snapshot models.Snapshot `json:"snapshot"`
}

type roomResponse struct {
	Result   models.Result       `json:"result"`
	Room     *models.RoomPolygon `json:"room,omitempty"`
	Snapshot models.Snapshot     `json:"snapshot"`
}

type blockResponse struct {
	Result   models.Result       `json:"result"`
	Block    *models.PlacedBlock `json:"block,omitempty"`
	Snapshot models.Snapshot     `json:"snapshot"`
}

type exportResponse struct {
	JSON string   `json:"json"`
	SVG  []string `json:"svg"`
}

// ============================================================
// Catalog & sessions
// ============================================================

// GetCatalog отдаёт каталог блоков; ?category= фильтрует по категории.
func (h *PlanHandler) GetCatalog(c fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		blocks := catalog.ByCategory()[models.Category(category)]
		if blocks == nil {
			blocks = []models.BlockDescriptor{}
		}
		return c.JSON(blocks)
	}
	return c.JSON(catalog.All())
}

func (h *PlanHandler) CreatePlan(c fiber.Ctx) error {
	id := h.sessions.Issue()
	logger.Log.Infof("[PLANNER] Session %s opened", id)

	var snap models.Snapshot
	if err := h.sessions.With(id, func(s *store.Store) error {
		snap = s.Snapshot()
		return nil
	}); err != nil {
		return h.sessionError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(createPlanResponse{ID: id, Snapshot: snap})
}

func (h *PlanHandler) GetPlan(c fiber.Ctx) error {
	var snap models.Snapshot
	if err := h.sessions.With(c.Params("id"), func(s *store.Store) error {
		snap = s.Snapshot()
		return nil
	}); err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(snap)
}

// ClosePlan завершает сессию; ?purge=true также удаляет сохранённый план.
func (h *PlanHandler) ClosePlan(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.sessions.Close(id) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
	}

	if c.Query("purge") == "true" {
		err := h.repo.Delete(context.Background(), repository.StorageKey(id))
		if err != nil && !errors.Is(err, repository.ErrPlanNotFound) {
			logger.Log.Errorf("[PLANNER] Purge %s failed: %v", id, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete plan"})
		}
	}

	logger.Log.Infof("[PLANNER] Session %s closed", id)
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Drawing session
// ============================================================

func (h *PlanHandler) SetFloor(c fiber.Ctx) error {
	var req floorRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.act(c, func(s *store.Store) models.Result {
		return s.SetActiveFloor(*req.Floor)
	})
}

func (h *PlanHandler) SetDrawing(c fiber.Ctx) error {
	var req toggleRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.act(c, func(s *store.Store) models.Result {
		return s.SetIsDrawing(*req.Value)
	})
}

// AddPoint добавляет вершину; координаты привязываются к шагу 0.5.
func (h *PlanHandler) AddPoint(c fiber.Ctx) error {
	var req pointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	p := geometry.SnapPoint(geometry.Point{X: *req.X, Y: *req.Y}, geometry.DrawSnap)
	return h.act(c, func(s *store.Store) models.Result {
		return s.AddPoint(p.X, p.Y)
	})
}

func (h *PlanHandler) UndoPoint(c fiber.Ctx) error {
	return h.act(c, func(s *store.Store) models.Result {
		return s.UndoLastPoint()
	})
}

func (h *PlanHandler) ResetDrawing(c fiber.Ctx) error {
	return h.act(c, func(s *store.Store) models.Result {
		return s.ResetDrawing()
	})
}

func (h *PlanHandler) TryClose(c fiber.Ctx) error {
	var req pointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	p := geometry.SnapPoint(geometry.Point{X: *req.X, Y: *req.Y}, geometry.DrawSnap)
	return h.act(c, func(s *store.Store) models.Result {
		return s.TryClose(p.X, p.Y)
	})
}

func (h *PlanHandler) SetNaming(c fiber.Ctx) error {
	var req toggleRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.act(c, func(s *store.Store) models.Result {
		return s.SetNamingRoom(*req.Value)
	})
}

// SubmitRoom сохраняет контур как комнату. Без floor берётся активный этаж.
func (h *PlanHandler) SubmitRoom(c fiber.Ctx) error {
	var req submitRoomRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	var resp roomResponse
	err := h.sessions.With(c.Params("id"), func(s *store.Store) error {
		floor := s.Snapshot().ActiveFloor
		if req.Floor != nil {
			floor = *req.Floor
		}
		room, res := s.SubmitRoom(req.Name, floor)
		resp.Result = res
		if res.Applied {
			resp.Room = &room
		}
		resp.Snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return h.sessionError(c, err)
	}

	if resp.Room != nil {
		logger.Log.Infof("[PLANNER] Room %q added: %d sq ft, $%d", resp.Room.Name, resp.Room.SqFt, resp.Room.Cost)
	}
	return c.JSON(resp)
}

// ============================================================
// Rooms
// ============================================================

func (h *PlanHandler) RemoveRoom(c fiber.Ctx) error {
	roomID := c.Params("roomId")
	return h.act(c, func(s *store.Store) models.Result {
		return s.RemoveRoom(roomID)
	})
}

// ImportRoom проигрывает SVG-контур через сессию рисования: старт, точки,
// замыкание у первой точки и сохранение. Незавершённый контур отбрасывается.
func (h *PlanHandler) ImportRoom(c fiber.Ctx) error {
	var req importRoomRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	scale := req.Scale
	if scale == 0 {
		scale = 1
	}
	outline, err := mapper.ParseOutline(req.Path, scale)
	if err != nil {
		return badRequest(c, err)
	}
	outline = snapOutline(outline)
	if err := checkOutline(outline); err != nil {
		return badRequest(c, err)
	}

	var resp roomResponse
	err = h.sessions.With(c.Params("id"), func(s *store.Store) error {
		resp.Result = replayOutline(s, outline, req.Name, req.Floor)
		if resp.Result.Applied {
			rooms := s.Snapshot().Rooms
			room := rooms[len(rooms)-1]
			resp.Room = &room
		}
		resp.Snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return h.sessionError(c, err)
	}

	logger.Log.Debugf("[PLANNER] Import of %d points: %+v", len(outline), resp.Result)
	return c.JSON(resp)
}

func replayOutline(s *store.Store, outline []geometry.Point, name string, floor *int) models.Result {
	if s.Session().IsDrawing {
		s.SetIsDrawing(false)
	}
	s.SetIsDrawing(true)

	for _, p := range outline {
		if res := s.AddPoint(p.X, p.Y); !res.Applied && res.Reason != models.ReasonDuplicatePoint {
			s.SetIsDrawing(false)
			return res
		}
	}

	start := s.Session().ActivePoints
	if len(start) == 0 {
		s.SetIsDrawing(false)
		return models.Rejected(models.ReasonTooFewPoints)
	}
	if res := s.TryClose(start[0].X, start[0].Y); !res.Applied {
		s.SetIsDrawing(false)
		return res
	}

	target := s.Snapshot().ActiveFloor
	if floor != nil {
		target = *floor
	}
	_, res := s.SubmitRoom(name, target)
	if !res.Applied {
		s.SetIsDrawing(false)
	}
	return res
}

// maxImportPoints ограничивает контур импорта: проверка самопересечения
// квадратична и идёт под блокировкой сессии.
const maxImportPoints = 256

func checkOutline(points []geometry.Point) error {
	if len(points) > maxImportPoints {
		return fmt.Errorf("outline has %d points, max %d", len(points), maxImportPoints)
	}
	for _, p := range points {
		if !geometry.InRange(p.X) || !geometry.InRange(p.Y) {
			return fmt.Errorf("point (%v, %v) outside the grid", p.X, p.Y)
		}
	}
	return nil
}

// snapOutline привязывает точки к сетке и убирает вершины, слившиеся
// после привязки, включая совпавшую с первой.
func snapOutline(points []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, 0, len(points))
	for _, p := range points {
		p = geometry.SnapPoint(p, geometry.DrawSnap)
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// ============================================================
// Blocks
// ============================================================

// AddBlock ставит блок каталога на активный этаж. Координаты обрезаются
// до >= 0 и привязываются к целой клетке.
func (h *PlanHandler) AddBlock(c fiber.Ctx) error {
	var req addBlockRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	desc, ok := catalog.Lookup(req.BlockID)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "unknown block: " + req.BlockID})
	}
	x, y := blockCoord(req.X), blockCoord(req.Y)

	var resp blockResponse
	err := h.sessions.With(c.Params("id"), func(s *store.Store) error {
		block, res := s.AddBlock(desc, x, y)
		resp.Result = res
		if res.Applied {
			resp.Block = &block
		}
		resp.Snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

func (h *PlanHandler) MoveBlock(c fiber.Ctx) error {
	var req moveBlockRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	instanceID := c.Params("instanceId")
	x, y := blockCoord(*req.X), blockCoord(*req.Y)
	return h.act(c, func(s *store.Store) models.Result {
		return s.MoveBlock(instanceID, x, y)
	})
}

func (h *PlanHandler) RemoveBlock(c fiber.Ctx) error {
	instanceID := c.Params("instanceId")
	return h.act(c, func(s *store.Store) models.Result {
		return s.RemoveBlock(instanceID)
	})
}

func (h *PlanHandler) RotateBlock(c fiber.Ctx) error {
	instanceID := c.Params("instanceId")
	return h.act(c, func(s *store.Store) models.Result {
		return s.RotateBlock(instanceID)
	})
}

// blockCoord обрезает координату до [0, MaxCoordinate] и привязывает к клетке.
func blockCoord(v float64) int {
	v = math.Min(math.Max(0, v), geometry.MaxCoordinate)
	return int(geometry.Snap(v, geometry.BlockSnap))
}

// ============================================================
// Plan lifecycle
// ============================================================

func (h *PlanHandler) ResetPlan(c fiber.Ctx) error {
	return h.act(c, func(s *store.Store) models.Result {
		s.ResetPlan()
		return models.Applied()
	})
}

// SavePlan сохраняет план (без сессии рисования) под ключом сессии.
func (h *PlanHandler) SavePlan(c fiber.Ctx) error {
	id := c.Params("id")

	var plan models.Plan
	if err := h.sessions.With(id, func(s *store.Store) error {
		plan = s.Plan()
		return nil
	}); err != nil {
		return h.sessionError(c, err)
	}

	if err := h.repo.Save(context.Background(), repository.StorageKey(id), plan); err != nil {
		logger.Log.Errorf("[PLANNER] Save %s failed: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save plan"})
	}

	logger.Log.Infof("[PLANNER] Plan %s saved: %d rooms, %d blocks", id, len(plan.Rooms), len(plan.PlacedBlocks))
	return c.JSON(fiber.Map{"key": repository.StorageKey(id), "version": models.PlanVersion})
}

// RestorePlan загружает сохранённый план; итоги пересчитываются.
func (h *PlanHandler) RestorePlan(c fiber.Ctx) error {
	id := c.Params("id")

	plan, err := h.repo.Load(context.Background(), repository.StorageKey(id))
	switch {
	case errors.Is(err, repository.ErrPlanNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no saved plan"})
	case errors.Is(err, repository.ErrUnsupportedVersion):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.Log.Errorf("[PLANNER] Load %s failed: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plan"})
	}

	var snap models.Snapshot
	err = h.sessions.With(id, func(s *store.Store) error {
		if err := s.Restore(*plan); err != nil {
			return err
		}
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidPlan) || errors.Is(err, store.ErrUnsupportedVersion) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return h.sessionError(c, err)
	}
	return c.JSON(snap)
}

// GetSVG рисует один этаж; по умолчанию активный.
func (h *PlanHandler) GetSVG(c fiber.Ctx) error {
	var (
		plan  models.Plan
		count int
	)
	if err := h.sessions.With(c.Params("id"), func(s *store.Store) error {
		plan = s.Plan()
		count = s.FloorCount()
		return nil
	}); err != nil {
		return h.sessionError(c, err)
	}

	floor := plan.ActiveFloor
	if raw := c.Query("floor"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v >= count {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid floor"})
		}
		floor = v
	}

	svg, err := h.renderer.Render(plan, floor)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ExportPlan пишет plan.json и SVG каждого этажа в каталог плана.
func (h *PlanHandler) ExportPlan(c fiber.Ctx) error {
	id := c.Params("id")

	var (
		plan  models.Plan
		count int
	)
	if err := h.sessions.With(id, func(s *store.Store) error {
		plan = s.Plan()
		count = s.FloorCount()
		return nil
	}); err != nil {
		return h.sessionError(c, err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode plan"})
	}

	resp := exportResponse{JSON: h.storage.JSONPath(id)}
	if err := h.storage.SaveFile(id, resp.JSON, data); err != nil {
		logger.Log.Errorf("[PLANNER] Export %s failed: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to write plan"})
	}

	for floor := 0; floor < count; floor++ {
		svg, err := h.renderer.Render(plan, floor)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		target := h.storage.SVGPath(id, floor)
		if err := h.storage.SaveFile(id, target, []byte(svg)); err != nil {
			logger.Log.Errorf("[PLANNER] Export %s floor %d failed: %v", id, floor, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to write svg"})
		}
		resp.SVG = append(resp.SVG, target)
	}

	logger.Log.Infof("[PLANNER] Plan %s exported to %s", id, h.storage.PlanDir(id))
	return c.JSON(resp)
}

// ============================================================
// Helpers
// ============================================================

// act выполняет действие над планом и отвечает результатом и снимком.
// Отклонённое действие не ошибка: 200 с applied=false и причиной.
func (h *PlanHandler) act(c fiber.Ctx, fn func(*store.Store) models.Result) error {
	var resp actionResponse
	err := h.sessions.With(c.Params("id"), func(s *store.Store) error {
		resp.Result = fn(s)
		resp.Snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return h.sessionError(c, err)
	}

	if !resp.Result.Applied {
		logger.Log.Debugf("[PLANNER] %s %s rejected: %s", c.Method(), c.Path(), resp.Result.Reason)
	}
	return c.JSON(resp)
}

func (h *PlanHandler) sessionError(c fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
	}
	logger.Log.Errorf("[PLANNER] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func decode(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return errors.New("invalid json")
	}
	return planValidate.Struct(dst)
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
