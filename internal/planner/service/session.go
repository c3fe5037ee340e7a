package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"plan-builder/internal/common/logger"
	"plan-builder/internal/planner/store"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

var ErrSessionNotFound = errors.New("session not found")

// session владеет одним Store; mu сериализует все действия над ним.
type session struct {
	mu       sync.Mutex
	store    *store.Store
	lastUsed time.Time // под SessionManager.mu
}

type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*session // id -> сессия редактирования
	floorCount int
	now        func() time.Time
}

func NewSessionManager(floorCount int) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*session),
		floorCount: floorCount,
		now:        time.Now,
	}
}

// Issue открывает новую сессию редактирования с пустым планом.
func (m *SessionManager) Issue() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.sessions[id] = &session{store: store.New(m.floorCount), lastUsed: m.now()}
	return id
}

// With выполняет fn под блокировкой сессии. Действия над одним планом
// никогда не выполняются параллельно.
func (m *SessionManager) With(id string, fn func(*store.Store) error) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		sess.lastUsed = m.now()
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.store)
}

func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ============================================================
// Idle sweep
// ============================================================

// Sweep закрывает сессии, к которым не обращались дольше maxIdle, и
// возвращает их число. Сохранённые планы не трогаются.
func (m *SessionManager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	removed := 0
	for id, sess := range m.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper вызывает Sweep каждые interval до отмены ctx.
func (m *SessionManager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				logger.Log.Infof("[SESSIONS] Closed %d idle sessions, %d active", n, m.Count())
			}
		}
	}
}
