package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"plan-builder/internal/planner/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager(t *testing.T) {
	m := NewSessionManager(store.DefaultFloorCount)

	id := m.Issue()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, m.Count())

	err := m.With(id, func(s *store.Store) error {
		assert.True(t, s.SetIsDrawing(true).Applied)
		return nil
	})
	require.NoError(t, err)

	err = m.With(id, func(s *store.Store) error {
		assert.True(t, s.Snapshot().IsDrawing, "state survives between calls")
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	assert.ErrorIs(t, m.With("missing", func(*store.Store) error { return nil }), ErrSessionNotFound)

	assert.True(t, m.Close(id))
	assert.False(t, m.Close(id))
	assert.ErrorIs(t, m.With(id, func(*store.Store) error { return nil }), ErrSessionNotFound)
}

func TestSessionManagerSerializesActions(t *testing.T) {
	m := NewSessionManager(store.DefaultFloorCount)
	id := m.Issue()
	require.NoError(t, m.With(id, func(s *store.Store) error {
		s.SetIsDrawing(true)
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.With(id, func(s *store.Store) error {
				s.AddPoint(float64(i), 0)
				return nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, m.With(id, func(s *store.Store) error {
		assert.Len(t, s.Snapshot().ActivePoints, 50)
		return nil
	}))
}

func TestFileStorage(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStorage(root)

	assert.Equal(t, filepath.Join(root, "p1", "plan.json"), fs.JSONPath("p1"))
	assert.Equal(t, filepath.Join(root, "p1", "svg", "floor-1.svg"), fs.SVGPath("p1", 1))

	require.NoError(t, fs.SaveFile("p1", fs.SVGPath("p1", 0), []byte("<svg/>")))
	data, err := os.ReadFile(fs.SVGPath("p1", 0))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestFileStorageProbe(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "plans")
	fs := NewFileStorage(root)
	require.NoError(t, fs.Probe())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	assert.Error(t, NewFileStorage(filepath.Join(blocker, "sub")).Probe())
}

func TestSessionManagerSweep(t *testing.T) {
	m := NewSessionManager(store.DefaultFloorCount)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	stale := m.Issue()
	clock = clock.Add(30 * time.Minute)
	fresh := m.Issue()

	clock = clock.Add(45 * time.Minute)
	// обращение продлевает жизнь сессии
	require.NoError(t, m.With(stale, func(*store.Store) error { return nil }))
	clock = clock.Add(30 * time.Minute)

	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Equal(t, 1, m.Count())
	assert.ErrorIs(t, m.With(fresh, func(*store.Store) error { return nil }), ErrSessionNotFound)
	assert.NoError(t, m.With(stale, func(*store.Store) error { return nil }))

	assert.Equal(t, 0, m.Sweep(time.Hour))
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	m := NewSessionManager(store.DefaultFloorCount)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
