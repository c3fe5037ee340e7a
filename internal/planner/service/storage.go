package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage раскладывает экспорты планов по каталогам сессий.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) PlanDir(planID string) string {
	return filepath.Join(s.root, planID)
}

func (s *FileStorage) JSONPath(planID string) string {
	return filepath.Join(s.PlanDir(planID), "plan.json")
}

func (s *FileStorage) SVGDir(planID string) string {
	return filepath.Join(s.PlanDir(planID), "svg")
}

func (s *FileStorage) SVGPath(planID string, floor int) string {
	return filepath.Join(s.SVGDir(planID), fmt.Sprintf("floor-%d.svg", floor))
}

func (s *FileStorage) EnsureDir(planID string) error {
	if err := os.MkdirAll(s.SVGDir(planID), 0o755); err != nil {
		return fmt.Errorf("mkdir plan dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(planID, target string, data []byte) error {
	if err := s.EnsureDir(planID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// Probe проверяет, что в корень хранилища можно писать.
func (s *FileStorage) Probe() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir storage root: %w", err)
	}
	f, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
