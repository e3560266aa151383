package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ============================================================
// Export Storage
// ============================================================

var ErrBadFilename = errors.New("invalid design file name")

// ExportStorage хранит выгруженные JSON-файлы схем по каталогам сессий:
// <root>/<sessionID>/<circuit-design-YYYY-MM-DD.json>
type ExportStorage struct {
	root string
}

type StoredFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

func NewExportStorage(root string) *ExportStorage {
	return &ExportStorage{root: root}
}

func (s *ExportStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// FilePath проверяет имя и возвращает путь внутри каталога сессии.
func (s *ExportStorage) FilePath(sessionID, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		return "", fmt.Errorf("%w: %q", ErrBadFilename, name)
	}
	return filepath.Join(s.SessionDir(sessionID), name), nil
}

func (s *ExportStorage) EnsureDir(sessionID string) error {
	path := s.SessionDir(sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	return nil
}

func (s *ExportStorage) SaveFile(sessionID, name string, data []byte) error {
	target, err := s.FilePath(sessionID, name)
	if err != nil {
		return err
	}
	if err := s.EnsureDir(sessionID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *ExportStorage) ReadFile(sessionID, name string) ([]byte, error) {
	target, err := s.FilePath(sessionID, name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(target)
}

// List: файлы сессии, новые первыми. Отсутствующий каталог дает пустой список.
func (s *ExportStorage) List(sessionID string) ([]StoredFile, error) {
	entries, err := os.ReadDir(s.SessionDir(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []StoredFile{}, nil
		}
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Modified.Equal(files[j].Modified) {
			return files[i].Name > files[j].Name
		}
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}
