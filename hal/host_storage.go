//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// dirStorage keeps each file under root. Writes go through a temp file and
// a rename so a crash never leaves a torn file behind.
type dirStorage struct {
	mu   sync.Mutex
	root string
}

func newDirStorage(root string) (*dirStorage, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &dirStorage{root: root}, nil
}

// OpenDir returns a Storage rooted at dir, creating dir if needed.
func OpenDir(dir string) (Storage, error) {
	s, err := newDirStorage(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *dirStorage) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("storage: invalid name %q: %w", name, fs.ErrInvalid)
	}
	return filepath.Join(s.root, name), nil
}

func (s *dirStorage) ReadFile(name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return b, nil
}

func (s *dirStorage) WriteFile(name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(p), filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}
