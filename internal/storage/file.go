package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikolayk812/cartstate/internal/port"
)

// fileStorage keeps all keys in a single JSON object on disk, the way a
// browser keeps localStorage for an origin.
type fileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) port.Storage {
	return &fileStorage{path: path}
}

func (s *fileStorage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", false, err
	}

	v, ok := entries[key]
	return v, ok, nil
}

func (s *fileStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = value

	return s.write(entries)
}

func (s *fileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("file[%s] is not valid: %w", s.path, err)
	}

	return entries, nil
}

// write replaces the file via rename so a crash never leaves half a document.
func (s *fileStorage) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
