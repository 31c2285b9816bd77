package storage

import (
	"context"
	"sync"

	"github.com/nikolayk812/cartstate/internal/port"
)

type memoryStorage struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() port.Storage {
	return &memoryStorage{m: make(map[string]string)}
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memoryStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = value
	return nil
}
