package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const memoryScheme = "memory://"

// MemoryStorage keeps objects in process. Used by tests and by the server
// when no MinIO endpoint is configured.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	folder  string
	objects map[string][]byte
}

func NewMemoryStorage(bucket, folder string) *MemoryStorage {
	return &MemoryStorage{bucket: bucket, folder: folder, objects: map[string][]byte{}}
}

func (m *MemoryStorage) Upload(_ context.Context, data []byte, _ string) (*Object, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	key := newKey(m.folder)
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), data...)
	m.mu.Unlock()
	return &Object{URL: memoryScheme + m.bucket + "/" + key, ID: key}, nil
}

func (m *MemoryStorage) Download(_ context.Context, rawURL string) ([]byte, error) {
	prefix := memoryScheme + m.bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return nil, fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	key := strings.TrimPrefix(rawURL, prefix)
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.objects, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Ping(context.Context) error { return nil }

// Len returns the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
