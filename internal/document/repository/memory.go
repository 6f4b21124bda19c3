package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/NithinKS007/PDF-extractor-server/internal/document"
)

// MemoryRepo is an in-memory registry used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.PdfDocument
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.PdfDocument)}
}

func (m *MemoryRepo) Create(_ context.Context, d *document.PdfDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.OwnerID == d.OwnerID && existing.FileName == d.FileName {
			return ErrDuplicateName
		}
	}
	stamp(d)
	cp := *d
	m.store[d.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*document.PdfDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ExistsByOwnerAndName(_ context.Context, ownerID, fileName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.store {
		if d.OwnerID == ownerID && d.FileName == fileName {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepo) List(_ context.Context, opts ListOptions) ([]*document.PdfDocument, int64, error) {
	m.mu.RLock()
	prefix := strings.ToLower(opts.Prefix)
	var matched []*document.PdfDocument
	for _, d := range m.store {
		if d.OwnerID != opts.OwnerID {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(d.FileName), prefix) {
			continue
		}
		cp := *d
		matched = append(matched, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Offset >= total {
		return []*document.PdfDocument{}, total, nil
	}
	end := total
	if opts.Limit > 0 && opts.Limit < total-opts.Offset {
		end = opts.Offset + opts.Limit
	}
	return matched[opts.Offset:end], total, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
