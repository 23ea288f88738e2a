package recipe

import (
	"context"
	"sort"
	"sync"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string][]Attribute
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string][]Attribute{}}
}

func (m *memRepo) ListByOwner(ctx context.Context, kind Kind, ownerID int64) ([]Attribute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Attribute, 0)
	for _, a := range m.rows[kind.Table] {
		if a.UserID == ownerID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID > out[j].ID
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, kind Kind, attr Attribute) (Attribute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	attr.ID = m.nextID
	m.rows[kind.Table] = append(m.rows[kind.Table], attr)
	return attr, nil
}

func (m *memRepo) count(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[kind.Table])
}

var _ Repository = (*memRepo)(nil)
