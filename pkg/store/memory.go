package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps documents in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func (s *MemoryStore) Save(_ context.Context, doc *Document) error {
	if err := ValidateID(doc.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.docs[doc.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *doc
	return &cp, nil
}

// List omits the rendered SVG from the returned documents.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Document, error) {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		cp := *d
		cp.SVG = ""
		docs = append(docs, &cp)
	}
	s.mu.RUnlock()

	sortNewestFirst(docs)
	return docs[:min(len(docs), normalizeLimit(limit))], nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders by creation time, breaking ties by ID so listing is
// deterministic.
func sortNewestFirst(docs []*Document) {
	slices.SortFunc(docs, func(a, b *Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
