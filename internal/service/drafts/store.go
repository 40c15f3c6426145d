// Package drafts remembers manual entries between visits until they are
// committed, keyed by document id (for example "cashbook:2025-01-20").
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrInvalidID is returned for blank document ids.
var ErrInvalidID = errors.New("draft id is required")

// Draft is an uncommitted document as last sent by the client.
type Draft struct {
	ID        string          `json:"id"`
	Document  json.RawMessage `json:"document"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store gets and sets drafts by document id.
type Store interface {
	Get(ctx context.Context, id string) (Draft, bool, error)
	Set(ctx context.Context, id string, document json.RawMessage) (Draft, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	drafts map[string]Draft
	mu     sync.RWMutex
	now    func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Draft),
		now:    time.Now,
	}
}

// Get returns the draft stored under id, if any.
func (s *MemoryStore) Get(_ context.Context, id string) (Draft, bool, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Draft{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, false, nil
	}
	d.Document = append(json.RawMessage(nil), d.Document...)
	return d, true, nil
}

// Set replaces the draft stored under id.
func (s *MemoryStore) Set(_ context.Context, id string, document json.RawMessage) (Draft, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Draft{}, err
	}
	if !json.Valid(document) {
		return Draft{}, errors.New("draft document must be valid JSON")
	}
	d := Draft{
		ID:        id,
		Document:  append(json.RawMessage(nil), document...),
		UpdatedAt: s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = d
	return d, nil
}

// Delete drops the draft stored under id, typically once it was committed.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	return id, nil
}
