package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/your-org/conversa/internal/match"
	"github.com/your-org/conversa/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local development.
// A single mutex serializes every write, which makes each multi-record
// operation trivially atomic.
type MemoryStore struct {
	mu            sync.RWMutex
	people        map[string]models.Person
	conversations map[string]models.Conversation
	items         map[string][]models.ActionItem // keyed by conversation id, insertion order
	seq           int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		people:        make(map[string]models.Person),
		conversations: make(map[string]models.Conversation),
		items:         make(map[string][]models.ActionItem),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// now returns a strictly increasing timestamp so list ordering stays
// stable even when the clock does not advance between writes.
func (s *MemoryStore) now() time.Time {
	s.seq++
	return time.Now().Add(time.Duration(s.seq) * time.Nanosecond)
}

// --- Persons ---

func (s *MemoryStore) CreatePerson(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	s.people[p.ID] = clonePerson(*p)
	return nil
}

func (s *MemoryStore) GetPerson(_ context.Context, id string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, nil
	}
	cp := clonePerson(p)
	return &cp, nil
}

func (s *MemoryStore) ListPersons(_ context.Context, offset, limit int) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Person, 0, len(s.people))
	for _, p := range s.people {
		all = append(all, clonePerson(p))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, offset, limit), nil
}

func (s *MemoryStore) UpdatePerson(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.people[p.ID]
	if !ok {
		return nil
	}
	updated := clonePerson(*p)
	// Counters move only through RecordConversation.
	updated.MetCount = existing.MetCount
	updated.LastMet = existing.LastMet
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.people[p.ID] = updated
	p.MetCount = updated.MetCount
	p.LastMet = updated.LastMet
	p.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *MemoryStore) DeletePerson(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[id]; !ok {
		return false, nil
	}
	for convID, conv := range s.conversations {
		if conv.PersonID == id {
			delete(s.items, convID)
			delete(s.conversations, convID)
		}
	}
	delete(s.people, id)
	return true, nil
}

// --- Conversations ---

func (s *MemoryStore) RecordConversation(_ context.Context, conv *models.Conversation, lastMet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	person, ok := s.people[conv.PersonID]
	if !ok {
		return false, nil
	}
	ts := s.now()
	person.MetCount++
	person.LastMet = lastMet
	person.UpdatedAt = ts
	s.people[person.ID] = person

	conv.CreatedAt = ts
	conv.UpdatedAt = ts
	for i := range conv.ActionItems {
		conv.ActionItems[i].CreatedAt = ts
		conv.ActionItems[i].UpdatedAt = ts
	}
	stored := cloneConversation(*conv)
	s.items[conv.ID] = stored.ActionItems
	stored.ActionItems = nil
	s.conversations[conv.ID] = stored
	return true, nil
}

func (s *MemoryStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := cloneConversation(conv)
	cp.ActionItems = cloneItems(s.items[id])
	return &cp, nil
}

func (s *MemoryStore) ListConversations(_ context.Context, personID string, offset, limit int) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []models.Conversation
	for id, conv := range s.conversations {
		if personID != "" && conv.PersonID != personID {
			continue
		}
		cp := cloneConversation(conv)
		cp.ActionItems = cloneItems(s.items[id])
		all = append(all, cp)
	}
	// Newest first, id as tie-break for stability.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, offset, limit), nil
}

func (s *MemoryStore) UpdateConversation(_ context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.conversations[conv.ID]
	if !ok {
		return nil
	}
	updated := cloneConversation(*conv)
	updated.ActionItems = nil
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.conversations[conv.ID] = updated
	conv.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteConversation(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	delete(s.conversations, id)
	return true, nil
}

// --- Action items ---

func (s *MemoryStore) GetActionItem(_ context.Context, conversationID, itemID string) (*models.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items[conversationID] {
		if item.ID == itemID {
			cp := item
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateActionItem(_ context.Context, item *models.ActionItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[item.ConversationID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Text = item.Text
			items[i].Completed = item.Completed
			items[i].UpdatedAt = s.now()
			item.UpdatedAt = items[i].UpdatedAt
			return true, nil
		}
	}
	return false, nil
}

// --- Match candidates ---

func (s *MemoryStore) ListCandidates(_ context.Context) ([]match.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var people []models.Person
	for _, p := range s.people {
		if len(p.FaceEmbedding) > 0 {
			people = append(people, p)
		}
	}
	sort.Slice(people, func(i, j int) bool {
		if !people[i].CreatedAt.Equal(people[j].CreatedAt) {
			return people[i].CreatedAt.Before(people[j].CreatedAt)
		}
		return people[i].ID < people[j].ID
	})
	candidates := make([]match.Candidate, 0, len(people))
	for _, p := range people {
		candidates = append(candidates, match.Candidate{
			PersonID: p.ID,
			Name:     p.Name,
			Vector:   append([]float32(nil), p.FaceEmbedding...),
		})
	}
	return candidates, nil
}

// --- helpers ---

func clonePerson(p models.Person) models.Person {
	p.Interests = append([]string(nil), p.Interests...)
	p.OpenFollowUps = append([]string(nil), p.OpenFollowUps...)
	p.FaceEmbedding = append([]float32(nil), p.FaceEmbedding...)
	return p
}

func cloneConversation(c models.Conversation) models.Conversation {
	c.Participants = append([]string(nil), c.Participants...)
	c.KeyPoints = append([]string(nil), c.KeyPoints...)
	c.ActionItems = cloneItems(c.ActionItems)
	return c
}

func cloneItems(items []models.ActionItem) []models.ActionItem {
	if items == nil {
		return nil
	}
	return append([]models.ActionItem(nil), items...)
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// MemoryBlobStore is an in-memory BlobStore for tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
