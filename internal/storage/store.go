// Package storage provides the record store behind the core services:
// a Postgres implementation for production and an in-memory one for tests.
package storage

import (
	"context"

	"github.com/your-org/conversa/internal/match"
	"github.com/your-org/conversa/internal/models"
)

// Store is the durable record store contract. Lookups return (nil, nil)
// when the record is absent; delete operations report whether anything was
// removed. Multi-record writes (RecordConversation, the cascade deletes)
// are atomic: either every write lands or none do.
type Store interface {
	CreatePerson(ctx context.Context, p *models.Person) error
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	ListPersons(ctx context.Context, offset, limit int) ([]models.Person, error)
	UpdatePerson(ctx context.Context, p *models.Person) error
	// DeletePerson removes the person, their conversations and those
	// conversations' action items as one unit.
	DeletePerson(ctx context.Context, id string) (bool, error)

	// RecordConversation atomically inserts the conversation, its action
	// items (in slice order) and bumps the person's met_count / last_met.
	// Returns false without writing anything when the person is absent.
	// The increment happens store-side so concurrent recordings for the
	// same person never lose an update.
	RecordConversation(ctx context.Context, conv *models.Conversation, lastMet string) (bool, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context, personID string, offset, limit int) ([]models.Conversation, error)
	UpdateConversation(ctx context.Context, conv *models.Conversation) error
	// DeleteConversation removes the conversation and all of its action
	// items as one unit.
	DeleteConversation(ctx context.Context, id string) (bool, error)

	GetActionItem(ctx context.Context, conversationID, itemID string) (*models.ActionItem, error)
	// UpdateActionItem writes the item scoped to its conversation and
	// reports whether the (conversation, item) pair resolved.
	UpdateActionItem(ctx context.Context, item *models.ActionItem) (bool, error)

	// ListCandidates returns every person carrying a face embedding, in a
	// stable order.
	ListCandidates(ctx context.Context) ([]match.Candidate, error)

	Ping(ctx context.Context) error
}

// BlobStore holds opaque binary payloads (face thumbnails) by key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
