// Package ident generates entity identifiers: a kind-specific prefix letter
// followed by the first 8 hex characters of a random UUID.
package ident

import "github.com/google/uuid"

type Kind string

const (
	KindPerson       Kind = "person"
	KindConversation Kind = "conversation"
	KindActionItem   Kind = "action_item"
)

var prefixes = map[Kind]string{
	KindPerson:       "p",
	KindConversation: "c",
	KindActionItem:   "a",
}

// Prefix returns the single-letter id prefix for the kind.
func (k Kind) Prefix() string {
	return prefixes[k]
}

// Generator produces a new identifier for the given entity kind. Services
// accept a Generator so tests can inject deterministic ids.
type Generator func(kind Kind) string

// New is the default Generator.
func New(kind Kind) string {
	id := uuid.New()
	return kind.Prefix() + id.String()[:8]
}
