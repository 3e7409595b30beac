package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	for kind, prefix := range map[Kind]string{
		KindPerson:       "p",
		KindConversation: "c",
		KindActionItem:   "a",
	} {
		id := New(kind)
		assert.Len(t, id, 9)
		assert.Equal(t, prefix, id[:1])
		assert.Equal(t, prefix, kind.Prefix())
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New(KindPerson)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
