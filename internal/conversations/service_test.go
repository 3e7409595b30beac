package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/conversa/internal/apperr"
	"github.com/your-org/conversa/internal/ident"
	"github.com/your-org/conversa/internal/models"
	"github.com/your-org/conversa/internal/storage"
)

func sequentialIDs() ident.Generator {
	n := 0
	return func(kind ident.Kind) string {
		n++
		return fmt.Sprintf("%s%d", kind.Prefix(), n)
	}
}

func newTestService(t *testing.T) (*Service, *storage.MemoryStore, *models.Person) {
	t.Helper()
	store := storage.NewMemoryStore()
	person := &models.Person{
		ID:          "p1",
		Name:        "Sarah Chen",
		Role:        "Product Lead",
		AvatarColor: "bg-indigo-200",
		Context:     "Met at a conference.",
	}
	require.NoError(t, store.CreatePerson(context.Background(), person))
	return NewService(store, sequentialIDs()), store, person
}

func validCreate(personID string) CreateInput {
	return CreateInput{
		PersonID: personID,
		Title:    "Roadmap Review",
		Date:     "Jan 16 • 2:30 PM",
		Location: "Blue Bottle Coffee",
		Summary:  "Discussed the Q3 beta roadmap.",
		ActionItems: []ActionItemDraft{
			{Text: "Mock up onboarding flow"},
			{Text: "Send calendar invite"},
			{Text: "Connect on LinkedIn", Completed: true},
		},
	}
}

func TestCreateBumpsPersonCounters(t *testing.T) {
	svc, store, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ID)
	require.Len(t, conv.ActionItems, 3)
	assert.Equal(t, "Mock up onboarding flow", conv.ActionItems[0].Text)
	assert.Equal(t, conv.ID, conv.ActionItems[0].ConversationID)

	got, err := store.GetPerson(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MetCount)
	assert.Equal(t, "Jan 16", got.LastMet)

	_, err = svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	got, err = store.GetPerson(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MetCount)
}

func TestCreateUnknownPersonLeavesNoTrace(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate("p404"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	items, err := svc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := store.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.MetCount)
}

func TestCreateValidation(t *testing.T) {
	svc, _, person := newTestService(t)

	in := validCreate(person.ID)
	in.Title = ""
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = validCreate(person.ID)
	in.ActionItems = append(in.ActionItems, ActionItemDraft{Text: ""})
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListComputesActiveCount(t *testing.T) {
	svc, _, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)

	items, err := svc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	// Three items, one already completed.
	assert.Equal(t, 2, items[0].ActiveActionItemsCount)
	assert.Equal(t, conv.ID, items[0].ID)
}

func TestListFiltersByPerson(t *testing.T) {
	svc, store, person := newTestService(t)
	ctx := context.Background()

	other := &models.Person{ID: "p2", Name: "David Miller"}
	require.NoError(t, store.CreatePerson(ctx, other))

	_, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate(other.ID))
	require.NoError(t, err)

	items, err := svc.List(ctx, other.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].PersonID)

	items, err = svc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUpdateDoesNotRepeatMeetingSideEffect(t *testing.T) {
	svc, store, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)

	date := "Feb 02 • 9:00 AM"
	updated, err := svc.Update(ctx, conv.ID, UpdateInput{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, date, updated.Date)

	got, err := store.GetPerson(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MetCount)
	assert.Equal(t, "Jan 16", got.LastMet)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	title := "New title"
	_, err := svc.Update(context.Background(), "c404", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteRemovesActionItems(t *testing.T) {
	svc, store, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	itemID := conv.ActionItems[0].ID

	require.NoError(t, svc.Delete(ctx, conv.ID))

	_, err = svc.Get(ctx, conv.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	item, err := store.GetActionItem(ctx, conv.ID, itemID)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "c404"), apperr.ErrNotFound)
}

func TestUpdateActionItemReturnsParent(t *testing.T) {
	svc, _, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	itemID := conv.ActionItems[0].ID

	done := true
	parent, err := svc.UpdateActionItem(ctx, conv.ID, itemID, ActionItemPatch{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, conv.ID, parent.ID)

	var patched *models.ActionItem
	for i := range parent.ActionItems {
		if parent.ActionItems[i].ID == itemID {
			patched = &parent.ActionItems[i]
		}
	}
	require.NotNil(t, patched)
	assert.True(t, patched.Completed)
	assert.Equal(t, 1, ActiveActionItems(parent))
}

func TestUpdateActionItemScopedToConversation(t *testing.T) {
	svc, _, person := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)
	second, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)

	// Item exists, but under the other conversation.
	done := true
	_, err = svc.UpdateActionItem(ctx, second.ID, first.ActionItems[0].ID, ActionItemPatch{Completed: &done})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateActionItemEmptyText(t *testing.T) {
	svc, _, person := newTestService(t)
	ctx := context.Background()

	conv, err := svc.Create(ctx, validCreate(person.ID))
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateActionItem(ctx, conv.ID, conv.ActionItems[0].ID, ActionItemPatch{Text: &empty})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestActiveActionItems(t *testing.T) {
	conv := &models.Conversation{ActionItems: []models.ActionItem{
		{Completed: false},
		{Completed: true},
		{Completed: false},
	}}
	assert.Equal(t, 2, ActiveActionItems(conv))
	assert.Equal(t, 0, ActiveActionItems(&models.Conversation{}))
}
