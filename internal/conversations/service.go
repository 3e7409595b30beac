// Package conversations implements the conversation recorder: atomic
// conversation+action-item creation with the person meeting side effect,
// merge-patch updates, explicit cascade deletes and the read-side
// aggregation of active action items.
package conversations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/your-org/conversa/internal/apperr"
	"github.com/your-org/conversa/internal/ident"
	"github.com/your-org/conversa/internal/models"
	"github.com/your-org/conversa/internal/people"
	"github.com/your-org/conversa/internal/storage"
)

const defaultListLimit = 100

type Service struct {
	store storage.Store
	newID ident.Generator
}

func NewService(store storage.Store, newID ident.Generator) *Service {
	if newID == nil {
		newID = ident.New
	}
	return &Service{store: store, newID: newID}
}

// ActionItemDraft is an action item as supplied on conversation creation.
type ActionItemDraft struct {
	Text      string
	Completed bool
}

type CreateInput struct {
	PersonID       string
	Participants   []string
	Title          string
	Date           string
	Location       string
	Summary        string
	KeyPoints      []string
	FullTranscript string
	ActionItems    []ActionItemDraft
}

func (in CreateInput) validate() error {
	if err := apperr.FromOzzo(validation.ValidateStruct(&in,
		validation.Field(&in.PersonID, validation.Required),
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Location, validation.Required),
		validation.Field(&in.Summary, validation.Required),
	)); err != nil {
		return err
	}
	for _, draft := range in.ActionItems {
		if draft.Text == "" {
			return apperr.Validation("action_items", "item text must not be empty")
		}
	}
	return nil
}

// UpdateInput is a merge-patch: nil fields are left untouched. Updating
// date or person_id does not re-trigger the meeting side effect.
type UpdateInput struct {
	PersonID       *string
	Participants   *[]string
	Title          *string
	Date           *string
	Location       *string
	Summary        *string
	KeyPoints      *[]string
	FullTranscript *string
}

// ActionItemPatch is a merge-patch on a single action item.
type ActionItemPatch struct {
	Text      *string
	Completed *bool
}

// ListItem is the listing projection of a conversation, including the
// derived count of open action items.
type ListItem struct {
	ID                     string   `json:"id"`
	PersonID               string   `json:"person_id"`
	Participants           []string `json:"participants"`
	Title                  string   `json:"title"`
	Date                   string   `json:"date"`
	Location               string   `json:"location"`
	Summary                string   `json:"summary"`
	ActiveActionItemsCount int      `json:"active_action_items_count"`
}

// Create records a conversation: the conversation row, its action items in
// input order and the person's met_count/last_met all land in one store
// transaction, or not at all.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Conversation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	person, err := s.store.GetPerson(ctx, in.PersonID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, apperr.NotFound("person", in.PersonID)
	}

	conv := &models.Conversation{
		ID:             s.newID(ident.KindConversation),
		PersonID:       in.PersonID,
		Participants:   in.Participants,
		Title:          in.Title,
		Date:           in.Date,
		Location:       in.Location,
		Summary:        in.Summary,
		KeyPoints:      in.KeyPoints,
		FullTranscript: in.FullTranscript,
	}
	for _, draft := range in.ActionItems {
		conv.ActionItems = append(conv.ActionItems, models.ActionItem{
			ID:             s.newID(ident.KindActionItem),
			ConversationID: conv.ID,
			Text:           draft.Text,
			Completed:      draft.Completed,
		})
	}

	ok, err := s.store.RecordConversation(ctx, conv, people.LastMetLabel(in.Date))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("person", in.PersonID)
	}
	return conv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("conversation", id)
	}
	return conv, nil
}

// List returns conversation summaries, newest first, optionally filtered
// by person. The active item count is computed here and never persisted.
func (s *Service) List(ctx context.Context, personID string, offset, limit int) ([]ListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	convs, err := s.store.ListConversations(ctx, personID, offset, limit)
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(convs))
	for i := range convs {
		conv := &convs[i]
		items = append(items, ListItem{
			ID:                     conv.ID,
			PersonID:               conv.PersonID,
			Participants:           conv.Participants,
			Title:                  conv.Title,
			Date:                   conv.Date,
			Location:               conv.Location,
			Summary:                conv.Summary,
			ActiveActionItemsCount: ActiveActionItems(conv),
		})
	}
	return items, nil
}

// Update applies a merge-patch to the conversation. It never touches the
// owned action items or the person's counters.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Conversation, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PersonID != nil {
		conv.PersonID = *in.PersonID
	}
	if in.Participants != nil {
		conv.Participants = *in.Participants
	}
	if in.Title != nil {
		conv.Title = *in.Title
	}
	if in.Date != nil {
		conv.Date = *in.Date
	}
	if in.Location != nil {
		conv.Location = *in.Location
	}
	if in.Summary != nil {
		conv.Summary = *in.Summary
	}
	if in.KeyPoints != nil {
		conv.KeyPoints = *in.KeyPoints
	}
	if in.FullTranscript != nil {
		conv.FullTranscript = *in.FullTranscript
	}

	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Delete removes the conversation and every action item it owns as one
// atomic unit.
func (s *Service) Delete(ctx context.Context, id string) error {
	found, err := s.store.DeleteConversation(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("conversation", id)
	}
	return nil
}

// UpdateActionItem merge-patches the item identified by the
// (conversation, item) pair. An item id that belongs to a different
// conversation is NotFound. Returns the refreshed parent conversation so
// callers observe the new state without a second fetch.
func (s *Service) UpdateActionItem(ctx context.Context, conversationID, itemID string, patch ActionItemPatch) (*models.Conversation, error) {
	item, err := s.store.GetActionItem(ctx, conversationID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("action_item", itemID)
	}

	if patch.Text != nil {
		if *patch.Text == "" {
			return nil, apperr.Validation("text", "must not be empty")
		}
		item.Text = *patch.Text
	}
	if patch.Completed != nil {
		item.Completed = *patch.Completed
	}

	found, err := s.store.UpdateActionItem(ctx, item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("action_item", itemID)
	}
	return s.Get(ctx, conversationID)
}

// ActiveActionItems counts the conversation's not-yet-completed items.
func ActiveActionItems(conv *models.Conversation) int {
	count := 0
	for _, item := range conv.ActionItems {
		if !item.Completed {
			count++
		}
	}
	return count
}
