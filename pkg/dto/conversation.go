package dto

import (
	"github.com/your-org/conversa/internal/conversations"
	"github.com/your-org/conversa/internal/models"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type ActionItemCreate struct {
	Text      string `json:"text" binding:"required"`
	Completed bool   `json:"completed"`
}

type CreateConversationRequest struct {
	PersonID       string             `json:"person_id" binding:"required"`
	Participants   []string           `json:"participants"`
	Title          string             `json:"title" binding:"required"`
	Date           string             `json:"date" binding:"required"`
	Location       string             `json:"location" binding:"required"`
	Summary        string             `json:"summary" binding:"required"`
	KeyPoints      []string           `json:"key_points"`
	FullTranscript string             `json:"full_transcript"`
	ActionItems    []ActionItemCreate `json:"action_items"`
}

func (r CreateConversationRequest) Input() conversations.CreateInput {
	in := conversations.CreateInput{
		PersonID:       r.PersonID,
		Participants:   r.Participants,
		Title:          r.Title,
		Date:           r.Date,
		Location:       r.Location,
		Summary:        r.Summary,
		KeyPoints:      r.KeyPoints,
		FullTranscript: r.FullTranscript,
	}
	for _, item := range r.ActionItems {
		in.ActionItems = append(in.ActionItems, conversations.ActionItemDraft{
			Text:      item.Text,
			Completed: item.Completed,
		})
	}
	return in
}

// UpdateConversationRequest is a merge-patch: absent fields stay untouched.
type UpdateConversationRequest struct {
	PersonID       *string   `json:"person_id"`
	Participants   *[]string `json:"participants"`
	Title          *string   `json:"title"`
	Date           *string   `json:"date"`
	Location       *string   `json:"location"`
	Summary        *string   `json:"summary"`
	KeyPoints      *[]string `json:"key_points"`
	FullTranscript *string   `json:"full_transcript"`
}

func (r UpdateConversationRequest) Input() conversations.UpdateInput {
	return conversations.UpdateInput{
		PersonID:       r.PersonID,
		Participants:   r.Participants,
		Title:          r.Title,
		Date:           r.Date,
		Location:       r.Location,
		Summary:        r.Summary,
		KeyPoints:      r.KeyPoints,
		FullTranscript: r.FullTranscript,
	}
}

// UpdateActionItemRequest is a merge-patch on one action item.
type UpdateActionItemRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

func (r UpdateActionItemRequest) Patch() conversations.ActionItemPatch {
	return conversations.ActionItemPatch{Text: r.Text, Completed: r.Completed}
}

type ActionItemResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type ConversationResponse struct {
	ID             string               `json:"id"`
	PersonID       string               `json:"person_id"`
	Participants   []string             `json:"participants"`
	Title          string               `json:"title"`
	Date           string               `json:"date"`
	Location       string               `json:"location"`
	Summary        string               `json:"summary"`
	KeyPoints      []string             `json:"key_points"`
	FullTranscript string               `json:"full_transcript,omitempty"`
	ActionItems    []ActionItemResponse `json:"action_items"`
	CreatedAt      string               `json:"created_at"`
	UpdatedAt      string               `json:"updated_at"`
}

// ConversationListItem mirrors the service listing projection.
type ConversationListItem = conversations.ListItem

func NewConversationResponse(conv *models.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:             conv.ID,
		PersonID:       conv.PersonID,
		Participants:   emptySlice(conv.Participants),
		Title:          conv.Title,
		Date:           conv.Date,
		Location:       conv.Location,
		Summary:        conv.Summary,
		KeyPoints:      emptySlice(conv.KeyPoints),
		FullTranscript: conv.FullTranscript,
		ActionItems:    make([]ActionItemResponse, 0, len(conv.ActionItems)),
		CreatedAt:      conv.CreatedAt.Format(timeLayout),
		UpdatedAt:      conv.UpdatedAt.Format(timeLayout),
	}
	for _, item := range conv.ActionItems {
		resp.ActionItems = append(resp.ActionItems, ActionItemResponse{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		})
	}
	return resp
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
