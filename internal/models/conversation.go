package models

import "time"

type Conversation struct {
	ID             string       `json:"id" db:"id"`
	PersonID       string       `json:"person_id" db:"person_id"`
	Participants   []string     `json:"participants" db:"participants"`
	Title          string       `json:"title" db:"title"`
	Date           string       `json:"date" db:"date"`
	Location       string       `json:"location" db:"location"`
	Summary        string       `json:"summary" db:"summary"`
	KeyPoints      []string     `json:"key_points" db:"key_points"`
	FullTranscript string       `json:"full_transcript,omitempty" db:"full_transcript"`
	ActionItems    []ActionItem `json:"action_items" db:"-"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

type ActionItem struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Text           string    `json:"text" db:"text"`
	Completed      bool      `json:"completed" db:"completed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
