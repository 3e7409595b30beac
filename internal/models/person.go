package models

import "time"

type Person struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Role                string    `json:"role" db:"role"`
	AvatarColor         string    `json:"avatar_color" db:"avatar_color"`
	Context             string    `json:"context" db:"context"`
	Interests           []string  `json:"interests" db:"interests"`
	OpenFollowUps       []string  `json:"open_follow_ups" db:"open_follow_ups"`
	PhysicalDescription string    `json:"physical_description,omitempty" db:"physical_description"`
	FaceEmbedding       []float32 `json:"-" db:"face_embedding"`
	ThumbnailKey        string    `json:"-" db:"thumbnail_key"`
	LastMet             string    `json:"last_met,omitempty" db:"last_met"`
	MetCount            int       `json:"met_count" db:"met_count"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// HasFaceData reports whether the person carries a usable face embedding.
// Derived at read time, never stored.
func (p *Person) HasFaceData() bool {
	return len(p.FaceEmbedding) > 0
}
