package dto

import (
	"github.com/your-org/conversa/internal/models"
	"github.com/your-org/conversa/internal/people"
)

type CreatePersonRequest struct {
	Name                string   `json:"name" binding:"required"`
	Role                string   `json:"role" binding:"required"`
	AvatarColor         string   `json:"avatar_color" binding:"required"`
	Context             string   `json:"context" binding:"required"`
	Interests           []string `json:"interests"`
	OpenFollowUps       []string `json:"open_follow_ups"`
	PhysicalDescription string   `json:"physical_description"`
	FaceEmbedding       []string `json:"face_embedding"`
	FaceThumbnailBase64 string   `json:"face_thumbnail_base64"`
}

func (r CreatePersonRequest) Input() people.CreateInput {
	return people.CreateInput{
		Name:                r.Name,
		Role:                r.Role,
		AvatarColor:         r.AvatarColor,
		Context:             r.Context,
		Interests:           r.Interests,
		OpenFollowUps:       r.OpenFollowUps,
		PhysicalDescription: r.PhysicalDescription,
		FaceEmbedding:       r.FaceEmbedding,
		FaceThumbnailBase64: r.FaceThumbnailBase64,
	}
}

// UpdatePersonRequest is a merge-patch: absent fields stay untouched.
type UpdatePersonRequest struct {
	Name                *string   `json:"name"`
	Role                *string   `json:"role"`
	AvatarColor         *string   `json:"avatar_color"`
	Context             *string   `json:"context"`
	Interests           *[]string `json:"interests"`
	OpenFollowUps       *[]string `json:"open_follow_ups"`
	PhysicalDescription *string   `json:"physical_description"`
	FaceEmbedding       *[]string `json:"face_embedding"`
	FaceThumbnailBase64 *string   `json:"face_thumbnail_base64"`
}

func (r UpdatePersonRequest) Input() people.UpdateInput {
	return people.UpdateInput{
		Name:                r.Name,
		Role:                r.Role,
		AvatarColor:         r.AvatarColor,
		Context:             r.Context,
		Interests:           r.Interests,
		OpenFollowUps:       r.OpenFollowUps,
		PhysicalDescription: r.PhysicalDescription,
		FaceEmbedding:       r.FaceEmbedding,
		FaceThumbnailBase64: r.FaceThumbnailBase64,
	}
}

type PersonResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	AvatarColor         string   `json:"avatar_color"`
	Context             string   `json:"context"`
	Interests           []string `json:"interests"`
	OpenFollowUps       []string `json:"open_follow_ups"`
	PhysicalDescription string   `json:"physical_description,omitempty"`
	LastMet             string   `json:"last_met,omitempty"`
	MetCount            int      `json:"met_count"`
	HasFaceData         bool     `json:"has_face_data"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// PersonListItem is the compact projection used by list responses.
type PersonListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AvatarColor string `json:"avatar_color"`
	LastMet     string `json:"last_met,omitempty"`
	MetCount    int    `json:"met_count"`
	Context     string `json:"context"`
	HasFaceData bool   `json:"has_face_data"`
}

func NewPersonResponse(p *models.Person) PersonResponse {
	return PersonResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Role:                p.Role,
		AvatarColor:         p.AvatarColor,
		Context:             p.Context,
		Interests:           emptySlice(p.Interests),
		OpenFollowUps:       emptySlice(p.OpenFollowUps),
		PhysicalDescription: p.PhysicalDescription,
		LastMet:             p.LastMet,
		MetCount:            p.MetCount,
		HasFaceData:         p.HasFaceData(),
		CreatedAt:           p.CreatedAt.Format(timeLayout),
		UpdatedAt:           p.UpdatedAt.Format(timeLayout),
	}
}

func NewPersonListItem(p *models.Person) PersonListItem {
	return PersonListItem{
		ID:          p.ID,
		Name:        p.Name,
		Role:        p.Role,
		AvatarColor: p.AvatarColor,
		LastMet:     p.LastMet,
		MetCount:    p.MetCount,
		Context:     p.Context,
		HasFaceData: p.HasFaceData(),
	}
}

// FaceMatchRequest identifies a person from a probe embedding. The
// embedding components are decimal values encoded as strings so they
// survive transport without floating-point drift.
type FaceMatchRequest struct {
	FaceEmbedding []string `json:"face_embedding" binding:"required"`
	Threshold     *float64 `json:"threshold"`
}

type FaceMatchResponse struct {
	Matched    bool    `json:"matched"`
	PersonID   string  `json:"person_id,omitempty"`
	PersonName string  `json:"person_name,omitempty"`
	Confidence float64 `json:"confidence"`
}
