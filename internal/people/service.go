// Package people implements the person ledger: person CRUD with
// merge-patch updates, the derived meeting counters, thumbnail handling
// and the biometric identify operation.
package people

import (
	"context"
	"encoding/base64"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/your-org/conversa/internal/apperr"
	"github.com/your-org/conversa/internal/ident"
	"github.com/your-org/conversa/internal/match"
	"github.com/your-org/conversa/internal/models"
	"github.com/your-org/conversa/internal/storage"
)

const defaultListLimit = 100

type Service struct {
	store     storage.Store
	blobs     storage.BlobStore
	newID     ident.Generator
	threshold float64
}

// NewService wires the ledger. threshold is the default match confidence
// bound used when an identify request does not carry one.
func NewService(store storage.Store, blobs storage.BlobStore, newID ident.Generator, threshold float64) *Service {
	if newID == nil {
		newID = ident.New
	}
	if threshold == 0 {
		threshold = match.DefaultThreshold
	}
	return &Service{store: store, blobs: blobs, newID: newID, threshold: threshold}
}

// CreateInput carries the fields for a new person. FaceEmbedding arrives
// in wire form (decimal strings); FaceThumbnailBase64 is decoded to raw
// bytes before storage.
type CreateInput struct {
	Name                string
	Role                string
	AvatarColor         string
	Context             string
	Interests           []string
	OpenFollowUps       []string
	PhysicalDescription string
	FaceEmbedding       []string
	FaceThumbnailBase64 string
}

func (in CreateInput) validate() error {
	return apperr.FromOzzo(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Role, validation.Required),
		validation.Field(&in.AvatarColor, validation.Required),
		validation.Field(&in.Context, validation.Required),
	))
}

// UpdateInput is a merge-patch: nil fields are left untouched.
type UpdateInput struct {
	Name                *string
	Role                *string
	AvatarColor         *string
	Context             *string
	Interests           *[]string
	OpenFollowUps       *[]string
	PhysicalDescription *string
	FaceEmbedding       *[]string
	FaceThumbnailBase64 *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Person{
		ID:                  s.newID(ident.KindPerson),
		Name:                in.Name,
		Role:                in.Role,
		AvatarColor:         in.AvatarColor,
		Context:             in.Context,
		Interests:           in.Interests,
		OpenFollowUps:       in.OpenFollowUps,
		PhysicalDescription: in.PhysicalDescription,
	}

	if len(in.FaceEmbedding) > 0 {
		vec, err := match.ParseVector(in.FaceEmbedding)
		if err != nil {
			return nil, err
		}
		p.FaceEmbedding = vec
	}

	if in.FaceThumbnailBase64 != "" {
		key, err := s.storeThumbnail(ctx, p.ID, in.FaceThumbnailBase64)
		if err != nil {
			return nil, err
		}
		p.ThumbnailKey = key
	}

	if err := s.store.CreatePerson(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Person, error) {
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("person", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.Person, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListPersons(ctx, offset, limit)
}

// Update applies a merge-patch: only non-nil input fields overwrite the
// stored record. Counters (met_count, last_met) never move here.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Person, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Role != nil {
		p.Role = *in.Role
	}
	if in.AvatarColor != nil {
		p.AvatarColor = *in.AvatarColor
	}
	if in.Context != nil {
		p.Context = *in.Context
	}
	if in.Interests != nil {
		p.Interests = *in.Interests
	}
	if in.OpenFollowUps != nil {
		p.OpenFollowUps = *in.OpenFollowUps
	}
	if in.PhysicalDescription != nil {
		p.PhysicalDescription = *in.PhysicalDescription
	}
	if in.FaceEmbedding != nil {
		vec, err := match.ParseVector(*in.FaceEmbedding)
		if err != nil {
			return nil, err
		}
		p.FaceEmbedding = vec
	}
	if in.FaceThumbnailBase64 != nil {
		key, err := s.storeThumbnail(ctx, p.ID, *in.FaceThumbnailBase64)
		if err != nil {
			return nil, err
		}
		p.ThumbnailKey = key
	}

	if err := s.store.UpdatePerson(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the person and, as one unit, their conversations and
// those conversations' action items. The stored thumbnail goes with them.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.store.DeletePerson(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("person", id)
	}
	if p.ThumbnailKey != "" && s.blobs != nil {
		_ = s.blobs.Delete(ctx, p.ThumbnailKey)
	}
	return nil
}

// Thumbnail returns the stored raw thumbnail bytes for a person.
func (s *Service) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ThumbnailKey == "" || s.blobs == nil {
		return nil, apperr.NotFound("thumbnail", id)
	}
	data, err := s.blobs.Get(ctx, p.ThumbnailKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, apperr.NotFound("thumbnail", id)
	}
	return data, nil
}

// Identify matches a probe embedding (wire form) against every person
// carrying face data. A nil threshold selects the configured default.
func (s *Service) Identify(ctx context.Context, probe []string, threshold *float64) (match.Result, error) {
	vec, err := match.ParseVector(probe)
	if err != nil {
		return match.Result{}, err
	}
	th := s.threshold
	if threshold != nil {
		th = *threshold
	}
	candidates, err := s.store.ListCandidates(ctx)
	if err != nil {
		return match.Result{}, err
	}
	return match.Best(vec, candidates, th)
}

// LastMetLabel derives the last_met value from a conversation date label:
// everything before the first "•", trimmed of whitespace. A label without
// the delimiter is used verbatim. The counter bump itself happens inside
// Store.RecordConversation's transaction.
func LastMetLabel(dateLabel string) string {
	label, _, _ := strings.Cut(dateLabel, "•")
	return strings.TrimSpace(label)
}

func (s *Service) storeThumbnail(ctx context.Context, personID, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", apperr.Validation("face_thumbnail_base64", "not valid base64")
	}
	if s.blobs == nil {
		return "", nil
	}
	key := "thumbnails/" + personID
	if err := s.blobs.Put(ctx, key, raw, "image/jpeg"); err != nil {
		return "", err
	}
	return key, nil
}
