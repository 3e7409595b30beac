package people

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/conversa/internal/apperr"
	"github.com/your-org/conversa/internal/ident"
	"github.com/your-org/conversa/internal/storage"
)

func sequentialIDs() ident.Generator {
	n := 0
	return func(kind ident.Kind) string {
		n++
		return fmt.Sprintf("%s%d", kind.Prefix(), n)
	}
}

func newTestService() (*Service, *storage.MemoryStore, *storage.MemoryBlobStore) {
	store := storage.NewMemoryStore()
	blobs := storage.NewMemoryBlobStore()
	return NewService(store, blobs, sequentialIDs(), 0), store, blobs
}

func validCreate() CreateInput {
	return CreateInput{
		Name:        "Sarah Chen",
		Role:        "Product Lead",
		AvatarColor: "bg-indigo-200",
		Context:     "Met at a conference.",
		Interests:   []string{"Ceramics"},
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 0, p.MetCount)
	assert.Empty(t, p.LastMet)
	assert.False(t, p.HasFaceData())
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()

	in := validCreate()
	in.Name = ""
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateWithFaceData(t *testing.T) {
	svc, _, blobs := newTestService()

	in := validCreate()
	in.FaceEmbedding = []string{"0.1", "0.2", "0.3"}
	in.FaceThumbnailBase64 = base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, p.HasFaceData())
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, p.FaceEmbedding)

	data, err := blobs.Get(context.Background(), p.ThumbnailKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestCreateMalformedEmbedding(t *testing.T) {
	svc, _, _ := newTestService()

	in := validCreate()
	in.FaceEmbedding = []string{"0.1", "oops"}
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateBadThumbnail(t *testing.T) {
	svc, _, _ := newTestService()

	in := validCreate()
	in.FaceThumbnailBase64 = "%%%not-base64%%%"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "p404")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateMergePatch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	role := "Founder"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Role: &role})
	require.NoError(t, err)

	assert.Equal(t, "Founder", updated.Role)
	// Everything not named by the patch stays as created.
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.AvatarColor, updated.AvatarColor)
	assert.Equal(t, created.Context, updated.Context)
	assert.Equal(t, created.Interests, updated.Interests)
	assert.Equal(t, created.MetCount, updated.MetCount)
	assert.Equal(t, created.LastMet, updated.LastMet)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	name := "Nobody"
	_, err := svc.Update(context.Background(), "p404", UpdateInput{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	svc, store, blobs := newTestService()
	ctx := context.Background()

	in := validCreate()
	in.FaceThumbnailBase64 = base64.StdEncoding.EncodeToString([]byte("thumb"))
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	data, err := blobs.Get(ctx, "thumbnails/"+p.ID)
	require.NoError(t, err)
	assert.Nil(t, data)

	got, err := store.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	assert.ErrorIs(t, svc.Delete(context.Background(), "p404"), apperr.ErrNotFound)
}

func TestThumbnailMissing(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = svc.Thumbnail(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIdentify(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	in := validCreate()
	in.FaceEmbedding = []string{"1", "0", "0"}
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	// Person without face data must never be a candidate.
	_, err = svc.Create(ctx, validCreate())
	require.NoError(t, err)

	result, err := svc.Identify(ctx, []string{"0.99", "0.01", "0"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, p.ID, result.PersonID)
	assert.Equal(t, p.Name, result.PersonName)

	// A stricter explicit threshold overrides the configured default.
	strict := 0.99999999
	result, err = svc.Identify(ctx, []string{"0.5", "0.5", "0"}, &strict)
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestIdentifyEmptyProbe(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Identify(context.Background(), nil, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLastMetLabel(t *testing.T) {
	assert.Equal(t, "Jan 16", LastMetLabel("Jan 16 • 2:30 PM"))
	assert.Equal(t, "Jan 16", LastMetLabel("Jan 16"))
	assert.Equal(t, "", LastMetLabel("  •  "))
}
