package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/conversa/internal/conversations"
	"github.com/your-org/conversa/internal/people"
	"github.com/your-org/conversa/internal/storage"
)

func newTestRouter(t *testing.T, apiKey string) *gin.Engine {
	t.Helper()
	store := storage.NewMemoryStore()
	blobs := storage.NewMemoryBlobStore()
	return NewRouter(RouterConfig{
		APIKey: apiKey,
		Store:  store,
		People: people.NewService(store, blobs, nil, 0),
		Convs:  conversations.NewService(store, nil),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, "")
	w := doJSON(t, r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	r := newTestRouter(t, "s3cret")

	w := doJSON(t, r, http.MethodGet, "/api/v1/people", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/people", nil, map[string]string{"X-API-Key": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPersonLifecycle(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/people", map[string]interface{}{
		"name":         "Sarah Chen",
		"role":         "Product Lead",
		"avatar_color": "bg-indigo-200",
		"context":      "Met at a conference.",
		"interests":    []string{"Ceramics"},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	decode(t, w, &created)
	id := created["id"].(string)
	assert.Equal(t, float64(0), created["met_count"])
	assert.Equal(t, false, created["has_face_data"])

	// Merge-patch: only role changes.
	w = doJSON(t, r, http.MethodPut, "/api/v1/people/"+id, map[string]interface{}{"role": "Founder"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]interface{}
	decode(t, w, &updated)
	assert.Equal(t, "Founder", updated["role"])
	assert.Equal(t, "Sarah Chen", updated["name"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/people/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/people/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePersonMissingFields(t *testing.T) {
	r := newTestRouter(t, "")
	w := doJSON(t, r, http.MethodPost, "/api/v1/people", map[string]interface{}{"name": "Only Name"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationLifecycle(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/people", map[string]interface{}{
		"name":         "David Miller",
		"role":         "Architect",
		"avatar_color": "bg-emerald-200",
		"context":      "Old friend.",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var person map[string]interface{}
	decode(t, w, &person)
	personID := person["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/v1/conversations", map[string]interface{}{
		"person_id": personID,
		"title":     "Catch-up",
		"date":      "Jan 14 • 6:00 PM",
		"location":  "The Jazz Corner",
		"summary":   "Casual catch-up.",
		"action_items": []map[string]interface{}{
			{"text": "Send Kyoto recommendations"},
			{"text": "Book dinner", "completed": true},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var conv map[string]interface{}
	decode(t, w, &conv)
	convID := conv["id"].(string)
	items := conv["action_items"].([]interface{})
	require.Len(t, items, 2)
	itemID := items[0].(map[string]interface{})["id"].(string)

	// The recording bumped the person's counters.
	w = doJSON(t, r, http.MethodGet, "/api/v1/people/"+personID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &person)
	assert.Equal(t, float64(1), person["met_count"])
	assert.Equal(t, "Jan 14", person["last_met"])

	// Listing carries the active item count.
	w = doJSON(t, r, http.MethodGet, "/api/v1/conversations?person_id="+personID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, float64(1), list[0]["active_action_items_count"])

	// Patching an item returns the whole parent conversation.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/conversations/"+convID+"/action-items/"+itemID,
		map[string]interface{}{"completed": true}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &conv)
	assert.Equal(t, convID, conv["id"])
	patched := conv["action_items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, patched["completed"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/conversations/"+convID, nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/v1/conversations/"+convID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationUnknownPerson(t *testing.T) {
	r := newTestRouter(t, "")
	w := doJSON(t, r, http.MethodPost, "/api/v1/conversations", map[string]interface{}{
		"person_id": "p404",
		"title":     "Ghost meeting",
		"date":      "Jan 01 • 9:00 AM",
		"location":  "Nowhere",
		"summary":   "Never happened.",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFaceMatchFlow(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/people", map[string]interface{}{
		"name":           "Elena Rostova",
		"role":           "Investor",
		"avatar_color":   "bg-orange-200",
		"context":        "Intro by Sarah.",
		"face_embedding": []string{"1", "0", "0"},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var person map[string]interface{}
	decode(t, w, &person)

	w = doJSON(t, r, http.MethodPost, "/api/v1/people/match", map[string]interface{}{
		"face_embedding": []string{"0.99", "0.01", "0"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result map[string]interface{}
	decode(t, w, &result)
	assert.Equal(t, true, result["matched"])
	assert.Equal(t, person["id"], result["person_id"])

	// Orthogonal probe falls below the default threshold.
	w = doJSON(t, r, http.MethodPost, "/api/v1/people/match", map[string]interface{}{
		"face_embedding": []string{"0", "0", "1"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unmatched map[string]interface{}
	decode(t, w, &unmatched)
	assert.Equal(t, false, unmatched["matched"])
	assert.NotContains(t, unmatched, "person_id")

	// Malformed probe values are a validation failure.
	w = doJSON(t, r, http.MethodPost, "/api/v1/people/match", map[string]interface{}{
		"face_embedding": []string{"nope"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
