package api_test

import (
	"net/http"
	"testing"
	"time"

	"alcyxob/bodytrack/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(v float64) *float64 { return &v }

func daysAgo(n int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -n)
	return &t
}

func TestProgressRetentionFollowsPlan(t *testing.T) {
	s := newTestServer(t)
	clientToken, clientID := s.registerClient(t, "lucia@example.com")
	trainerToken, _ := s.registerTrainer(t, "marco@example.com")

	for _, req := range []api.ProgressRequest{
		{Date: daysAgo(10), Weight: weight(70)},
		{Date: daysAgo(200), Weight: weight(78)},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/progress/client/"+clientID, clientToken, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// The free plan only shows the last three months to the client.
	w := s.do(t, http.MethodGet, "/api/v1/progress/client/"+clientID, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[api.ProgressListResponse](t, w)
	assert.Len(t, view.Records, 1)
	assert.Equal(t, "FREE", string(view.Plan))
	assert.NotNil(t, view.VisibleSince)

	// Staff always see everything.
	w = s.do(t, http.MethodGet, "/api/v1/progress/client/"+clientID, trainerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[api.ProgressListResponse](t, w)
	assert.Len(t, view.Records, 2)
	assert.Nil(t, view.VisibleSince)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", clientToken, api.PurchaseRequest{Plan: "PREMIUM"}).Code)

	w = s.do(t, http.MethodGet, "/api/v1/progress/client/"+clientID, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[api.ProgressListResponse](t, w).Records, 2)

	w = s.do(t, http.MethodGet, "/api/v1/progress/client/"+clientID+"/stats", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, stats["records"])
	assert.EqualValues(t, -8, stats["weightChange"])
}

func TestProgressOwnership(t *testing.T) {
	s := newTestServer(t)
	luciaToken, luciaID := s.registerClient(t, "lucia@example.com")
	pedroToken, pedroID := s.registerClient(t, "pedro@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/progress/client/"+pedroID, luciaToken, api.ProgressRequest{Weight: weight(70)})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/progress/client/"+pedroID, luciaToken, nil).Code)

	w = s.do(t, http.MethodPost, "/api/v1/progress/client/"+luciaID, luciaToken, api.ProgressRequest{Weight: weight(70)})
	require.Equal(t, http.StatusCreated, w.Code)
	recordID := decode[map[string]any](t, w)["id"].(string)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/progress/"+recordID, pedroToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/v1/progress/"+recordID, pedroToken, nil).Code)

	w = s.do(t, http.MethodGet, "/api/v1/progress/"+recordID, luciaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	record := decode[api.ProgressRecordResponse](t, w)
	assert.Empty(t, record.PhotoURLs)

	notes := "felt strong"
	w = s.do(t, http.MethodPut, "/api/v1/progress/"+recordID, luciaToken, api.ProgressRequest{Notes: &notes})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, notes, decode[map[string]any](t, w)["notes"])

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/progress/"+recordID, luciaToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/progress/"+recordID, luciaToken, nil).Code)
}

func TestProgressValidation(t *testing.T) {
	s := newTestServer(t)
	token, clientID := s.registerClient(t, "lucia@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/progress/client/"+clientID, token, api.ProgressRequest{Weight: weight(-1)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/progress/client/"+clientID, token, api.ProgressRequest{BodyFatPct: weight(120)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/progress/client/"+clientID, token, api.ProgressRequest{PhotoKeys: []string{"progress/someone-else/x.jpg"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoUploadURL(t *testing.T) {
	s := newTestServer(t)
	token, clientID := s.registerClient(t, "lucia@example.com")
	path := "/api/v1/progress/client/" + clientID + "/photos/upload-url"

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, path, token, api.PhotoUploadRequest{ContentType: "application/pdf"}).Code)
	// The test server runs without object storage.
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodPost, path, token, api.PhotoUploadRequest{ContentType: "image/jpeg"}).Code)
}
