package game

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store *mockStore, ledger *mockLedger) *mux.Router {
	svc, _ := newTestService(store, ledger)
	h := NewHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/start-game", h.StartGame).Methods(http.MethodPost)
	r.HandleFunc("/api/submit-shot", h.SubmitShot).Methods(http.MethodPost)
	r.HandleFunc("/api/levels/{level}", h.Level).Methods(http.MethodGet)
	r.HandleFunc("/api/session/{id}", h.Session).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestStartGameHandler(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodPost, "/api/start-game", `{"playerId": 10}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), payload["sessionId"])
	assert.Len(t, payload["sessionHash"], 32)
	assert.Equal(t, float64(1), payload["fee"])
}

func TestStartGameHandler_MissingPlayer(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodPost, "/api/start-game", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Player ID required", payload["error"])
}

func TestStartGameHandler_UnknownPlayer(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodPost, "/api/start-game", `{"playerId": 999}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Player not found", payload["error"])
}

func TestSubmitShotHandler(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	router := newTestRouter(store, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodPost, "/api/submit-shot",
		`{"sessionId": 1, "sessionHash": "abc123", "level": 5, "hit": true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(6), payload["nextLevel"])
}

func TestSubmitShotHandler_MissingParameters(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	for _, body := range []string{
		`{}`,
		`{"sessionId": 1}`,
		`{"sessionId": 1, "sessionHash": "abc123"}`,
	} {
		rec, payload := doRequest(t, router, http.MethodPost, "/api/submit-shot", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing parameters", payload["error"])
	}
}

func TestSubmitShotHandler_DomainErrors(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	router := newTestRouter(store, &mockLedger{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"чужой хэш", `{"sessionId": 1, "sessionHash": "stolen", "level": 5, "hit": true}`, "Invalid session"},
		{"не тот уровень", `{"sessionId": 1, "sessionHash": "abc123", "level": 9, "hit": true}`, "Wrong level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, payload := doRequest(t, router, http.MethodPost, "/api/submit-shot", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, payload["error"])
		})
	}
}

func TestLevelHandler(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodGet, "/api/levels/10", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), payload["level"])
	assert.Contains(t, payload, "targetSize")
	assert.Contains(t, payload, "windSpeed")
}

func TestLevelHandler_InvalidLevel(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	for _, path := range []string{"/api/levels/0", "/api/levels/36", "/api/levels/abc"} {
		rec, payload := doRequest(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid level", payload["error"], path)
	}
}

func TestSessionHandler_HidesHash(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	router := newTestRouter(store, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodGet, "/api/session/1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), payload["id"])
	// Хэш — capability, наружу не утекает
	assert.NotContains(t, payload, "session_hash")
	assert.NotContains(t, payload, "sessionHash")
}

func TestSessionHandler_NotFound(t *testing.T) {
	router := newTestRouter(&mockStore{}, &mockLedger{})

	rec, payload := doRequest(t, router, http.MethodGet, "/api/session/77", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", payload["error"])
}
