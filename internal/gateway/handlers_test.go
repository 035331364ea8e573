package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clifton/internal/agent"
	"clifton/internal/db"
	"clifton/internal/history"
)

// fakeRunner emits a token and done for any message.
type fakeRunner struct {
	lastSession string
	lastMessage string
}

func (f *fakeRunner) Run(ctx context.Context, sessionID, message string, emit func(agent.Event)) error {
	f.lastSession = sessionID
	f.lastMessage = message
	emit(agent.Event{Type: agent.EventToken, Data: "hello"})
	emit(agent.Event{Type: agent.EventDone})
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeRunner, *history.Store) {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })

	runner := &fakeRunner{}
	sessions := history.NewStore(database)
	return NewServer(runner, sessions), runner, sessions
}

func TestHandleChat(t *testing.T) {
	srv, runner, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"session_id":"sess-1","message":"hi"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `event: session`)
	assert.Contains(t, body, `"session_id":"sess-1"`)
	assert.Contains(t, body, `event: token`)
	assert.Contains(t, body, `event: done`)
	assert.Equal(t, "sess-1", runner.lastSession)
	assert.Equal(t, "hi", runner.lastMessage)
}

func TestHandleChat_MintsSessionID(t *testing.T) {
	srv, runner, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, runner.lastSession)
}

func TestHandleChat_RequiresMessage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"session_id":"sess-1"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListSessions(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	require.NoError(t, sessions.EnsureSession(context.Background(), "sess-1", "default"))

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sess-1"`)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
