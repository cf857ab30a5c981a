package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

type staticState struct {
	state *usecase.State
}

func (that *staticState) CurrentState() *usecase.State {
	return that.state
}

func testServer(t *testing.T, adminTokenHash string) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	state := &staticState{state: &usecase.State{
		Players: []*entity.Identity{{ConnID: "conn-a", Username: "alice"}},
		Rooms:   map[string]*entity.Room{"lobby": entity.NewRoom("lobby", "id-1")},
	}}

	registry := prometheus.NewRegistry()
	metrics.NewCollector(registry).RecordEvent("login")

	return New(logger, state, adminTokenHash, registry)
}

func TestHandlers_Ping(t *testing.T) {
	// Given: a running router
	server := testServer(t, "")

	// When: pinging
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Then: pong
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandlers_AdminState(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("could not hash token: %v", err)
	}

	t.Run("A valid bearer token gets the snapshot", func(t *testing.T) {
		// Given: a server with an admin token configured
		server := testServer(t, string(hash))

		// When: requesting the state with the right token
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		server.router.ServeHTTP(rec, req)

		// Then: the players/rooms snapshot is returned
		require.Equal(t, http.StatusOK, rec.Code)

		var state usecase.State
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
		require.Len(t, state.Players, 1)
		assert.Equal(t, "alice", state.Players[0].Username)
		assert.Contains(t, state.Rooms, "lobby")
	})

	t.Run("A wrong or missing token is rejected", func(t *testing.T) {
		server := testServer(t, string(hash))

		for _, header := range []string{"", "Bearer wrong", "s3cret"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			server.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("No configured token disables the endpoint entirely", func(t *testing.T) {
		server := testServer(t, "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		server.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandlers_Metrics(t *testing.T) {
	// Given: a router with one recorded event
	server := testServer(t, "")

	// When: scraping
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Then: the counter shows up in the exposition
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tictactoe_events_total{action="login"} 1`)
}
