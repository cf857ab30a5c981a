package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type handlers struct {
	logger *slog.Logger
	state  stateProvider

	// bcrypt hash of the admin bearer token; empty disables the endpoint.
	adminTokenHash string
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AdminState serves the current players/rooms snapshot behind a bearer token.
func (that *handlers) AdminState(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "AdminState")

	if !that.authorized(r) {
		log.Info("unauthorized admin state request", "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(that.state.CurrentState()); err != nil {
		log.Error("failed to encode state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *handlers) authorized(r *http.Request) bool {
	if that.adminTokenHash == "" {
		return false
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(that.adminTokenHash), []byte(token)) == nil
}
