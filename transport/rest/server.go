package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

// stateProvider is the read-only diagnostic surface exposed by the game
// manager.
type stateProvider interface {
	CurrentState() *usecase.State
}

type Server struct {
	logger *slog.Logger
	router *mux.Router
}

func New(logger *slog.Logger, state stateProvider, adminTokenHash string, gatherer prometheus.Gatherer) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: mux.NewRouter(),
	}

	h := &handlers{
		logger:         server.logger,
		state:          state,
		adminTokenHash: adminTokenHash,
	}

	server.router.HandleFunc("/ping", h.Ping).Methods(http.MethodGet)
	server.router.HandleFunc("/admin/state", h.AdminState).Methods(http.MethodGet)
	server.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return server
}

// Start runs the HTTP server until the context is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
