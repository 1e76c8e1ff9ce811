package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - registers the HTTP routes of the match API.
func NewRouter(logger *slog.Logger, matches matchService) http.Handler {
	handlers := NewHandlers(logger, matches)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.Ping)
	mux.HandleFunc("GET /rules", handlers.Rules)

	mux.HandleFunc("POST /matches", handlers.CreateMatch)
	mux.HandleFunc("GET /matches/{id}", handlers.GetMatch)
	mux.HandleFunc("DELETE /matches/{id}", handlers.DeleteMatch)
	mux.HandleFunc("POST /matches/{id}/roll", handlers.Roll)
	mux.HandleFunc("POST /matches/{id}/move", handlers.Move)
	mux.HandleFunc("POST /matches/{id}/restart", handlers.RestartMatch)

	return mux
}

// Start - serves the match API until the context is canceled.
func Start(ctx context.Context, logger *slog.Logger, port string, matches matchService) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, matches),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
