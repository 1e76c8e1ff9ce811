package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/puluc-backend/internal/entity"
	"github.com/rocketscienceinc/puluc-backend/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

type matchService interface {
	CreateMatch(ctx context.Context) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	Roll(ctx context.Context, id string, side entity.Side) (*entity.Match, entity.MoveOutcome, error)
	RestartMatch(ctx context.Context, id string) (*entity.Match, error)
}

type handlerFunc func(ctx context.Context, payload RequestPayload) (ResponsePayload, error)

type Server struct {
	logger  *slog.Logger
	matches matchService

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, matches matchService) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		matches: matches,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewMatch] = server.handleNewMatch
	server.handlers[actionMatchState] = server.handleMatchState
	server.handlers[actionRoll] = server.handleRoll
	server.handlers[actionRestartMatch] = server.handleRestartMatch
	server.handlers[actionRules] = server.handleRules

	return server
}

// Start - starts WebSocket server on /ws until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection and processes messages until the client leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "session", pkg.GenerateSessionID())

	conn, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept websocket connection", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	err = that.handleMessages(req.Context(), conn)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		log.Info("WebSocket connection closed")
	case errors.Is(err, context.Canceled):
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	default:
		log.Error("error handling messages", "error", err)
		_ = conn.Close(websocket.StatusInternalError, "internal error")
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := wsjson.Read(ctx, conn, &message); err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.dispatch(ctx, &message)

		if err := wsjson.Write(ctx, conn, response); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}

		log.Debug("message processed", "action", message.Action)
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) Message {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return reply(message.Action, ResponsePayload{Error: "unknown action"})
	}

	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return reply(message.Action, ResponsePayload{Error: "invalid payload"})
		}
	}

	response, err := handler(ctx, payload)
	if err != nil {
		that.logger.Debug("action failed", "action", message.Action, "error", err)
		return reply(message.Action, ResponsePayload{Error: err.Error()})
	}

	return reply(message.Action, response)
}

func reply(action string, payload ResponsePayload) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"error":"failed to encode response"}`)
	}

	return Message{Action: action, Payload: data}
}
