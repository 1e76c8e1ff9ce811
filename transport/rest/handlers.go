package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/puluc-backend/internal/apperror"
	"github.com/rocketscienceinc/puluc-backend/internal/entity"
	"github.com/rocketscienceinc/puluc-backend/internal/puluc"
)

type matchService interface {
	CreateMatch(ctx context.Context) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	Roll(ctx context.Context, id string, side entity.Side) (*entity.Match, entity.MoveOutcome, error)
	ApplyRoll(ctx context.Context, id string, side entity.Side, roll int) (*entity.Match, entity.MoveOutcome, error)
	RestartMatch(ctx context.Context, id string) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
}

type rollRequest struct {
	Side entity.Side `json:"side"`
	Roll int         `json:"roll,omitempty"`
}

type rollResponse struct {
	Match   *entity.Match      `json:"match"`
	Outcome entity.MoveOutcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger  *slog.Logger
	matches matchService
}

func NewHandlers(logger *slog.Logger, matches matchService) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		matches: matches,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Handlers) Rules(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(puluc.RulesText)); err != nil {
		that.logger.Error("failed to write rules", "error", err)
	}
}

func (that *Handlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.CreateMatch(r.Context())
	if err != nil {
		that.writeError(w, "CreateMatch", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, match)
}

func (that *Handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetMatch", err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Handlers) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "DeleteMatch", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Roll - the server throws the dice for the side.
func (that *Handlers) Roll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	match, outcome, err := that.matches.Roll(r.Context(), r.PathValue("id"), req.Side)
	if err != nil {
		that.writeError(w, "Roll", err)
		return
	}

	that.writeJSON(w, http.StatusOK, rollResponse{Match: match, Outcome: outcome})
}

// Move - applies a roll thrown by the client.
func (that *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	match, outcome, err := that.matches.ApplyRoll(r.Context(), r.PathValue("id"), req.Side, req.Roll)
	if err != nil {
		that.writeError(w, "Move", err)
		return
	}

	that.writeJSON(w, http.StatusOK, rollResponse{Match: match, Outcome: outcome})
}

func (that *Handlers) RestartMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.RestartMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "RestartMatch", err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// StatusFromError - maps domain errors onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidRoll),
		errors.Is(err, apperror.ErrInvalidSide):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
