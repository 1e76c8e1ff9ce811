package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/puluc-backend/internal/puluc"
)

var ErrMatchIDRequired = errors.New("match_id is required")

func (that *Server) handleNewMatch(ctx context.Context, _ RequestPayload) (ResponsePayload, error) {
	match, err := that.matches.CreateMatch(ctx)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to create a new match: %w", err)
	}

	that.logger.Info("match started over websocket", "matchID", match.ID)

	return ResponsePayload{Match: match}, nil
}

func (that *Server) handleMatchState(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.MatchID == "" {
		return ResponsePayload{}, ErrMatchIDRequired
	}

	match, err := that.matches.GetMatch(ctx, payload.MatchID)
	if err != nil {
		return ResponsePayload{}, err //nolint: wrapcheck // already wrapped by the service
	}

	return ResponsePayload{Match: match}, nil
}

func (that *Server) handleRoll(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.MatchID == "" {
		return ResponsePayload{}, ErrMatchIDRequired
	}

	match, outcome, err := that.matches.Roll(ctx, payload.MatchID, payload.Side)
	if err != nil {
		return ResponsePayload{}, err //nolint: wrapcheck // already wrapped by the service
	}

	return ResponsePayload{Match: match, Outcome: &outcome}, nil
}

func (that *Server) handleRestartMatch(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.MatchID == "" {
		return ResponsePayload{}, ErrMatchIDRequired
	}

	match, err := that.matches.RestartMatch(ctx, payload.MatchID)
	if err != nil {
		return ResponsePayload{}, err //nolint: wrapcheck // already wrapped by the service
	}

	return ResponsePayload{Match: match}, nil
}

func (that *Server) handleRules(_ context.Context, _ RequestPayload) (ResponsePayload, error) {
	return ResponsePayload{Rules: puluc.RulesText}, nil
}
