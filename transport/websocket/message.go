package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/puluc-backend/internal/entity"
)

const (
	actionNewMatch     = "match:new"
	actionMatchState   = "match:state"
	actionRoll         = "match:roll"
	actionRestartMatch = "match:restart"
	actionRules        = "rules"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	MatchID string      `json:"match_id,omitempty"`
	Side    entity.Side `json:"side,omitempty"`
}

type ResponsePayload struct {
	Match   *entity.Match       `json:"match,omitempty"`
	Outcome *entity.MoveOutcome `json:"outcome,omitempty"`
	Rules   string              `json:"rules,omitempty"`
	Error   string              `json:"error,omitempty"`
}
