package entity

// OutcomeKind tags what a single roll did to the match.
type OutcomeKind string

const (
	OutcomeMoved    OutcomeKind = "moved"
	OutcomeCaptured OutcomeKind = "captured"
	OutcomeScored   OutcomeKind = "scored"
	OutcomeForfeit  OutcomeKind = "forfeit"
	OutcomeWin      OutcomeKind = "win"
)

// NoPiece marks an absent piece or slot in an outcome.
const NoPiece = -1

// MoveOutcome reports the result of one applied roll for the caller to render.
type MoveOutcome struct {
	Kind OutcomeKind `json:"kind"`
	Side Side        `json:"side"`
	Roll int         `json:"roll"`

	Piece         int `json:"piece"`
	LandedOn      int `json:"landed_on"`
	CapturedPiece int `json:"captured_piece"`

	// Winner is set for forfeit and win outcomes.
	Winner Side `json:"winner,omitempty"`
	// Trigger is the move kind that a win outcome escalated from.
	Trigger OutcomeKind `json:"trigger,omitempty"`
}

func (that MoveOutcome) IsTerminal() bool {
	return that.Kind == OutcomeForfeit || that.Kind == OutcomeWin
}

// CaptureEvent describes an opponent piece taken off the board by a landing piece.
type CaptureEvent struct {
	By       Side `json:"by"`
	Piece    int  `json:"piece"`
	Captured int  `json:"captured"`
	Slot     int  `json:"slot"`
}
