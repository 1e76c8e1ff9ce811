package entity

import (
	"errors"
	"fmt"
	"maps"
)

const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

const (
	DefaultBoardLength   = 9
	DefaultPiecesPerSide = 5
	DefaultRollMin       = 1
	DefaultRollMax       = 5
)

var (
	ErrInvalidRules       = errors.New("invalid rules")
	ErrPiecesNotConserved = errors.New("pieces are not conserved")
)

// Rules are the fixed parameters of a match.
type Rules struct {
	BoardLength   int `json:"board_length"`
	PiecesPerSide int `json:"pieces_per_side"`
	RollMin       int `json:"roll_min"`
	RollMax       int `json:"roll_max"`
}

func DefaultRules() Rules {
	return Rules{
		BoardLength:   DefaultBoardLength,
		PiecesPerSide: DefaultPiecesPerSide,
		RollMin:       DefaultRollMin,
		RollMax:       DefaultRollMax,
	}
}

func (that Rules) Validate() error {
	switch {
	case that.BoardLength <= 0:
		return fmt.Errorf("%w: board length %d", ErrInvalidRules, that.BoardLength)
	case that.PiecesPerSide <= 0:
		return fmt.Errorf("%w: pieces per side %d", ErrInvalidRules, that.PiecesPerSide)
	case that.RollMin <= 0 || that.RollMax < that.RollMin:
		return fmt.Errorf("%w: roll range %d..%d", ErrInvalidRules, that.RollMin, that.RollMax)
	default:
		return nil
	}
}

// Match is the whole state of one Puluc game. Only the rules engine mutates it.
type Match struct {
	ID    string `json:"id"`
	Rules Rules  `json:"rules"`

	Pieces map[Side][]*Piece `json:"pieces"`

	// Score counts pieces that completed the course.
	Score map[Side]int `json:"score"`
	// CapturedCount is the loss tally charged against a side: opponent completions
	// plus own pieces captured. Five ends the match.
	CapturedCount map[Side]int `json:"captured_count"`
	// Captures counts opponent pieces a side has captured.
	Captures map[Side]int `json:"captures"`

	Turn   Side   `json:"turn"`
	Status string `json:"status"`
	Winner Side   `json:"winner,omitempty"`
	Moves  int    `json:"moves"`
}

func NewMatch(id string, rules Rules) *Match {
	match := &Match{
		ID:            id,
		Rules:         rules,
		Pieces:        make(map[Side][]*Piece, len(Sides)),
		Score:         make(map[Side]int, len(Sides)),
		CapturedCount: make(map[Side]int, len(Sides)),
		Captures:      make(map[Side]int, len(Sides)),
		Turn:          SideFirst,
		Status:        StatusInProgress,
	}

	for _, side := range Sides {
		roster := make([]*Piece, 0, rules.PiecesPerSide)
		for i := range rules.PiecesPerSide {
			roster = append(roster, &Piece{ID: i, Side: side, Position: HomePosition()})
		}

		match.Pieces[side] = roster
		match.Score[side] = 0
		match.CapturedCount[side] = 0
		match.Captures[side] = 0
	}

	return match
}

func (that *Match) ScoreOf(side Side) int {
	return that.Score[side]
}

func (that *Match) CapturedCountOf(side Side) int {
	return that.CapturedCount[side]
}

func (that *Match) CapturesOf(side Side) int {
	return that.Captures[side]
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

// WinnerOf - returns the winner, defined only once the match is finished.
func (that *Match) WinnerOf() (Side, bool) {
	if !that.IsFinished() {
		return "", false
	}

	return that.Winner, true
}

// Finish - moves the match into its terminal state.
func (that *Match) Finish(winner Side) {
	that.Status = StatusFinished
	that.Winner = winner
}

// FirstMovable - returns the first piece of the side, in roster order, that can still move.
func (that *Match) FirstMovable(side Side) *Piece {
	for _, piece := range that.Pieces[side] {
		if piece.Movable() {
			return piece
		}
	}

	return nil
}

// PieceAt - returns the first piece of the side standing on the slot.
func (that *Match) PieceAt(side Side, slot int) *Piece {
	for _, piece := range that.Pieces[side] {
		if current, ok := piece.Position.Slot(); ok && current == slot {
			return piece
		}
	}

	return nil
}

// Tally splits a side's pieces by what happened to them.
type Tally struct {
	Active   int `json:"active"`
	Returned int `json:"returned"`
	Captured int `json:"captured"`
}

func (that *Match) Tally(side Side) Tally {
	var tally Tally

	for _, piece := range that.Pieces[side] {
		switch piece.Position.State() {
		case StateHome, StateActive:
			tally.Active++
		case StateReturned:
			tally.Returned++
		case StateCaptured:
			tally.Captured++
		}
	}

	return tally
}

// CheckConservation - every piece is exactly one of active, returned (scored) or captured.
func (that *Match) CheckConservation() error {
	for _, side := range Sides {
		tally := that.Tally(side)

		if tally.Returned != that.Score[side] {
			return fmt.Errorf("%w: %s score %d, returned pieces %d",
				ErrPiecesNotConserved, side, that.Score[side], tally.Returned)
		}

		if total := that.Score[side] + tally.Active + tally.Captured; total != that.Rules.PiecesPerSide {
			return fmt.Errorf("%w: %s accounts for %d of %d pieces",
				ErrPiecesNotConserved, side, total, that.Rules.PiecesPerSide)
		}
	}

	return nil
}

// Clone - returns a deep copy of the match.
func (that *Match) Clone() *Match {
	clone := *that
	clone.Score = maps.Clone(that.Score)
	clone.CapturedCount = maps.Clone(that.CapturedCount)
	clone.Captures = maps.Clone(that.Captures)
	clone.Pieces = make(map[Side][]*Piece, len(that.Pieces))

	for side, roster := range that.Pieces {
		copied := make([]*Piece, 0, len(roster))
		for _, piece := range roster {
			p := *piece
			copied = append(copied, &p)
		}
		clone.Pieces[side] = copied
	}

	return &clone
}
