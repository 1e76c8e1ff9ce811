package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	SideFirst  Side = "first"
	SideSecond Side = "second"
)

var (
	ErrInvalidPosition = errors.New("invalid piece position")

	Sides = [2]Side{SideFirst, SideSecond}
)

// Side identifies one of the two competing players.
type Side string

func (that Side) Valid() bool {
	return that == SideFirst || that == SideSecond
}

// Opponent - returns the other side. An invalid side has no opponent.
func (that Side) Opponent() Side {
	switch that {
	case SideFirst:
		return SideSecond
	case SideSecond:
		return SideFirst
	default:
		return ""
	}
}

// PositionState is the tag of a Position.
type PositionState string

const (
	StateHome     PositionState = "home"
	StateActive   PositionState = "active"
	StateReturned PositionState = "returned"
	StateCaptured PositionState = "captured"
)

// Position is where a piece is: waiting at home, on a board slot, back home after
// completing the course, or captured. Only an active piece carries a slot.
type Position struct {
	state PositionState
	slot  int
}

func HomePosition() Position {
	return Position{state: StateHome}
}

func ActivePosition(slot int) Position {
	return Position{state: StateActive, slot: slot}
}

func ReturnedPosition() Position {
	return Position{state: StateReturned}
}

func CapturedPosition() Position {
	return Position{state: StateCaptured}
}

func (that Position) State() PositionState {
	return that.state
}

// Slot - returns the board slot of an active piece.
func (that Position) Slot() (int, bool) {
	if that.state != StateActive {
		return 0, false
	}

	return that.slot, true
}

// Index - returns the board slot, or -1 for anything off the board.
func (that Position) Index() int {
	if slot, ok := that.Slot(); ok {
		return slot
	}

	return -1
}

type positionJSON struct {
	State PositionState `json:"state"`
	Slot  *int          `json:"slot,omitempty"`
}

func (that Position) MarshalJSON() ([]byte, error) {
	raw := positionJSON{State: that.state}
	if slot, ok := that.Slot(); ok {
		raw.Slot = &slot
	}

	return json.Marshal(raw)
}

func (that *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal position: %w", err)
	}

	switch raw.State {
	case StateActive:
		if raw.Slot == nil || *raw.Slot < 0 {
			return fmt.Errorf("%w: active piece without a slot", ErrInvalidPosition)
		}
		*that = ActivePosition(*raw.Slot)
	case StateHome, StateReturned, StateCaptured:
		if raw.Slot != nil {
			return fmt.Errorf("%w: %s piece with slot %d", ErrInvalidPosition, raw.State, *raw.Slot)
		}
		*that = Position{state: raw.State}
	default:
		return fmt.Errorf("%w: unknown state %q", ErrInvalidPosition, raw.State)
	}

	return nil
}

// Piece is a single token. It belongs to one side for its whole life.
type Piece struct {
	ID       int      `json:"id"`
	Side     Side     `json:"side"`
	Position Position `json:"position"`
}

// Movable - a piece can move while it is at home or on the board.
func (that *Piece) Movable() bool {
	state := that.Position.State()
	return state == StateHome || state == StateActive
}

func (that *Piece) Captured() bool {
	return that.Position.State() == StateCaptured
}
