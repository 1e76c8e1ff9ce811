package puluc

import (
	"fmt"

	"github.com/rocketscienceinc/puluc-backend/internal/apperror"
	"github.com/rocketscienceinc/puluc-backend/internal/entity"
)

const RulesText = `Rules of Puluc:
- Each player has 5 pieces.
- Roll the sticks to move pieces forward.
- Landing on an opponent's piece captures it.
- A piece that runs past the far end returns home and scores.
- The game ends when all opponent pieces are captured or eliminated.`

type roller interface {
	RollDice() int
}

// Engine applies Puluc rules to matches. It keeps no per-match state.
type Engine struct {
	rules entity.Rules
	dice  roller
}

func NewEngine(rules entity.Rules, dice roller) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &Engine{
		rules: rules,
		dice:  dice,
	}, nil
}

func (that *Engine) Rules() entity.Rules {
	return that.rules
}

// NewMatch - creates a fresh match: all pieces home, counters zeroed, First to move.
func (that *Engine) NewMatch(id string) *entity.Match {
	return entity.NewMatch(id, that.rules)
}

func (that *Engine) RollDice() int {
	return that.dice.RollDice()
}

// ApplyRoll - resolves one turn for the side. Either the whole turn is applied
// (move, capture, win check, turn switch) or an error is returned and the match is untouched.
func (that *Engine) ApplyRoll(match *entity.Match, side entity.Side, roll int) (entity.MoveOutcome, error) {
	if err := validateRoll(match, side, roll); err != nil {
		return entity.MoveOutcome{}, fmt.Errorf("invalid roll: %w", err)
	}

	outcome := movePiece(match, side, roll)
	if !outcome.IsTerminal() {
		outcome = checkWin(match, outcome)
	}

	match.Turn = side.Opponent()
	match.Moves++

	return outcome, nil
}

// validateRoll - checks the preconditions of a turn.
func validateRoll(match *entity.Match, side entity.Side, roll int) error {
	if match.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !side.Valid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidSide, side)
	}

	if match.Turn != side {
		return apperror.ErrNotYourTurn
	}

	if roll < match.Rules.RollMin || roll > match.Rules.RollMax {
		return fmt.Errorf("%w: %d not in %d..%d", apperror.ErrInvalidRoll, roll, match.Rules.RollMin, match.Rules.RollMax)
	}

	return nil
}

// movePiece - advances the first movable piece of the side by the roll.
func movePiece(match *entity.Match, side entity.Side, roll int) entity.MoveOutcome {
	outcome := entity.MoveOutcome{
		Side:          side,
		Roll:          roll,
		Piece:         entity.NoPiece,
		LandedOn:      entity.NoPiece,
		CapturedPiece: entity.NoPiece,
	}

	piece := match.FirstMovable(side)
	if piece == nil {
		match.Finish(side.Opponent())

		outcome.Kind = entity.OutcomeForfeit
		outcome.Winner = side.Opponent()

		return outcome
	}

	outcome.Piece = piece.ID

	newIndex := piece.Position.Index() + roll
	if newIndex >= match.Rules.BoardLength {
		piece.Position = entity.ReturnedPosition()
		match.Score[side]++
		// completing the course is charged against the opponent
		match.CapturedCount[side.Opponent()]++

		outcome.Kind = entity.OutcomeScored

		return outcome
	}

	piece.Position = entity.ActivePosition(newIndex)
	outcome.LandedOn = newIndex
	outcome.Kind = entity.OutcomeMoved

	if capture := checkCapture(match, piece, side); capture != nil {
		outcome.Kind = entity.OutcomeCaptured
		outcome.CapturedPiece = capture.Captured
	}

	return outcome
}

// checkCapture - takes at most one opponent piece sharing the slot of the piece that just moved.
func checkCapture(match *entity.Match, piece *entity.Piece, side entity.Side) *entity.CaptureEvent {
	slot, ok := piece.Position.Slot()
	if !ok {
		return nil
	}

	opponent := side.Opponent()

	target := match.PieceAt(opponent, slot)
	if target == nil {
		return nil
	}

	target.Position = entity.CapturedPosition()
	match.Captures[side]++
	match.CapturedCount[opponent]++

	return &entity.CaptureEvent{
		By:       side,
		Piece:    piece.ID,
		Captured: target.ID,
		Slot:     slot,
	}
}

// checkWin - finishes the match once a side's captured count reaches the roster size.
func checkWin(match *entity.Match, outcome entity.MoveOutcome) entity.MoveOutcome {
	limit := match.Rules.PiecesPerSide

	var winner entity.Side

	switch opponent := outcome.Side.Opponent(); {
	case match.CapturedCount[opponent] >= limit:
		winner = outcome.Side
	case match.CapturedCount[outcome.Side] >= limit:
		winner = opponent
	default:
		return outcome
	}

	match.Finish(winner)

	outcome.Trigger = outcome.Kind
	outcome.Kind = entity.OutcomeWin
	outcome.Winner = winner

	return outcome
}
