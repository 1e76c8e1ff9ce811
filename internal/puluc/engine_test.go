package puluc

import (
	"testing"

	"github.com/rocketscienceinc/puluc-backend/internal/apperror"
	"github.com/rocketscienceinc/puluc-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDice struct {
	value int
}

func (that fixedDice) RollDice() int {
	return that.value
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewEngine(entity.DefaultRules(), fixedDice{value: 3})
	require.NoError(t, err)

	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("Rejects invalid rules", func(t *testing.T) {
		// Given: rules with an empty board
		rules := entity.DefaultRules()
		rules.BoardLength = 0

		// When: creating an engine
		engine, err := NewEngine(rules, fixedDice{value: 1})

		// Then: an ErrInvalidRules error should be returned
		require.ErrorIs(t, err, entity.ErrInvalidRules)
		assert.Nil(t, engine)
	})

	t.Run("Rolls through the injected dice", func(t *testing.T) {
		// Given: an engine with dice that always show 3
		engine := newTestEngine(t)

		// When: rolling
		roll := engine.RollDice()

		// Then: the dice value should be returned
		assert.Equal(t, 3, roll)
	})
}

func TestEngine_NewMatch(t *testing.T) {
	// Given: an engine with default rules
	engine := newTestEngine(t)

	// When: a new match is created
	match := engine.NewMatch("m1")

	// Then: every piece is at home, counters are zeroed and First moves
	require.Equal(t, "m1", match.ID)
	assert.Equal(t, entity.SideFirst, match.Turn)
	assert.Equal(t, entity.StatusInProgress, match.Status)
	assert.False(t, match.IsFinished())

	for _, side := range entity.Sides {
		require.Len(t, match.Pieces[side], entity.DefaultPiecesPerSide)
		for i, piece := range match.Pieces[side] {
			assert.Equal(t, i, piece.ID)
			assert.Equal(t, side, piece.Side)
			assert.Equal(t, entity.StateHome, piece.Position.State())
		}
		assert.Zero(t, match.ScoreOf(side))
		assert.Zero(t, match.CapturedCountOf(side))
		assert.Zero(t, match.CapturesOf(side))
	}

	_, ok := match.WinnerOf()
	assert.False(t, ok)
	require.NoError(t, match.CheckConservation())
}

func TestEngine_ApplyRoll(t *testing.T) {
	t.Run("Moves a home piece onto the board", func(t *testing.T) {
		// Given: a fresh match with First to move
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")

		// When: First rolls 5
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 5)
		require.NoError(t, err)

		// Then: the first piece moves from home (-1) to slot 4 and the turn passes
		expected := entity.MoveOutcome{
			Kind:          entity.OutcomeMoved,
			Side:          entity.SideFirst,
			Roll:          5,
			Piece:         0,
			LandedOn:      4,
			CapturedPiece: entity.NoPiece,
		}
		require.Equal(t, expected, outcome)

		slot, ok := match.Pieces[entity.SideFirst][0].Position.Slot()
		require.True(t, ok)
		assert.Equal(t, 4, slot)
		assert.Equal(t, entity.SideSecond, match.Turn)
		assert.Equal(t, 1, match.Moves)
	})

	t.Run("Keeps moving the same piece until it leaves the board", func(t *testing.T) {
		// Given: First's leading piece already on slot 2
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideFirst][0].Position = entity.ActivePosition(2)

		// When: First rolls 3
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 3)
		require.NoError(t, err)

		// Then: the same piece moves on to slot 5
		assert.Equal(t, 0, outcome.Piece)
		assert.Equal(t, 5, outcome.LandedOn)
		assert.Equal(t, entity.StateHome, match.Pieces[entity.SideFirst][1].Position.State())
	})

	t.Run("Scores a piece that runs past the far end", func(t *testing.T) {
		// Given: First's piece on slot 7
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideFirst][0].Position = entity.ActivePosition(7)

		// When: First rolls 5 (7 + 5 = 12 >= 9)
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 5)
		require.NoError(t, err)

		// Then: the piece returns home and both counters move by exactly one
		assert.Equal(t, entity.OutcomeScored, outcome.Kind)
		assert.Equal(t, 0, outcome.Piece)
		assert.Equal(t, entity.NoPiece, outcome.LandedOn)
		assert.Equal(t, entity.StateReturned, match.Pieces[entity.SideFirst][0].Position.State())
		assert.False(t, match.Pieces[entity.SideFirst][0].Movable())
		assert.Equal(t, 1, match.ScoreOf(entity.SideFirst))
		assert.Equal(t, 1, match.CapturedCountOf(entity.SideSecond))
		assert.Zero(t, match.CapturedCountOf(entity.SideFirst))
		assert.Zero(t, match.ScoreOf(entity.SideSecond))
		require.NoError(t, match.CheckConservation())
	})

	t.Run("Scores when landing exactly one past the last slot", func(t *testing.T) {
		// Given: First's piece on the last slot
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideFirst][0].Position = entity.ActivePosition(8)

		// When: First rolls 1
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 1)
		require.NoError(t, err)

		// Then: the piece scores
		assert.Equal(t, entity.OutcomeScored, outcome.Kind)
	})

	t.Run("Captures an opponent piece on the landing slot", func(t *testing.T) {
		// Given: Second's first piece on slot 4 and First to move
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideSecond][0].Position = entity.ActivePosition(4)

		// When: First rolls 5 and lands on slot 4
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 5)
		require.NoError(t, err)

		// Then: Second's piece is captured and First is credited
		assert.Equal(t, entity.OutcomeCaptured, outcome.Kind)
		assert.Equal(t, 4, outcome.LandedOn)
		assert.Equal(t, 0, outcome.CapturedPiece)

		captured := match.Pieces[entity.SideSecond][0]
		assert.True(t, captured.Captured())
		assert.False(t, captured.Movable())
		assert.Equal(t, -1, captured.Position.Index())
		assert.Nil(t, match.PieceAt(entity.SideSecond, 4))

		assert.Equal(t, 1, match.CapturesOf(entity.SideFirst))
		assert.Equal(t, 1, match.CapturedCountOf(entity.SideSecond))
		assert.Zero(t, match.ScoreOf(entity.SideFirst))
		require.NoError(t, match.CheckConservation())
	})

	t.Run("Captures at most one piece per landing", func(t *testing.T) {
		// Given: two of Second's pieces sharing slot 2
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideSecond][1].Position = entity.ActivePosition(2)
		match.Pieces[entity.SideSecond][3].Position = entity.ActivePosition(2)

		// When: First lands on slot 2
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 3)
		require.NoError(t, err)

		// Then: only the first piece in roster order is captured
		assert.Equal(t, entity.OutcomeCaptured, outcome.Kind)
		assert.Equal(t, 1, outcome.CapturedPiece)
		assert.True(t, match.Pieces[entity.SideSecond][1].Captured())
		assert.False(t, match.Pieces[entity.SideSecond][3].Captured())
		assert.Equal(t, 1, match.CapturesOf(entity.SideFirst))
	})

	t.Run("Does not capture own pieces", func(t *testing.T) {
		// Given: a second First piece already on slot 2
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.Pieces[entity.SideFirst][0].Position = entity.ActivePosition(0)
		match.Pieces[entity.SideFirst][1].Position = entity.ActivePosition(2)

		// When: First's leading piece lands on slot 2
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 2)
		require.NoError(t, err)

		// Then: it is a plain move
		assert.Equal(t, entity.OutcomeMoved, outcome.Kind)
		assert.Equal(t, entity.StateActive, match.Pieces[entity.SideFirst][1].Position.State())
	})

	t.Run("Wins when the last opponent piece is captured", func(t *testing.T) {
		// Given: four of Second's pieces captured and the fifth on slot 2
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		for i := range 4 {
			match.Pieces[entity.SideSecond][i].Position = entity.CapturedPosition()
		}
		match.Pieces[entity.SideSecond][4].Position = entity.ActivePosition(2)
		match.CapturedCount[entity.SideSecond] = 4
		match.Captures[entity.SideFirst] = 4

		// When: First lands on slot 2
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 3)
		require.NoError(t, err)

		// Then: the match is finished and First wins
		assert.Equal(t, entity.OutcomeWin, outcome.Kind)
		assert.Equal(t, entity.OutcomeCaptured, outcome.Trigger)
		assert.Equal(t, entity.SideFirst, outcome.Winner)
		assert.Equal(t, 4, outcome.CapturedPiece)

		assert.True(t, match.IsFinished())
		winner, ok := match.WinnerOf()
		require.True(t, ok)
		assert.Equal(t, entity.SideFirst, winner)
		assert.Equal(t, entity.SideSecond, match.Turn)
		require.NoError(t, match.CheckConservation())
	})

	t.Run("Wins when the fifth piece completes the course", func(t *testing.T) {
		// Given: First has scored four pieces and the last one stands on slot 8
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		for i := range 4 {
			match.Pieces[entity.SideFirst][i].Position = entity.ReturnedPosition()
		}
		match.Pieces[entity.SideFirst][4].Position = entity.ActivePosition(8)
		match.Score[entity.SideFirst] = 4
		match.CapturedCount[entity.SideSecond] = 4

		// When: First rolls 2
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 2)
		require.NoError(t, err)

		// Then: First wins through scoring
		assert.Equal(t, entity.OutcomeWin, outcome.Kind)
		assert.Equal(t, entity.OutcomeScored, outcome.Trigger)
		assert.Equal(t, entity.SideFirst, outcome.Winner)
		assert.Equal(t, 5, match.ScoreOf(entity.SideFirst))
		assert.Equal(t, 5, match.CapturedCountOf(entity.SideSecond))
	})

	t.Run("Mover loses when its own tally is already full", func(t *testing.T) {
		// Given: a match whose counters charge First with five losses
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		match.CapturedCount[entity.SideFirst] = 5

		// When: First moves
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 1)
		require.NoError(t, err)

		// Then: the symmetric check hands the win to Second
		assert.Equal(t, entity.OutcomeWin, outcome.Kind)
		assert.Equal(t, entity.OutcomeMoved, outcome.Trigger)
		assert.Equal(t, entity.SideSecond, outcome.Winner)
	})

	t.Run("Forfeits when no piece can move", func(t *testing.T) {
		// Given: First has three pieces scored and two captured
		engine := newTestEngine(t)
		match := engine.NewMatch("m1")
		for i := range 3 {
			match.Pieces[entity.SideFirst][i].Position = entity.ReturnedPosition()
		}
		for i := 3; i < 5; i++ {
			match.Pieces[entity.SideFirst][i].Position = entity.CapturedPosition()
		}
		match.Score[entity.SideFirst] = 3
		match.CapturedCount[entity.SideSecond] = 3
		match.CapturedCount[entity.SideFirst] = 2
		match.Captures[entity.SideSecond] = 2
		require.NoError(t, match.CheckConservation())

		// When: First rolls
		outcome, err := engine.ApplyRoll(match, entity.SideFirst, 4)
		require.NoError(t, err)

		// Then: First forfeits and Second wins
		expected := entity.MoveOutcome{
			Kind:          entity.OutcomeForfeit,
			Side:          entity.SideFirst,
			Roll:          4,
			Piece:         entity.NoPiece,
			LandedOn:      entity.NoPiece,
			CapturedPiece: entity.NoPiece,
			Winner:        entity.SideSecond,
		}
		require.Equal(t, expected, outcome)
		assert.True(t, match.IsFinished())
		assert.Equal(t, entity.SideSecond, match.Winner)
		assert.Equal(t, entity.SideSecond, match.Turn)
	})
}

func TestEngine_ApplyRoll_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(match *entity.Match)
		side    entity.Side
		roll    int
		wantErr error
	}{
		{
			name:    "Error on playing out of turn",
			side:    entity.SideSecond,
			roll:    3,
			wantErr: apperror.ErrNotYourTurn,
		},
		{
			name:    "Error on unknown side",
			side:    entity.Side("third"),
			roll:    3,
			wantErr: apperror.ErrInvalidSide,
		},
		{
			name:    "Error on roll below range",
			side:    entity.SideFirst,
			roll:    0,
			wantErr: apperror.ErrInvalidRoll,
		},
		{
			name:    "Error on roll above range",
			side:    entity.SideFirst,
			roll:    6,
			wantErr: apperror.ErrInvalidRoll,
		},
		{
			name: "Error on finished match",
			prepare: func(match *entity.Match) {
				match.Finish(entity.SideSecond)
			},
			side:    entity.SideFirst,
			roll:    3,
			wantErr: apperror.ErrGameFinished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a fresh match
			engine := newTestEngine(t)
			match := engine.NewMatch("m1")
			if tt.prepare != nil {
				tt.prepare(match)
			}
			before := match.Clone()

			// When: an invalid roll is applied
			outcome, err := engine.ApplyRoll(match, tt.side, tt.roll)

			// Then: the call is rejected and the match is unchanged
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, entity.MoveOutcome{}, outcome)
			assert.Equal(t, before, match)
		})
	}
}

func TestEngine_PlayToCompletion(t *testing.T) {
	// Given: an engine with seeded dice
	dice := NewDice(42, entity.DefaultRollMin, entity.DefaultRollMax)
	engine, err := NewEngine(entity.DefaultRules(), dice)
	require.NoError(t, err)

	match := engine.NewMatch("m1")

	// When: both sides roll until the match ends
	for turn := 0; !match.IsFinished(); turn++ {
		require.Less(t, turn, 1000, "match did not finish")

		side := match.Turn
		opponent := side.Opponent()
		before := match.Clone()

		outcome, err := engine.ApplyRoll(match, side, engine.RollDice())
		require.NoError(t, err)

		// Then: pieces are conserved after every roll
		require.NoError(t, match.CheckConservation())

		// Then: at most one capture happens per roll
		captures := match.CapturesOf(side) - before.CapturesOf(side)
		assert.LessOrEqual(t, captures, 1)

		// Then: completing the course moves score and opponent tally together
		scored := match.ScoreOf(side) - before.ScoreOf(side)
		if scored == 1 {
			assert.Equal(t, before.CapturedCountOf(opponent)+1, match.CapturedCountOf(opponent))
		}

		// Then: the turn always passes
		assert.Equal(t, opponent, match.Turn)

		if outcome.IsTerminal() {
			assert.True(t, match.IsFinished())
			assert.Equal(t, outcome.Winner, match.Winner)
		}
	}

	// Then: further rolls are rejected
	_, err = engine.ApplyRoll(match, match.Turn, 1)
	require.ErrorIs(t, err, apperror.ErrGameFinished)
}
