package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/puluc-backend/internal/entity"
	"github.com/rocketscienceinc/puluc-backend/internal/pkg"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	Update(ctx context.Context, id string, fn func(match *entity.Match) error) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type rulesEngine interface {
	NewMatch(id string) *entity.Match
	RollDice() int
	ApplyRoll(match *entity.Match, side entity.Side, roll int) (entity.MoveOutcome, error)
}

// MatchManager runs matches on top of the rules engine and the match storage.
type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	engine    rulesEngine

	locks *keyedMutex
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, engine rulesEngine) *MatchManager {
	return &MatchManager{
		logger:    logger.With("component", "match_manager"),
		matchRepo: matchRepo,
		engine:    engine,
		locks:     newKeyedMutex(),
	}
}

func (that *MatchManager) CreateMatch(ctx context.Context) (*entity.Match, error) {
	matchID, err := pkg.GenerateMatchID()
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	match := that.engine.NewMatch(matchID)
	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	that.logger.Info("match created", "matchID", match.ID)

	return match, nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// Roll - throws the dice for the side and applies the result.
func (that *MatchManager) Roll(ctx context.Context, id string, side entity.Side) (*entity.Match, entity.MoveOutcome, error) {
	return that.applyRoll(ctx, id, side, that.engine.RollDice)
}

// ApplyRoll - applies a roll value thrown by the caller.
func (that *MatchManager) ApplyRoll(ctx context.Context, id string, side entity.Side, roll int) (*entity.Match, entity.MoveOutcome, error) {
	return that.applyRoll(ctx, id, side, func() int { return roll })
}

func (that *MatchManager) applyRoll(
	ctx context.Context, id string, side entity.Side, roll func() int,
) (*entity.Match, entity.MoveOutcome, error) {
	log := that.logger.With("method", "applyRoll", "matchID", id, "side", side)

	unlock := that.locks.Lock(id)
	defer unlock()

	var outcome entity.MoveOutcome

	match, err := that.matchRepo.Update(ctx, id, func(match *entity.Match) error {
		var err error
		outcome, err = that.engine.ApplyRoll(match, side, roll())

		return err
	})
	if err != nil {
		log.Debug("roll rejected", "error", err)
		return nil, entity.MoveOutcome{}, fmt.Errorf("failed to apply roll: %w", err)
	}

	log.Debug("roll applied", "roll", outcome.Roll, "kind", outcome.Kind, "landedOn", outcome.LandedOn)

	if outcome.IsTerminal() {
		log.Info("match finished", "winner", outcome.Winner, "kind", outcome.Kind, "moves", match.Moves)
	}

	return match, outcome, nil
}

// RestartMatch - replaces the match with a fresh one under the same ID.
func (that *MatchManager) RestartMatch(ctx context.Context, id string) (*entity.Match, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	if _, err := that.matchRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to restart match: %w", err)
	}

	match := that.engine.NewMatch(id)
	if err := that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to restart match: %w", err)
	}

	that.logger.Info("match restarted", "matchID", id)

	return match, nil
}

func (that *MatchManager) DeleteMatch(ctx context.Context, id string) error {
	unlock := that.locks.Lock(id)
	defer unlock()

	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match deleted", "matchID", id)

	return nil
}

// keyedMutex serialises work per match inside one process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (that *keyedMutex) Lock(key string) func() {
	that.mu.Lock()
	lock, ok := that.locks[key]
	if !ok {
		lock = &keyedLock{}
		that.locks[key] = lock
	}
	lock.refs++
	that.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, key)
		}
		that.mu.Unlock()
	}
}
