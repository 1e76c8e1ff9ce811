package puluc

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Dice models the thrown sticks: a uniform value in an inclusive range.
type Dice struct {
	mu  sync.Mutex
	rng *rand.Rand

	low  int
	high int
}

// NewDice - creates dice over [low, high]. A zero seed seeds from the clock,
// any other seed yields the same sequence on every run.
func NewDice(seed uint64, low, high int) *Dice {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint: gosec // a seed, not a secret
	}

	return &Dice{
		rng:  rand.New(rand.NewPCG(seed, seed>>1|1)), //nolint: gosec // game dice
		low:  low,
		high: high,
	}
}

func (that *Dice) RollDice() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.low + that.rng.IntN(that.high-that.low+1)
}
