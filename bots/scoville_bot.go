package bots

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"
)

var ErrInvalidPercent = errors.New("scoville percentage must be a number between 0 and 100")

// ScovilleBot plays the engine's best move with probability p and a random
// move otherwise.
type ScovilleBot struct {
	p      float64
	rng    *rand.Rand
	best   ChessBot
	random ChessBot
}

// NewScovilleBot takes p as a percentage in [0, 100].
func NewScovilleBot(percent float64, rng *rand.Rand) (*ScovilleBot, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return newScovilleBot(percent, rng, NewBestBot(), NewRandomBot(rng))
}

// ValidatePercent rejects percentages that are not finite or outside [0, 100].
func ValidatePercent(percent float64) error {
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %v", ErrInvalidPercent, percent)
	}
	return nil
}

func newScovilleBot(percent float64, rng *rand.Rand, best, random ChessBot) (*ScovilleBot, error) {
	if err := ValidatePercent(percent); err != nil {
		return nil, err
	}
	return &ScovilleBot{
		p:      percent / 100,
		rng:    rng,
		best:   best,
		random: random,
	}, nil
}

func (b *ScovilleBot) BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error) {
	if b.rng.Float64() < b.p {
		return b.best.BestMove(pos, eval)
	}
	return b.random.BestMove(pos, eval)
}

// Fraction is the probability of deferring to the best move.
func (b *ScovilleBot) Fraction() float64 {
	return b.p
}

func (b *ScovilleBot) Name() string {
	return "Scoville"
}

func (b *ScovilleBot) Description() string {
	return "Plays the engine's best move X% of the time, with remaining turns diluted with random moves"
}

func (b *ScovilleBot) Kind() Kind {
	return KindScoville
}
