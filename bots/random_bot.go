package bots

import (
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"
)

// RandomBot plays a uniformly random legal move and never asks the engine.
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) *RandomBot {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &RandomBot{rng: rng}
}

func (b *RandomBot) BestMove(pos *chess.Position, _ Evaluator) (*chess.Move, error) {
	moves := pos.ValidMoves()
	mustHaveMoves(moves)
	return moves[b.rng.Intn(len(moves))], nil
}

func (b *RandomBot) Name() string {
	return "Random"
}

func (b *RandomBot) Description() string {
	return "Chooses a random valid move"
}

func (b *RandomBot) Kind() Kind {
	return KindRandom
}
