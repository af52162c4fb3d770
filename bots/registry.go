package bots

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Options carries what some bots need at construction.
type Options struct {
	ScovillePercent float64
	// Rand drives Random and Scoville; nil seeds from the clock.
	Rand   *rand.Rand
	Logger zerolog.Logger
}

// New builds the bot for k.
func New(k Kind, opts Options) (ChessBot, error) {
	switch k {
	case KindRandom:
		return NewRandomBot(opts.Rand), nil
	case KindPacifist:
		return NewPacifistBot(opts.Logger), nil
	case KindBest:
		return NewBestBot(), nil
	case KindMedian:
		return NewMedianBot(), nil
	case KindDrawfish:
		return NewDrawfishBot(opts.Logger), nil
	case KindWorst:
		return NewWorstBot(), nil
	case KindScoville:
		b, err := NewScovilleBot(opts.ScovillePercent, opts.Rand)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, k)
}
