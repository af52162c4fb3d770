package bots

import (
	"math"

	"fishwrap/score"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// drawfishScale is divided by a positive centipawn gain, so big gains end
// up small and small gains end up large.
const drawfishScale = 100_000

// DrawfishBot steers towards stalemate: quick draws first, then moves that
// keep the balance close, and never a checkmate in either direction.
type DrawfishBot struct {
	log zerolog.Logger
}

func NewDrawfishBot(log zerolog.Logger) *DrawfishBot {
	return &DrawfishBot{log: log.With().Str("component", "drawfish").Logger()}
}

func (b *DrawfishBot) BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error) {
	mustHaveMoves(pos.ValidMoves())
	scored, err := eval.EvaluatePossibleMoves(pos)
	if err != nil {
		return nil, err
	}
	mustHaveScored(scored)

	best, bestValue := scored[0], drawfishValue(scored[0].Score)
	for _, sm := range scored[1:] {
		if v := drawfishValue(sm.Score); v >= bestValue {
			best, bestValue = sm, v
		}
	}
	b.log.Debug().Stringer("move", best).Int("value", bestValue).Msg("picked drawish move")
	return best.Move, nil
}

func drawfishValue(s score.Score) int {
	switch s.Kind {
	case score.KindStalemate:
		return math.MaxInt32 - s.Value
	case score.KindCentipawns:
		switch {
		case s.Value > 0:
			return drawfishScale / s.Value
		case s.Value == 0:
			return drawfishScale
		default:
			return s.Value
		}
	default:
		return math.MinInt32
	}
}

func (b *DrawfishBot) Name() string {
	return "Drawfish"
}

func (b *DrawfishBot) Description() string {
	return "Attempts to force a stalemate"
}

func (b *DrawfishBot) Kind() Kind {
	return KindDrawfish
}
