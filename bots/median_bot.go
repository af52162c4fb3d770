package bots

import "github.com/notnil/chess"

// MedianBot plays the middle entry of the evaluation sequence, taken in
// move enumeration order rather than score order.
type MedianBot struct{}

func NewMedianBot() *MedianBot {
	return &MedianBot{}
}

func (b *MedianBot) BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error) {
	mustHaveMoves(pos.ValidMoves())
	scored, err := eval.EvaluatePossibleMovesUnsorted(pos)
	if err != nil {
		return nil, err
	}
	mustHaveScored(scored)
	return scored[len(scored)/2].Move, nil
}

func (b *MedianBot) Name() string {
	return "Mediocrefish"
}

func (b *MedianBot) Description() string {
	return "Chooses the middle of the evaluated moves"
}

func (b *MedianBot) Kind() Kind {
	return KindMedian
}
