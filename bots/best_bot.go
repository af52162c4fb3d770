package bots

import "github.com/notnil/chess"

// BestBot plays whatever the engine rates highest.
type BestBot struct{}

func NewBestBot() *BestBot {
	return &BestBot{}
}

func (b *BestBot) BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error) {
	mustHaveMoves(pos.ValidMoves())
	scored, err := eval.EvaluatePossibleMoves(pos)
	if err != nil {
		return nil, err
	}
	mustHaveScored(scored)
	return scored[len(scored)-1].Move, nil
}

func (b *BestBot) Name() string {
	return "Stockfish"
}

func (b *BestBot) Description() string {
	return "Boring engine. Simply returns whatever the engine thinks is the best move."
}

func (b *BestBot) Kind() Kind {
	return KindBest
}
