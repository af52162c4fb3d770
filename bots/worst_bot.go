package bots

import "github.com/notnil/chess"

// WorstBot plays the move the engine dislikes the most.
type WorstBot struct{}

func NewWorstBot() *WorstBot {
	return &WorstBot{}
}

func (b *WorstBot) BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error) {
	mustHaveMoves(pos.ValidMoves())
	scored, err := eval.EvaluatePossibleMoves(pos)
	if err != nil {
		return nil, err
	}
	mustHaveScored(scored)
	return scored[0].Move, nil
}

func (b *WorstBot) Name() string {
	return "Worstfish"
}

func (b *WorstBot) Description() string {
	return "Chooses the move the engine dislikes the most."
}

func (b *WorstBot) Kind() Kind {
	return KindWorst
}
