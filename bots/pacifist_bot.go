package bots

import (
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// Pacifist ranks, from worst to best: checkmate, capture, check, anything
// else, stalemate.
const (
	pacifistCheckmate = -10
	pacifistCapture   = -5
	pacifistCheck     = -1
	pacifistQuiet     = 0
	pacifistStalemate = 10
)

// PacifistBot ignores the engine and avoids checkmate, capture and check.
type PacifistBot struct {
	log zerolog.Logger
}

func NewPacifistBot(log zerolog.Logger) *PacifistBot {
	return &PacifistBot{log: log.With().Str("component", "pacifist").Logger()}
}

func (b *PacifistBot) BestMove(pos *chess.Position, _ Evaluator) (*chess.Move, error) {
	moves := pos.ValidMoves()
	mustHaveMoves(moves)

	var best *chess.Move
	bestValue := pacifistCheckmate - 1
	for _, m := range moves {
		v := pacifistValue(pos, m)
		b.log.Debug().Stringer("move", m).Int("value", v).Msg("scored for pacifism")
		if v >= bestValue {
			best, bestValue = m, v
		}
	}
	return best, nil
}

func pacifistValue(pos *chess.Position, m *chess.Move) int {
	switch pos.Update(m).Status() {
	case chess.Checkmate:
		return pacifistCheckmate
	case chess.Stalemate:
		return pacifistStalemate
	}
	if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
		return pacifistCapture
	}
	if m.HasTag(chess.Check) {
		return pacifistCheck
	}
	return pacifistQuiet
}

func (b *PacifistBot) Name() string {
	return "Pacifist"
}

func (b *PacifistBot) Description() string {
	return "Simple algorithm that avoids checkmate, check, and capture."
}

func (b *PacifistBot) Kind() Kind {
	return KindPacifist
}
