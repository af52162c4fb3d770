package engine

import (
	"errors"
	"fmt"

	"fishwrap/score"
	"fishwrap/uci"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// ErrNoScore means the engine finished a search without reporting a score.
var ErrNoScore = errors.New("engine did not report a score before its best move")

// InfoHandler receives every scored info line the engine emits.
type InfoHandler func(info uci.Info)

// Evaluator asks one engine connection for verdicts.
type Evaluator struct {
	conn   Conn
	nodes  uint64
	log    zerolog.Logger
	onInfo InfoHandler
}

// NewEvaluator wraps conn. A zero nodes budget leaves searches unbounded.
func NewEvaluator(conn Conn, nodes uint64, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		conn:  conn,
		nodes: nodes,
		log:   log.With().Str("component", "evaluator").Logger(),
	}
}

func (e *Evaluator) SetInfoHandler(h InfoHandler) {
	e.onInfo = h
}

// NewGame tells the engine a new game starts and waits until it is ready.
func (e *Evaluator) NewGame() error {
	if err := e.conn.Send(uci.UciNewGame{}); err != nil {
		return err
	}
	return ready(e.conn)
}

// Shutdown stops the underlying engine if the connection owns one.
func (e *Evaluator) Shutdown() error {
	if s, ok := e.conn.(interface{ Shutdown() error }); ok {
		return s.Shutdown()
	}
	return nil
}

// EvaluatePosition has the engine search pos. The returned move is the
// engine's choice for the side to move; the score is the last one the engine
// reported before its best move, from the side to move's perspective.
func (e *Evaluator) EvaluatePosition(pos *chess.Position) (score.ScoredMove, error) {
	if ev := e.log.Debug(); ev.Enabled() {
		ev.Hex("hash", hashOf(pos)).Msg("evaluating position")
	}

	if err := e.conn.Send(uci.Position{FEN: pos.String()}); err != nil {
		return score.ScoredMove{}, err
	}
	if err := e.conn.Send(uci.Go{Nodes: e.nodes}); err != nil {
		return score.ScoredMove{}, err
	}

	var (
		last *score.Score
		best uci.BestMove
	)
	for {
		msg, err := e.conn.Receive()
		if err != nil {
			return score.ScoredMove{}, err
		}

		if bm, ok := msg.(uci.BestMove); ok {
			best = bm
			break
		}
		info, ok := msg.(uci.Info)
		if !ok || info.Score == nil {
			continue
		}
		s := score.Centipawns(info.Score.Value)
		if info.Score.Mate {
			s = score.FromMate(info.Score.Value)
		}
		last = &s
		if e.onInfo != nil {
			e.onInfo(info)
		}
	}

	if last == nil {
		return score.ScoredMove{}, ErrNoScore
	}

	result := score.ScoredMove{Score: *last}
	if best.Move != "(none)" && best.Move != "0000" {
		m, err := chess.UCINotation{}.Decode(pos, best.Move)
		if err != nil {
			return score.ScoredMove{}, fmt.Errorf("engine best move %q: %w", best.Move, err)
		}
		result.Move = m
	}
	e.log.Debug().Stringer("result", result).Msg("engine finished")
	return result, nil
}

// EvaluatePossibleMovesUnsorted scores every legal move of pos in
// enumeration order.
func (e *Evaluator) EvaluatePossibleMovesUnsorted(pos *chess.Position) ([]score.ScoredMove, error) {
	if ev := e.log.Debug(); ev.Enabled() {
		ev.Hex("hash", hashOf(pos)).Msg("evaluating all possible moves")
	}

	moves := pos.ValidMoves()
	scored := make([]score.ScoredMove, 0, len(moves))
	for _, m := range moves {
		sm, err := scoreMove(e, pos, m)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sm)
	}
	return scored, nil
}

// EvaluatePossibleMoves is EvaluatePossibleMovesUnsorted ordered worst
// first.
func (e *Evaluator) EvaluatePossibleMoves(pos *chess.Position) ([]score.ScoredMove, error) {
	scored, err := e.EvaluatePossibleMovesUnsorted(pos)
	if err != nil {
		return nil, err
	}
	score.Sort(scored)
	return scored, nil
}

// scoreMove plays m on pos and scores the result for the mover. Finished
// games score immediately; otherwise the engine evaluates the reply side
// and its verdict is negated.
func scoreMove(e *Evaluator, pos *chess.Position, m *chess.Move) (score.ScoredMove, error) {
	next := pos.Update(m)

	switch next.Status() {
	case chess.Checkmate:
		return score.ScoredMove{Move: m, Score: score.OurMate(0)}, nil
	case chess.Stalemate:
		return score.ScoredMove{Move: m, Score: score.Stalemate(0)}, nil
	}

	reply, err := e.EvaluatePosition(next)
	if err != nil {
		return score.ScoredMove{}, fmt.Errorf("evaluate %s: %w", m, err)
	}
	return score.ScoredMove{Move: m, Score: reply.Score.Negate()}, nil
}

func hashOf(pos *chess.Position) []byte {
	h := pos.Hash()
	return h[:]
}
