// Package enginetest provides an in-memory UCI engine for tests.
package enginetest

import (
	"errors"
	"fmt"
	"sync"

	"fishwrap/uci"

	"github.com/notnil/chess"
)

// ErrDead is returned by a killed Engine.
var ErrDead = errors.New("fake engine is dead")

// ScoreFunc returns the score attribute the engine reports for pos, for
// example "cp 35" or "mate -2". An empty string reports no score at all.
type ScoreFunc func(pos *chess.Position) string

// Engine answers searches synchronously. A search reports a throwaway
// score first, then the real one, so callers must keep the last score.
type Engine struct {
	mu       sync.Mutex
	score    ScoreFunc
	pos      *chess.Position
	queue    []string
	sent     []string
	searches int
	dead     bool
	quit     bool
}

func New(score ScoreFunc) *Engine {
	return &Engine{score: score}
}

// Centipawns builds a ScoreFunc from a centipawn evaluation.
func Centipawns(f func(pos *chess.Position) int) ScoreFunc {
	return func(pos *chess.Position) string {
		return fmt.Sprintf("cp %d", f(pos))
	}
}

func (e *Engine) Send(msg uci.Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dead {
		return ErrDead
	}
	e.sent = append(e.sent, msg.String())

	switch m := msg.(type) {
	case uci.Uci:
		e.queue = append(e.queue, "id name Fake", "id author nobody", "option name Hash type spin default 16", "uciok")
	case uci.IsReady:
		e.queue = append(e.queue, "readyok")
	case uci.Quit:
		e.quit = true
	case uci.Position:
		pos, err := positionOf(m)
		if err != nil {
			return err
		}
		e.pos = pos
	case uci.Go:
		e.search()
	}
	return nil
}

func (e *Engine) search() {
	e.searches++
	best := "(none)"
	if moves := e.pos.ValidMoves(); len(moves) > 0 {
		best = moves[0].String()
	}
	if s := e.score(e.pos); s != "" {
		e.queue = append(e.queue,
			"info depth 1 score cp 12345 nodes 1",
			"this line is not protocol",
			"info depth 2 score "+s+" nodes 20 pv "+best,
		)
	}
	e.queue = append(e.queue, "info string done", "bestmove "+best)
}

func (e *Engine) Receive() (uci.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for {
		if e.dead {
			return nil, ErrDead
		}
		if len(e.queue) == 0 {
			return nil, errors.New("fake engine has nothing to say")
		}
		line := e.queue[0]
		e.queue = e.queue[1:]
		if msg, err := uci.Parse(line); err == nil {
			return msg, nil
		}
	}
}

// Kill makes every later Send and Receive fail.
func (e *Engine) Kill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dead = true
}

// Sent returns every line written to the engine so far.
func (e *Engine) Sent() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sent...)
}

func (e *Engine) Searches() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searches
}

func (e *Engine) QuitReceived() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

func positionOf(m uci.Position) (*chess.Position, error) {
	game := chess.NewGame()
	if !m.StartPos && m.FEN != "" {
		opt, err := chess.FEN(m.FEN)
		if err != nil {
			return nil, err
		}
		game = chess.NewGame(opt)
	}
	pos := game.Position()
	for _, s := range m.Moves {
		mv, err := chess.UCINotation{}.Decode(pos, s)
		if err != nil {
			return nil, err
		}
		pos = pos.Update(mv)
	}
	return pos, nil
}
