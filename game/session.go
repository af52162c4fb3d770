// Package game runs the protocol session facing the GUI or arbiter: it
// tracks the current position and asks the active bot for a move whenever
// the GUI says "go".
package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"fishwrap/bots"
	"fishwrap/uci"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

const (
	EngineName   = "fishwrap"
	EngineAuthor = "the fishwrap developers"
)

type State int

const (
	Idle State = iota
	PositionSet
	AwaitingDecision
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PositionSet:
		return "position-set"
	case AwaitingDecision:
		return "awaiting-decision"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Engine is what the session needs from the evaluation backend.
type Engine interface {
	bots.Evaluator
	NewGame() error
}

type Session struct {
	position   *chess.Position
	state      State
	engine     Engine
	currentBot bots.ChessBot

	in       *bufio.Scanner
	out      io.Writer
	outMutex sync.Mutex

	base zerolog.Logger
	log  zerolog.Logger
}

func NewSession(in io.Reader, out io.Writer, engine Engine, bot bots.ChessBot, log zerolog.Logger) *Session {
	s := &Session{
		engine:     engine,
		currentBot: bot,
		in:         bufio.NewScanner(in),
		out:        out,
		base:       log.With().Str("component", "session").Logger(),
	}
	s.startGame()
	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Position() *chess.Position {
	return s.position
}

// Run reads directives until "quit" or end of input. Engine failures end
// the session with an error.
func (s *Session) Run() error {
	s.log.Info().Str("bot", s.currentBot.Name()).Msg("starting game main loop")

	for s.state != Terminated && s.in.Scan() {
		line := s.in.Text()
		msg, err := uci.Parse(line)
		if err != nil {
			s.log.Warn().Err(err).Str("line", line).Msg("ignoring message")
			continue
		}
		s.log.Debug().Str("line", line).Msg("receive")
		if err := s.handle(msg); err != nil {
			return err
		}
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("read directives: %w", err)
	}
	s.state = Terminated
	return nil
}

func (s *Session) handle(msg uci.Message) error {
	switch m := msg.(type) {
	case uci.Uci:
		return s.send(
			uci.ID{Name: fmt.Sprintf("%s (%s)", EngineName, s.currentBot.Name())},
			uci.ID{Author: EngineAuthor},
			uci.UciOk{},
		)
	case uci.IsReady:
		return s.send(uci.ReadyOk{})
	case uci.UciNewGame:
		s.startGame()
		if err := s.engine.NewGame(); err != nil {
			return fmt.Errorf("engine new game: %w", err)
		}
	case uci.Position:
		s.setPosition(m)
	case uci.Go:
		return s.makeBotMove()
	case uci.Quit:
		s.log.Info().Msg("quit received")
		s.state = Terminated
	default:
		s.log.Debug().Stringer("message", msg).Msg("nothing to do")
	}
	return nil
}

// startGame resets to the start position and tags the log with a new game id.
func (s *Session) startGame() {
	s.position = chess.NewGame().Position()
	s.state = Idle
	s.log = s.base.With().Str("game", uuid.NewString()).Logger()
	s.log.Info().Msg("new game")
}

func (s *Session) setPosition(m uci.Position) {
	pos, err := replay(m)
	if err != nil {
		s.log.Warn().Err(err).Stringer("directive", m).Msg("ignoring position")
		return
	}
	s.position = pos
	s.state = PositionSet
	s.log.Debug().Str("fen", pos.String()).Msg("position set")
}

func (s *Session) makeBotMove() error {
	s.state = AwaitingDecision
	defer func() {
		if s.state == AwaitingDecision {
			s.state = Idle
		}
	}()

	if len(s.position.ValidMoves()) == 0 {
		s.log.Warn().Str("fen", s.position.String()).Msg("move requested in a finished game")
		return s.send(uci.BestMove{Move: "0000"})
	}

	move, err := s.currentBot.BestMove(s.position, s.engine)
	if err != nil {
		return fmt.Errorf("%s could not decide: %w", s.currentBot.Name(), err)
	}

	notation := chess.UCINotation{}.Encode(s.position, move)
	s.log.Info().Str("move", notation).Msg("decided move")
	s.position = s.position.Update(move)
	return s.send(uci.BestMove{Move: notation})
}

// Relay forwards an engine info line to the GUI unmodified. It may be
// called from several evaluation workers at once.
func (s *Session) Relay(info uci.Info) {
	if err := s.send(info); err != nil {
		s.log.Warn().Err(err).Msg("unable to relay info")
	}
}

func (s *Session) send(msgs ...uci.Message) error {
	s.outMutex.Lock()
	defer s.outMutex.Unlock()

	for _, msg := range msgs {
		line := msg.String()
		s.log.Debug().Str("line", line).Msg("send")
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return fmt.Errorf("write to gui: %w", err)
		}
	}
	return nil
}

var errIllegalMove = errors.New("illegal move")

// replay builds the position a directive describes, checking every move
// against the legal moves of the position it is played in.
func replay(m uci.Position) (*chess.Position, error) {
	game := chess.NewGame()
	if !m.StartPos {
		opt, err := chess.FEN(m.FEN)
		if err != nil {
			return nil, err
		}
		game = chess.NewGame(opt)
	}

	pos := game.Position()
	for _, s := range m.Moves {
		move, err := findMove(pos, s)
		if err != nil {
			return nil, err
		}
		pos = pos.Update(move)
	}
	return pos, nil
}

func findMove(pos *chess.Position, s string) (*chess.Move, error) {
	decoded, err := chess.UCINotation{}.Decode(pos, s)
	if err != nil {
		return nil, err
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == decoded.S1() && m.S2() == decoded.S2() && m.Promo() == decoded.Promo() {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errIllegalMove, s)
}
