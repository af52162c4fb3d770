// Package uci encodes and decodes the line protocol spoken between a chess
// GUI and an engine. The same message set is used in both directions.
package uci

import (
	"strconv"
	"strings"
)

// Message is one protocol line. String returns the line without the
// trailing newline.
type Message interface {
	String() string
}

type (
	Uci        struct{}
	IsReady    struct{}
	UciNewGame struct{}
	Stop       struct{}
	PonderHit  struct{}
	Quit       struct{}
	UciOk      struct{}
	ReadyOk    struct{}
)

func (Uci) String() string { return "uci" }
func (IsReady) String() string { return "isready" }
func (UciNewGame) String() string { return "ucinewgame" }
func (Stop) String() string { return "stop" }
func (PonderHit) String() string { return "ponderhit" }
func (Quit) String() string { return "quit" }
func (UciOk) String() string { return "uciok" }
func (ReadyOk) String() string { return "readyok" }

type Debug struct {
	On bool
}

func (d Debug) String() string {
	if d.On {
		return "debug on"
	}
	return "debug off"
}

// SetOption is "setoption name <id> [value <x>]".
type SetOption struct {
	Name  string
	Value string
}

func (o SetOption) String() string {
	s := "setoption name " + o.Name
	if o.Value != "" {
		s += " value " + o.Value
	}
	return s
}

// ID is "id name <x>" or "id author <x>". Exactly one field is expected to
// be set; Name wins if both are.
type ID struct {
	Name   string
	Author string
}

func (id ID) String() string {
	if id.Name != "" {
		return "id name " + id.Name
	}
	return "id author " + id.Author
}

// Option is an engine's "option name ..." advertisement, kept verbatim.
type Option struct {
	Raw string
}

func (o Option) String() string { return o.Raw }

// Position sets up a board either from the start position or from a FEN,
// followed by moves in long algebraic notation.
type Position struct {
	StartPos bool
	FEN      string
	Moves    []string
}

func (p Position) String() string {
	var b strings.Builder
	b.WriteString("position ")
	if p.StartPos || p.FEN == "" {
		b.WriteString("startpos")
	} else {
		b.WriteString("fen ")
		b.WriteString(p.FEN)
	}
	if len(p.Moves) > 0 {
		b.WriteString(" moves ")
		b.WriteString(strings.Join(p.Moves, " "))
	}
	return b.String()
}

// Go starts a search. Zero values mean "not given"; a Go with no limits
// leaves the search unbounded.
type Go struct {
	Nodes    uint64
	Depth    int
	MoveTime int
	Infinite bool
}

func (g Go) String() string {
	a := []string{"go"}
	if g.Nodes > 0 {
		a = append(a, "nodes", strconv.FormatUint(g.Nodes, 10))
	}
	if g.Depth > 0 {
		a = append(a, "depth", strconv.Itoa(g.Depth))
	}
	if g.MoveTime > 0 {
		a = append(a, "movetime", strconv.Itoa(g.MoveTime))
	}
	if g.Infinite {
		a = append(a, "infinite")
	}
	return strings.Join(a, " ")
}

// BestMove ends a search. Move is in long algebraic notation, or "(none)"
// when the engine had nothing to play.
type BestMove struct {
	Move   string
	Ponder string
}

func (m BestMove) String() string {
	if m.Ponder != "" {
		return "bestmove " + m.Move + " ponder " + m.Ponder
	}
	return "bestmove " + m.Move
}

// Info is an engine "info" line. Raw is kept so the line can be relayed
// unmodified; only the score is decoded.
type Info struct {
	Raw   string
	Score *InfoScore
}

// InfoScore is the "score cp N" or "score mate N" attribute of an info line.
type InfoScore struct {
	Mate  bool
	Value int
}

func (i Info) String() string { return i.Raw }
