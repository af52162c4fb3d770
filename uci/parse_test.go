package uci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCommands(t *testing.T) {
	cases := map[string]Message{
		"uci":        Uci{},
		"isready":    IsReady{},
		"ucinewgame": UciNewGame{},
		"stop":       Stop{},
		"ponderhit":  PonderHit{},
		"quit":       Quit{},
		"uciok":      UciOk{},
		"readyok":    ReadyOk{},
		"  quit \r":  Quit{},
		"debug on":   Debug{On: true},
		"debug off":  Debug{},
	}
	for line, want := range cases {
		got, err := Parse(line)
		require.NoError(t, err, line)
		assert.Equal(t, want, got, line)
	}
}

func TestParseUnknown(t *testing.T) {
	for _, line := range []string{"", "   ", "xboard", "protover 2"} {
		_, err := Parse(line)
		require.ErrorIs(t, err, ErrUnknownMessage, line)
	}
}

func TestParsePosition(t *testing.T) {
	t.Run("startpos with moves", func(t *testing.T) {
		msg, err := Parse("position startpos moves e2e4 e7e5")
		require.NoError(t, err)
		require.Equal(t, Position{StartPos: true, Moves: []string{"e2e4", "e7e5"}}, msg)
	})

	t.Run("fen without moves", func(t *testing.T) {
		fen := "k7/8/1K6/8/8/8/8/2Q5 w - - 0 1"
		msg, err := Parse("position fen " + fen)
		require.NoError(t, err)
		require.Equal(t, Position{FEN: fen}, msg)
	})

	t.Run("fen with moves", func(t *testing.T) {
		msg, err := Parse("position fen 8/8/8/8/8/8/8/K6k w - - 0 1 moves a1a2")
		require.NoError(t, err)
		pos := msg.(Position)
		require.Equal(t, "8/8/8/8/8/8/8/K6k w - - 0 1", pos.FEN)
		require.Equal(t, []string{"a1a2"}, pos.Moves)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, line := range []string{"position", "position fen", "position somewhere", "position startpos e2e4"} {
			_, err := Parse(line)
			require.ErrorIs(t, err, ErrMalformed, line)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		for _, line := range []string{
			"position startpos",
			"position startpos moves e2e4",
			"position fen 8/8/8/8/8/8/8/K6k w - - 0 1 moves a1a2 h1h2",
		} {
			msg, err := Parse(line)
			require.NoError(t, err)
			require.Equal(t, line, msg.String())
		}
	})
}

func TestParseGo(t *testing.T) {
	msg, err := Parse("go wtime 1000 btime 1000 nodes 5000")
	require.NoError(t, err)
	require.Equal(t, Go{Nodes: 5000}, msg)

	msg, err = Parse("go")
	require.NoError(t, err)
	require.Equal(t, "go", msg.String())

	msg, err = Parse("go depth 12 movetime 75 infinite")
	require.NoError(t, err)
	require.Equal(t, Go{Depth: 12, MoveTime: 75, Infinite: true}, msg)

	t.Run("unusable limits are dropped", func(t *testing.T) {
		for line, want := range map[string]Go{
			"go nodes lots":         {},
			"go depth -1":           {},
			"go depth -1 nodes 300": {Nodes: 300},
			"go movetime":           {},
			"go infinite depth x":   {Infinite: true},
		} {
			msg, err := Parse(line)
			require.NoError(t, err, line)
			require.Equal(t, want, msg, line)
		}
	})

	assert.Equal(t, "go nodes 1000", Go{Nodes: 1000}.String())
}

func TestParseInfo(t *testing.T) {
	t.Run("centipawns", func(t *testing.T) {
		line := "info depth 10 seldepth 14 multipv 1 score cp 23 nodes 1000 pv e2e4 e7e5"
		msg, err := Parse(line)
		require.NoError(t, err)
		info := msg.(Info)
		require.Equal(t, line, info.String())
		require.Equal(t, &InfoScore{Value: 23}, info.Score)
	})

	t.Run("mate", func(t *testing.T) {
		msg, err := Parse("info depth 3 score mate -2 pv a1a2")
		require.NoError(t, err)
		require.Equal(t, &InfoScore{Mate: true, Value: -2}, msg.(Info).Score)
	})

	t.Run("bound suffix", func(t *testing.T) {
		msg, err := Parse("info depth 3 score cp 15 lowerbound nodes 10")
		require.NoError(t, err)
		require.Equal(t, &InfoScore{Value: 15}, msg.(Info).Score)
	})

	t.Run("no score", func(t *testing.T) {
		msg, err := Parse("info string score cp 99 is not real")
		require.NoError(t, err)
		require.Nil(t, msg.(Info).Score)

		msg, err = Parse("info depth 1 currmove e2e4")
		require.NoError(t, err)
		require.Nil(t, msg.(Info).Score)
	})

	t.Run("garbled score", func(t *testing.T) {
		_, err := Parse("info score cp abc")
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestParseBestMove(t *testing.T) {
	msg, err := Parse("bestmove e2e4 ponder e7e5")
	require.NoError(t, err)
	require.Equal(t, BestMove{Move: "e2e4", Ponder: "e7e5"}, msg)
	require.Equal(t, "bestmove e2e4 ponder e7e5", msg.String())

	msg, err = Parse("bestmove (none)")
	require.NoError(t, err)
	require.Equal(t, BestMove{Move: "(none)"}, msg)

	_, err = Parse("bestmove")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseIDAndOptions(t *testing.T) {
	msg, err := Parse("id name Stockfish 16")
	require.NoError(t, err)
	require.Equal(t, ID{Name: "Stockfish 16"}, msg)

	msg, err = Parse("id author the Stockfish developers")
	require.NoError(t, err)
	require.Equal(t, "id author the Stockfish developers", msg.String())

	msg, err = Parse("setoption name Skill Level value 3")
	require.NoError(t, err)
	require.Equal(t, SetOption{Name: "Skill Level", Value: "3"}, msg)

	msg, err = Parse("option name Hash type spin default 16 min 1 max 33554432")
	require.NoError(t, err)
	require.Equal(t, "option name Hash type spin default 16 min 1 max 33554432", msg.String())

	_, err = Parse("setoption value 3")
	require.ErrorIs(t, err, ErrMalformed)
}
