package engine

import (
	"strings"
	"testing"

	"fishwrap/engine/enginetest"
	"fishwrap/score"
	"fishwrap/uci"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// White to move: Qc1-c8 mates, Qc1-c7 stalemates.
const mateOrStalemateFEN = "k7/8/1K6/8/8/8/8/2Q5 w - - 0 1"

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	return chess.NewGame(opt).Position()
}

func mobility(pos *chess.Position) int {
	return len(pos.ValidMoves())
}

func fixed(s string) enginetest.ScoreFunc {
	return func(*chess.Position) string { return s }
}

func TestEvaluatePosition(t *testing.T) {
	start := chess.NewGame().Position()

	t.Run("last score wins", func(t *testing.T) {
		e := NewEvaluator(enginetest.New(fixed("cp 35")), 0, zerolog.Nop())
		sm, err := e.EvaluatePosition(start)
		require.NoError(t, err)
		require.Equal(t, score.Centipawns(35), sm.Score)
		require.Equal(t, start.ValidMoves()[0].String(), sm.Move.String())
	})

	t.Run("mate scores", func(t *testing.T) {
		e := NewEvaluator(enginetest.New(fixed("mate -2")), 0, zerolog.Nop())
		sm, err := e.EvaluatePosition(start)
		require.NoError(t, err)
		require.Equal(t, score.TheirMate(2), sm.Score)

		e = NewEvaluator(enginetest.New(fixed("mate 4")), 0, zerolog.Nop())
		sm, err = e.EvaluatePosition(start)
		require.NoError(t, err)
		require.Equal(t, score.OurMate(4), sm.Score)
	})

	t.Run("no score is an error", func(t *testing.T) {
		e := NewEvaluator(enginetest.New(fixed("")), 0, zerolog.Nop())
		_, err := e.EvaluatePosition(start)
		require.ErrorIs(t, err, ErrNoScore)
	})

	t.Run("unbounded search", func(t *testing.T) {
		fake := enginetest.New(fixed("cp 0"))
		_, err := NewEvaluator(fake, 0, zerolog.Nop()).EvaluatePosition(start)
		require.NoError(t, err)
		require.Equal(t, []string{"position fen " + start.String(), "go"}, fake.Sent())
	})

	t.Run("node budget", func(t *testing.T) {
		fake := enginetest.New(fixed("cp 0"))
		_, err := NewEvaluator(fake, 5000, zerolog.Nop()).EvaluatePosition(start)
		require.NoError(t, err)
		require.Equal(t, "go nodes 5000", fake.Sent()[1])
	})

	t.Run("info lines are forwarded", func(t *testing.T) {
		var got []uci.Info
		e := NewEvaluator(enginetest.New(fixed("cp 8")), 0, zerolog.Nop())
		e.SetInfoHandler(func(info uci.Info) { got = append(got, info) })

		_, err := e.EvaluatePosition(start)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Contains(t, got[1].Raw, "score cp 8")
	})

	t.Run("dead engine", func(t *testing.T) {
		fake := enginetest.New(fixed("cp 0"))
		fake.Kill()
		_, err := NewEvaluator(fake, 0, zerolog.Nop()).EvaluatePosition(start)
		require.ErrorIs(t, err, enginetest.ErrDead)
	})
}

func TestEvaluatePossibleMoves(t *testing.T) {
	t.Run("one entry per legal move with matching classification", func(t *testing.T) {
		pos := positionFromFEN(t, mateOrStalemateFEN)
		fake := enginetest.New(enginetest.Centipawns(mobility))
		e := NewEvaluator(fake, 0, zerolog.Nop())

		scored, err := e.EvaluatePossibleMovesUnsorted(pos)
		require.NoError(t, err)
		require.Len(t, scored, len(pos.ValidMoves()))

		ongoing := 0
		for i, sm := range scored {
			require.Equal(t, pos.ValidMoves()[i].String(), sm.Move.String(), "enumeration order")

			next := pos.Update(sm.Move)
			switch next.Status() {
			case chess.Checkmate:
				require.Equal(t, score.OurMate(0), sm.Score, sm.Move.String())
			case chess.Stalemate:
				require.Equal(t, score.Stalemate(0), sm.Score, sm.Move.String())
			default:
				ongoing++
				require.Equal(t, score.Centipawns(-mobility(next)), sm.Score, sm.Move.String())
			}
		}
		require.Equal(t, ongoing, fake.Searches(), "terminal positions must not reach the engine")
	})

	t.Run("known terminal moves", func(t *testing.T) {
		pos := positionFromFEN(t, mateOrStalemateFEN)
		e := NewEvaluator(enginetest.New(fixed("cp 0")), 0, zerolog.Nop())

		scored, err := e.EvaluatePossibleMoves(pos)
		require.NoError(t, err)

		byMove := map[string]score.Score{}
		for _, sm := range scored {
			byMove[sm.Move.String()] = sm.Score
		}
		require.Equal(t, score.OurMate(0), byMove["c1c8"])
		require.Equal(t, score.Stalemate(0), byMove["c1c7"])
		require.Equal(t, score.OurMate(0), scored[len(scored)-1].Score, "mate sorts last")
	})

	t.Run("sorted ascending", func(t *testing.T) {
		pos := chess.NewGame().Position()
		e := NewEvaluator(enginetest.New(enginetest.Centipawns(mobility)), 0, zerolog.Nop())

		scored, err := e.EvaluatePossibleMoves(pos)
		require.NoError(t, err)
		require.Len(t, scored, 20)
		for i := 1; i < len(scored); i++ {
			require.False(t, scored[i].Score.Less(scored[i-1].Score), "index %d", i)
		}
	})

	t.Run("engine failure aborts the sweep", func(t *testing.T) {
		fake := enginetest.New(fixed("cp 0"))
		fake.Kill()
		_, err := NewEvaluator(fake, 0, zerolog.Nop()).EvaluatePossibleMoves(chess.NewGame().Position())
		require.ErrorIs(t, err, enginetest.ErrDead)
	})
}

func TestNewGame(t *testing.T) {
	fake := enginetest.New(fixed("cp 0"))
	require.NoError(t, NewEvaluator(fake, 0, zerolog.Nop()).NewGame())
	require.Equal(t, []string{"ucinewgame", "isready"}, fake.Sent())
}

func TestPositionHashOnlyLoggedAtDebug(t *testing.T) {
	start := chess.NewGame().Position()

	for level, want := range map[zerolog.Level]bool{
		zerolog.DebugLevel: true,
		zerolog.InfoLevel:  false,
	} {
		var sb strings.Builder
		log := zerolog.New(&sb).Level(level)
		_, err := NewEvaluator(enginetest.New(fixed("cp 0")), 0, log).EvaluatePossibleMoves(start)
		require.NoError(t, err)
		require.Equal(t, want, strings.Contains(sb.String(), `"hash"`), level.String())
	}
}
