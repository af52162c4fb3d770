// bot.go
package bots

import (
	"errors"
	"fmt"
	"strings"

	"fishwrap/score"

	"github.com/notnil/chess"
	"golang.org/x/exp/slices"
)

var (
	// ErrNoLegalMoves is the panic value when a bot is asked to move in a
	// finished game.
	ErrNoLegalMoves = errors.New("no legal moves")

	ErrUnknownPolicy = errors.New("unknown policy")
)

// Evaluator scores every legal move of a position from the mover's side.
type Evaluator interface {
	// EvaluatePossibleMoves returns the scored moves worst first.
	EvaluatePossibleMoves(pos *chess.Position) ([]score.ScoredMove, error)
	// EvaluatePossibleMovesUnsorted returns them in enumeration order.
	EvaluatePossibleMovesUnsorted(pos *chess.Position) ([]score.ScoredMove, error)
}

// ChessBot is a decision policy: it picks the move actually played.
type ChessBot interface {
	BestMove(pos *chess.Position, eval Evaluator) (*chess.Move, error)
	Name() string
	Description() string
	Kind() Kind
}

type Kind int

const (
	KindRandom Kind = iota
	KindPacifist
	KindBest
	KindMedian
	KindDrawfish
	KindWorst
	KindScoville
)

var kindNames = map[Kind]string{
	KindRandom:   "random",
	KindPacifist: "pacifist",
	KindBest:     "best",
	KindMedian:   "median",
	KindDrawfish: "drawfish",
	KindWorst:    "worst",
	KindScoville: "scoville",
}

var aliases = map[string]Kind{
	"rand":         KindRandom,
	"random":       KindRandom,
	"pacifist":     KindPacifist,
	"pacifism":     KindPacifist,
	"hippie":       KindPacifist,
	"best":         KindBest,
	"boring":       KindBest,
	"dummy":        KindBest,
	"passthrough":  KindBest,
	"stockfish":    KindBest,
	"median":       KindMedian,
	"meh":          KindMedian,
	"mediocre":     KindMedian,
	"mediocrefish": KindMedian,
	"draw":         KindDrawfish,
	"drawfish":     KindDrawfish,
	"stale":        KindDrawfish,
	"stalemate":    KindDrawfish,
	"worst":        KindWorst,
	"worstfish":    KindWorst,
	"scoville":     KindScoville,
	"mix":          KindScoville,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every policy in declaration order.
func Kinds() []Kind {
	return []Kind{KindRandom, KindPacifist, KindBest, KindMedian, KindDrawfish, KindWorst, KindScoville}
}

// ParseKind resolves a policy name or alias, ignoring case.
func ParseKind(name string) (Kind, error) {
	if k, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Aliases returns every accepted name for k.
func Aliases(k Kind) []string {
	var names []string
	for name, kind := range aliases {
		if kind == k {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func mustHaveMoves(moves []*chess.Move) {
	if len(moves) == 0 {
		panic(ErrNoLegalMoves)
	}
}

func mustHaveScored(scored []score.ScoredMove) {
	if len(scored) == 0 {
		panic(ErrNoLegalMoves)
	}
}
