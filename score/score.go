package score

import (
	"fmt"

	"github.com/notnil/chess"
	"golang.org/x/exp/slices"
)

// Kind is the category of a Score. The declaration order is the category
// rank used by Compare.
type Kind uint8

const (
	// KindTheirMate: the evaluating side gets checkmated in N moves.
	KindTheirMate Kind = iota
	// KindStalemate: the game is drawn in N moves.
	KindStalemate
	// KindCentipawns: material/positional balance, positive is good.
	KindCentipawns
	// KindOurMate: the evaluating side delivers checkmate in N moves.
	KindOurMate
)

func (k Kind) String() string {
	switch k {
	case KindTheirMate:
		return "TheirMate"
	case KindStalemate:
		return "Stalemate"
	case KindCentipawns:
		return "Centipawns"
	case KindOurMate:
		return "OurMate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Score is an evaluated outcome, always from the evaluating side's
// perspective. Value holds centipawns for KindCentipawns and a move
// distance for the other kinds.
type Score struct {
	Kind  Kind
	Value int
}

func Centipawns(cp int) Score { return Score{Kind: KindCentipawns, Value: cp} }
func OurMate(moves int) Score { return Score{Kind: KindOurMate, Value: moves} }
func TheirMate(moves int) Score { return Score{Kind: KindTheirMate, Value: moves} }
func Stalemate(moves int) Score { return Score{Kind: KindStalemate, Value: moves} }

// FromMate converts an engine "score mate N" value. Positive N is our mate,
// negative N is theirs. Zero means the side to move is already mated,
// which for the evaluating side is a loss.
func FromMate(n int) Score {
	switch {
	case n > 0:
		return OurMate(n)
	case n < 0:
		return TheirMate(-n)
	default:
		return TheirMate(0)
	}
}

// Negate reinterprets the score from the opponent's perspective.
func (s Score) Negate() Score {
	switch s.Kind {
	case KindCentipawns:
		return Centipawns(-s.Value)
	case KindOurMate:
		return TheirMate(s.Value)
	case KindTheirMate:
		return OurMate(s.Value)
	default:
		return s
	}
}

// Compare returns -1, 0 or +1 as s is worse than, equal to or better than o.
//
// TheirMate < Stalemate < Centipawns < OurMate. Within a kind values compare
// numerically, except OurMate where a shorter mate is better.
func (s Score) Compare(o Score) int {
	if s.Kind != o.Kind {
		if s.Kind < o.Kind {
			return -1
		}
		return 1
	}

	a, b := s.Value, o.Value
	if s.Kind == KindOurMate {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s Score) Less(o Score) bool {
	return s.Compare(o) < 0
}

func (s Score) String() string {
	return fmt.Sprintf("%s(%d)", s.Kind, s.Value)
}

// ScoredMove pairs a candidate move with its evaluation.
type ScoredMove struct {
	Move  *chess.Move
	Score Score
}

func (sm ScoredMove) String() string {
	if sm.Move == nil {
		return "(none) " + sm.Score.String()
	}
	return sm.Move.String() + " " + sm.Score.String()
}

// Sort orders moves ascending by score, worst first. Equal scores keep
// their enumeration order.
func Sort(moves []ScoredMove) {
	slices.SortStableFunc(moves, func(a, b ScoredMove) int {
		return a.Score.Compare(b.Score)
	})
}
