package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrMalformed      = errors.New("malformed message")
)

// Parse decodes one protocol line. Empty lines and unknown keywords return
// ErrUnknownMessage; a known keyword with bad arguments returns ErrMalformed.
func Parse(line string) (Message, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrUnknownMessage
	}

	args := fields[1:]
	switch fields[0] {
	case "uci":
		return Uci{}, nil
	case "isready":
		return IsReady{}, nil
	case "ucinewgame":
		return UciNewGame{}, nil
	case "stop":
		return Stop{}, nil
	case "ponderhit":
		return PonderHit{}, nil
	case "quit":
		return Quit{}, nil
	case "uciok":
		return UciOk{}, nil
	case "readyok":
		return ReadyOk{}, nil
	case "debug":
		return Debug{On: len(args) > 0 && args[0] == "on"}, nil
	case "setoption":
		return parseSetOption(args)
	case "id":
		return parseID(args)
	case "option":
		return Option{Raw: line}, nil
	case "position":
		return parsePosition(args)
	case "go":
		return parseGo(args)
	case "bestmove":
		return parseBestMove(args)
	case "info":
		return parseInfo(line, args)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, fields[0])
}

func malformed(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, a...))
}

func parseSetOption(args []string) (Message, error) {
	if len(args) < 2 || args[0] != "name" {
		return nil, malformed("setoption without name")
	}
	var name, value []string
	target := &name
	for _, a := range args[1:] {
		if a == "value" && target == &name {
			target = &value
			continue
		}
		*target = append(*target, a)
	}
	return SetOption{Name: strings.Join(name, " "), Value: strings.Join(value, " ")}, nil
}

func parseID(args []string) (Message, error) {
	if len(args) < 2 {
		return nil, malformed("id without value")
	}
	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "name":
		return ID{Name: value}, nil
	case "author":
		return ID{Author: value}, nil
	}
	return nil, malformed("id %q", args[0])
}

func parsePosition(args []string) (Message, error) {
	if len(args) == 0 {
		return nil, malformed("position without board")
	}

	var pos Position
	rest := args[1:]
	switch args[0] {
	case "startpos":
		pos.StartPos = true
	case "fen":
		i := 0
		for i < len(rest) && rest[i] != "moves" {
			i++
		}
		if i == 0 {
			return nil, malformed("position fen without fen")
		}
		pos.FEN = strings.Join(rest[:i], " ")
		rest = rest[i:]
	default:
		return nil, malformed("position %q", args[0])
	}

	if len(rest) > 0 {
		if rest[0] != "moves" {
			return nil, malformed("position trailing %q", rest[0])
		}
		pos.Moves = append([]string(nil), rest[1:]...)
	}
	return pos, nil
}

func parseGo(args []string) (Message, error) {
	var g Go
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			g.Infinite = true
		case "nodes", "depth", "movetime":
			// A limit without a usable value is dropped, the search still runs.
			if i+1 >= len(args) {
				break
			}
			n, err := strconv.ParseUint(args[i+1], 10, 64)
			if err != nil {
				i++
				break
			}
			switch args[i] {
			case "nodes":
				g.Nodes = n
			case "depth":
				g.Depth = int(n)
			case "movetime":
				g.MoveTime = int(n)
			}
			i++
		}
	}
	return g, nil
}

func parseBestMove(args []string) (Message, error) {
	if len(args) == 0 {
		return nil, malformed("bestmove without move")
	}
	bm := BestMove{Move: args[0]}
	if len(args) >= 3 && args[1] == "ponder" {
		bm.Ponder = args[2]
	}
	return bm, nil
}

// parseInfo extracts the last "score cp|mate N" pair. Everything after
// "string" is free text and is not scanned.
func parseInfo(line string, args []string) (Message, error) {
	info := Info{Raw: line}
	for i := 0; i < len(args); i++ {
		if args[i] == "string" {
			break
		}
		if args[i] != "score" || i+2 >= len(args) {
			continue
		}
		kind, raw := args[i+1], args[i+2]
		if kind != "cp" && kind != "mate" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, malformed("info score %s %q", kind, raw)
		}
		info.Score = &InfoScore{Mate: kind == "mate", Value: v}
		i += 2
	}
	return info, nil
}
