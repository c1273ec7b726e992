package testutil

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

// MustParseFEN parses fen and calls t.Fatal if it is rejected.
func MustParseFEN(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

// MustParseMove resolves UCI text against pos and calls t.Fatal if it is
// not a legal move there.
func MustParseMove(t testing.TB, pos *board.Position, uci string) board.Move {
	t.Helper()
	m, err := board.ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("failed to parse move %q in %s: %v", uci, pos.FEN(), err)
	}
	return m
}

// PlayMoves applies a sequence of UCI moves to pos, failing on the first
// illegal one.
func PlayMoves(t testing.TB, pos *board.Position, moves ...string) {
	t.Helper()
	for _, uci := range moves {
		pos.MakeMove(MustParseMove(t, pos, uci))
	}
}
