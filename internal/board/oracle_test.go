package board

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
)

// oracleMoves lists the legal moves dragontoothmg finds for fen.
func oracleMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// compareWithOracle checks the legal move set against dragontoothmg at
// every node down to depth.
func compareWithOracle(t *testing.T, pos *Position, depth int) {
	t.Helper()
	fen := pos.FEN()
	if diff := cmp.Diff(oracleMoves(fen), moveStrings(GenerateMoves(pos))); diff != "" {
		t.Fatalf("%s: moves differ from dragontoothmg (-oracle +ours):\n%s", fen, diff)
	}
	if depth <= 1 {
		return
	}
	for _, m := range GenerateMoves(pos) {
		pos.MakeMove(m)
		compareWithOracle(t, pos, depth-1)
		pos.UnmakeMove(m)
	}
}

func TestMovesMatchDragontooth(t *testing.T) {
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			compareWithOracle(t, mustParseFEN(t, fen), 2)
		})
	}
}
