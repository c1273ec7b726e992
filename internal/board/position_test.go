package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testFENs is a mix of openings, tactical positions and endgames.
var testFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
}

// snapshot captures every field make/unmake must restore.
type snapshot struct {
	Squares  [64]Piece
	Pieces   [2][7]Bitboard
	Occupied [2]Bitboard
	All      Bitboard
	Kings    [2]Square
	Side     Color
	State    StateWord
	Hash     uint64
	Captures [2][7]int
	Fullmove int
}

func takeSnapshot(p *Position) snapshot {
	return snapshot{
		Squares:  p.squares,
		Pieces:   p.pieces,
		Occupied: p.occupied,
		All:      p.all,
		Kings:    p.kings,
		Side:     p.sideToMove,
		State:    p.state,
		Hash:     p.hash,
		Captures: p.captures,
		Fullmove: p.fullmove,
	}
}

func mustParseFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			pos := mustParseFEN(t, fen)
			checkRoundTrip(t, pos, 2)
		})
	}
}

func checkRoundTrip(t *testing.T, pos *Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}
	for _, m := range GenerateMoves(pos) {
		before := takeSnapshot(pos)
		pos.MakeMove(m)
		checkRoundTrip(t, pos, depth-1)
		pos.UnmakeMove(m)
		if diff := cmp.Diff(before, takeSnapshot(pos)); diff != "" {
			t.Fatalf("unmake %v mismatch (-want +got):\n%s", m, diff)
		}
	}
}

func TestIncrementalHashMatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, fen := range testFENs {
		pos := mustParseFEN(t, fen)
		start := takeSnapshot(pos)
		var played []Move

		for ply := 0; ply < 200; ply++ {
			moves := GenerateMoves(pos)
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]
			pos.MakeMove(m)
			played = append(played, m)

			if got, want := pos.Hash(), pos.ComputeHash(); got != want {
				t.Fatalf("%s: after %v hash = %016x, recomputed %016x", fen, played, got, want)
			}
		}

		for i := len(played) - 1; i >= 0; i-- {
			pos.UnmakeMove(played[i])
		}
		if diff := cmp.Diff(start, takeSnapshot(pos)); diff != "" {
			t.Errorf("%s: full unwind mismatch (-want +got):\n%s", fen, diff)
		}
	}
}

func TestHashDeterminism(t *testing.T) {
	a := mustParseFEN(t, StartFEN)
	b := mustParseFEN(t, StartFEN)
	if a.Hash() != b.Hash() {
		t.Fatalf("same FEN, different hashes: %016x vs %016x", a.Hash(), b.Hash())
	}

	for _, s := range []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4"} {
		ma, err := ParseMove(s, a)
		if err != nil {
			t.Fatal(err)
		}
		mb, err := ParseMove(s, b)
		if err != nil {
			t.Fatal(err)
		}
		a.MakeMove(ma)
		b.MakeMove(mb)
		if a.Hash() != b.Hash() {
			t.Fatalf("after %s hashes differ", s)
		}
	}

	// Transpositions reach the same hash.
	c := mustParseFEN(t, StartFEN)
	for _, s := range []string{"g1f3", "d7d6", "e2e4", "c7c5", "d2d4", "c5d4"} {
		if err := c.Apply(mustMove(t, s, c)); err != nil {
			t.Fatal(err)
		}
	}
	if a.Hash() != c.Hash() {
		t.Errorf("transposed move order gave a different hash")
	}
}

func mustMove(t *testing.T, s string, pos *Position) Move {
	t.Helper()
	m, err := ParseMove(s, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestHashDistinguishesSideAndRights(t *testing.T) {
	base := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	others := []string{
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w Kkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1",
	}
	for _, fen := range others {
		if mustParseFEN(t, fen).Hash() == base.Hash() {
			t.Errorf("%s hashes equal to base", fen)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		if got := mustParseFEN(t, fen).FEN(); got != fen {
			t.Errorf("FEN round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestFENAfterMoves(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(mustMove(t, "e2e4", pos))
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := pos.FEN(); got != want {
		t.Errorf("after e2e4:\n got %s\nwant %s", got, want)
	}

	pos.MakeMove(mustMove(t, "g8f6", pos))
	want = "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2"
	if got := pos.FEN(); got != want {
		t.Errorf("after g8f6:\n got %s\nwant %s", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"placement only", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"},
		{"bad piece", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"too many squares", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"too many ranks", "rnbqkbnr/pppppppp/8/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KX - 0 1"},
		{"bad ep square", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1"},
		{"bad clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"pawn on back rank", "4k2P/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"side not to move in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", tc.fen, err)
			}
		})
	}
}

func TestParseFENDefaults(t *testing.T) {
	// Short ranks leave the remaining squares empty; trailing fields default.
	pos := mustParseFEN(t, "4k/8/8/8/8/8/8/4K w")
	if pos.PieceAt(E8) != BlackKing || pos.PieceAt(E1) != WhiteKing {
		t.Errorf("kings not placed: %v", pos)
	}
	if pos.CastlingRights() != NoCastling || pos.EnPassantSquare() != NoSquare {
		t.Errorf("unexpected rights/ep: %v %v", pos.CastlingRights(), pos.EnPassantSquare())
	}
	if pos.HalfmoveClock() != 0 || pos.FullmoveNumber() != 1 {
		t.Errorf("clocks = %d %d, want 0 1", pos.HalfmoveClock(), pos.FullmoveNumber())
	}
}

func TestLoadFENKeepsPositionOnError(t *testing.T) {
	pos := NewPosition()
	before := takeSnapshot(pos)
	if err := pos.LoadFEN("not a fen"); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(before, takeSnapshot(pos)); diff != "" {
		t.Errorf("position changed on failed load (-want +got):\n%s", diff)
	}
}

func TestStateWord(t *testing.T) {
	pos := NewPosition()

	pos.MakeMove(mustMove(t, "e2e4", pos))
	if got := pos.State().EnPassantFile(); got != 4 {
		t.Errorf("after e2e4 ep file = %d, want 4", got)
	}
	if got := (pos.State() >> stateEPShift) & 0xF; got != 5 {
		t.Errorf("after e2e4 ep field = %d, want 5", got)
	}

	pos.MakeMove(mustMove(t, "d7d5", pos))
	pos.MakeMove(mustMove(t, "e4d5", pos))
	if got := pos.State().CapturedType(); got != Pawn {
		t.Errorf("after exd5 captured = %v, want Pawn", got)
	}
	if got := pos.State().EnPassantFile(); got != -1 {
		t.Errorf("after exd5 ep file = %d, want -1", got)
	}
	if got := pos.Captures(White, Pawn); got != 1 {
		t.Errorf("white pawn captures = %d, want 1", got)
	}

	pos.UnmakeMove(pos.LastMove())
	if got := pos.Captures(White, Pawn); got != 0 {
		t.Errorf("capture tally after unmake = %d, want 0", got)
	}
	if got := pos.State().EnPassantFile(); got != 3 {
		t.Errorf("ep file after unmake = %d, want 3", got)
	}
}

func TestCastlingRightsUpdates(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/8/8/8/8/8/6b1/R3K2R b KQkq - 0 1")

	pos.MakeMove(mustMove(t, "g2h1", pos))
	if got := pos.CastlingRights(); got != WhiteQueenSide|BlackKingSide|BlackQueenSide {
		t.Errorf("after Bxh1 rights = %v, want Qkq", got)
	}

	pos.MakeMove(mustMove(t, "e1c1", pos))
	if pos.PieceAt(D1) != WhiteRook || pos.PieceAt(C1) != WhiteKing {
		t.Errorf("castling did not move king and rook:%v", pos)
	}
	if got := pos.CastlingRights(); got != BlackKingSide|BlackQueenSide {
		t.Errorf("after O-O-O rights = %v, want kq", got)
	}

	pos.UnmakeMove(pos.LastMove())
	if pos.PieceAt(A1) != WhiteRook || pos.PieceAt(E1) != WhiteKing || pos.PieceAt(D1) != NoPiece {
		t.Errorf("unmake castling did not restore pieces:%v", pos)
	}
	if got := pos.CastlingRights(); got != WhiteQueenSide|BlackKingSide|BlackQueenSide {
		t.Errorf("rights after unmake = %v, want Qkq", got)
	}
}

func TestPromotionMakeUnmake(t *testing.T) {
	pos := mustParseFEN(t, "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := takeSnapshot(pos)

	m := mustMove(t, "a7b8n", pos)
	pos.MakeMove(m)
	if pos.PieceAt(B8) != WhiteKnight || pos.PieceAt(A7) != NoPiece {
		t.Errorf("promotion capture misplaced pieces:%v", pos)
	}
	if pos.Pieces(Pawn, White) != 0 || pos.Pieces(Knight, White) != SquareBB(B8) {
		t.Errorf("piece index out of sync after promotion")
	}
	if pos.Captures(White, Rook) != 1 {
		t.Errorf("rook capture not tallied")
	}

	pos.UnmakeMove(m)
	if diff := cmp.Diff(before, takeSnapshot(pos)); diff != "" {
		t.Errorf("unmake promotion mismatch (-want +got):\n%s", diff)
	}
}

func TestEnPassantMakeUnmake(t *testing.T) {
	pos := mustParseFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	before := takeSnapshot(pos)

	m := mustMove(t, "e5f6", pos)
	if !m.IsEnPassant() {
		t.Fatalf("e5f6 not flagged en passant: flags %b", m.Flags())
	}
	pos.MakeMove(m)
	if pos.PieceAt(F5) != NoPiece || pos.PieceAt(F6) != WhitePawn {
		t.Errorf("en passant left the board wrong:%v", pos)
	}

	pos.UnmakeMove(m)
	if diff := cmp.Diff(before, takeSnapshot(pos)); diff != "" {
		t.Errorf("unmake en passant mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(mustMove(t, "e2e4", pos))

	c := pos.Copy()
	c.MakeMove(mustMove(t, "e7e5", c))
	c.UnmakeMove(c.LastMove())
	c.UnmakeMove(c.LastMove())

	if pos.LastMove().String() != "e2e4" || pos.Ply() != 1 {
		t.Errorf("copy shares history with original")
	}
	if c.FEN() != StartFEN {
		t.Errorf("copy unwound to %s", c.FEN())
	}
}

func TestMakeMoveAssertions(t *testing.T) {
	assertPanics(t, "empty start square", func() {
		pos := NewPosition()
		pos.MakeMove(NewMove(E4, E5, FlagNone))
	})
	assertPanics(t, "wrong color", func() {
		pos := NewPosition()
		pos.MakeMove(NewMove(E7, E5, FlagPawnTwoForward))
	})
	assertPanics(t, "empty history", func() {
		pos := NewPosition()
		pos.UnmakeMove(NewMove(E2, E4, FlagPawnTwoForward))
	})
}

func assertPanics(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	pos := NewPosition()
	err := pos.Apply(NewMove(E2, E5, FlagNone))
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Apply(e2e5) error = %v, want ErrIllegalMove", err)
	}
	if pos.Ply() != 0 {
		t.Errorf("illegal move changed the position")
	}

	if err := pos.Apply(NewMove(E2, E4, FlagPawnTwoForward)); err != nil {
		t.Errorf("Apply(e2e4): %v", err)
	}
	if pos.LastMove().String() != "e2e4" {
		t.Errorf("LastMove = %v, want e2e4", pos.LastMove())
	}
}

func TestParseMove(t *testing.T) {
	pos := mustParseFEN(t, "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")

	m, err := ParseMove("b7b8q", pos)
	if err != nil {
		t.Fatal(err)
	}
	if m.Promotion() != Queen || !m.GivesCheck() {
		t.Errorf("b7b8q = %v flags %b, want queen promotion with check", m, m.Flags())
	}

	for _, bad := range []string{"b7b8", "b7b8k", "e1e3", "zz", "e9e8"} {
		if _, err := ParseMove(bad, pos); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrIllegalMove", bad, err)
		}
	}
}
