package board

import (
	"errors"
	"testing"
)

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", "e5d6", "exd6"},
		{"castle short", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"castle long", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"promotion", "8/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e7e8q", "e8=Q"},
		{"underpromotion capture", "3r4/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e7d8n", "exd8=N"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1d1", "Rad1"},
		{"rank disambiguation", "4k3/R7/8/8/8/8/8/R3K3 w - - 0 1", "a1a4", "R1a4"},
		{"square disambiguation", "k7/8/8/8/8/2Q1Q3/8/2Q1K3 w - - 0 1", "c3d2", "Qc3d2"},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8+"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			m := mustMove(t, tc.uci, pos)
			if got := m.SAN(pos); got != tc.want {
				t.Errorf("SAN(%s) = %q, want %q", tc.uci, got, tc.want)
			}
			if pos.FEN() != tc.fen {
				t.Errorf("SAN modified the position: %s", pos.FEN())
			}

			back, err := ParseSAN(tc.want, pos)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.want, err)
			}
			if back != m {
				t.Errorf("ParseSAN(%q) = %s, want %s", tc.want, back, m)
			}
		})
	}
}

func TestParseSANErrors(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"", "e5", "Ke2", "O-O", "Nf", "Zf3", "e4=K", "Nxf3"} {
		if _, err := ParseSAN(s, pos); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseSAN(%q) error = %v, want ErrIllegalMove", s, err)
		}
	}

	// Both knights reach d2 without disambiguation.
	pos = mustParseFEN(t, "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1")
	if _, err := ParseSAN("Nd2", pos); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("ambiguous Nd2 accepted: %v", err)
	}
	if m, err := ParseSAN("Nbd2", pos); err != nil || m.From() != B1 {
		t.Errorf("ParseSAN(Nbd2) = %s, %v", m, err)
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := NewPosition()
	var line []Move
	p := pos.Copy()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		m := mustMove(t, uci, p)
		line = append(line, m)
		p.MakeMove(m)
	}

	got := MovesToSAN(pos, line)
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %q, want %q", i, got[i], want[i])
		}
	}
	if pos.FEN() != StartFEN {
		t.Errorf("MovesToSAN modified the position")
	}
}
