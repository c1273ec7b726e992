package board

import (
	"fmt"
	"strings"
)

const sanPieceLetters = " PNBRQK"

// SAN returns m in Standard Algebraic Notation. m must be legal in pos;
// pos is not modified.
func (m Move) SAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	if m.IsCastle() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte(sanPieceLetters[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(sanPieceLetters[m.Promotion()])
		}
	}

	// The check flag is exact; mate needs a look at the reply.
	if m.GivesCheck() {
		after := pos.Copy()
		after.MakeMove(m)
		if after.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank, or square needed to tell
// m apart from other pt moves to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	pieces := pos.Pieces(pt, pos.SideToMove())

	var sameFile, sameRank, ambiguous bool
	for _, other := range GenerateMoves(pos) {
		of := other.From()
		if other.To() != to || of == from || !pieces.IsSet(of) {
			continue
		}
		ambiguous = true
		sameFile = sameFile || of.File() == from.File()
		sameRank = sameRank || of.Rank() == from.Rank()
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN resolves a SAN string against the legal moves of pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimRight(text, "+#!?")

	switch text {
	case "O-O", "0-0":
		return findCastle(pos, true, s)
	case "O-O-O", "0-0-0":
		return findCastle(pos, false, s)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		if idx+1 >= len(text) {
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
		promo = sanPiece(text[idx+1])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("%w: bad promotion in %q", ErrIllegalMove, s)
		}
		text = text[:idx]
	}

	capture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	pt := Pawn
	if len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z' {
		pt = sanPiece(text[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("%w: bad piece in %q", ErrIllegalMove, s)
		}
		text = text[1:]
	}

	if len(text) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	dest, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	file, rank := -1, -1
	for _, c := range text[:len(text)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
	}

	found := NoMove
	for _, m := range GenerateMoves(pos) {
		from := m.From()
		switch {
		case m.To() != dest, m.IsCastle(), pos.PieceAt(from).Type() != pt:
			continue
		case file >= 0 && from.File() != file, rank >= 0 && from.Rank() != rank:
			continue
		case capture && !m.IsCapture(), m.Promotion() != promo:
			continue
		}
		if found != NoMove {
			return NoMove, fmt.Errorf("%w: ambiguous %q", ErrIllegalMove, s)
		}
		found = m
	}
	if found == NoMove {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	return found, nil
}

func findCastle(pos *Position, kingSide bool, s string) (Move, error) {
	for _, m := range GenerateMovesFrom(pos, pos.KingSquare(pos.SideToMove())) {
		if m.IsCastle() && (m.To() > m.From()) == kingSide {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

func sanPiece(c byte) PieceType {
	if i := strings.IndexByte(sanPieceLetters, c); i > 0 {
		return PieceType(i)
	}
	return NoPieceType
}

// MovesToSAN converts a line of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()
	for i, m := range moves {
		result[i] = m.SAN(p)
		p.MakeMove(m)
	}
	return result
}
