package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// maxHalfmoveClock keeps the clock inside its state word field.
const maxHalfmoveClock = 1 << 20

// ParseFEN parses a FEN string into a new Position. Placement and side to
// move are required; missing trailing fields take their defaults (no
// castling, no en passant, clocks 0 and 1). Ranks that list fewer than
// eight squares leave the rest empty.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := newEmptyPosition()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	castling := NoCastling
	if len(parts) > 2 {
		cr, err := parseCastlingRights(parts[2])
		if err != nil {
			return nil, err
		}
		castling = pos.sanitizeCastling(cr)
	}

	epFile := -1
	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
		epFile = pos.sanitizeEnPassant(sq)
	}

	halfmove := 0
	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: invalid halfmove clock %q", ErrInvalidFEN, parts[4])
		}
		halfmove = min(n, maxHalfmoveClock)
	}

	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: invalid fullmove number %q", ErrInvalidFEN, parts[5])
		}
		pos.fullmove = n
	}

	pos.state = newStateWord(castling, epFile, NoPieceType, halfmove)
	pos.hash = pos.ComputeHash()

	if err := pos.validate(); err != nil {
		return nil, err
	}
	return pos, nil
}

// LoadFEN replaces the position with the one described by fen and clears
// the move history. On error the position is left unchanged.
func (p *Position) LoadFEN(fen string) error {
	loaded, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	*p = *loaded
	return nil
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) > 8 {
		return fmt.Errorf("%w: %d ranks in piece placement", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
				}
				continue
			}

			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}
			pos.addPiece(pc, NewSquare(file, rank))
			file++
		}
	}

	return nil
}

func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSide
		case 'Q':
			cr |= WhiteQueenSide
		case 'k':
			cr |= BlackKingSide
		case 'q':
			cr |= BlackQueenSide
		default:
			return NoCastling, fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
		}
	}
	return cr, nil
}

// sanitizeCastling drops rights whose king or rook is not on its home square.
func (p *Position) sanitizeCastling(cr CastlingRights) CastlingRights {
	homes := []struct {
		right      CastlingRights
		king, rook Piece
		kSq, rSq   Square
	}{
		{WhiteKingSide, WhiteKing, WhiteRook, E1, H1},
		{WhiteQueenSide, WhiteKing, WhiteRook, E1, A1},
		{BlackKingSide, BlackKing, BlackRook, E8, H8},
		{BlackQueenSide, BlackKing, BlackRook, E8, A8},
	}
	for _, h := range homes {
		if p.squares[h.kSq] != h.king || p.squares[h.rSq] != h.rook {
			cr &^= h.right
		}
	}
	return cr
}

// sanitizeEnPassant returns the file of a usable en-passant target, or -1
// when no pawn could have just double-pushed past sq.
func (p *Position) sanitizeEnPassant(sq Square) int {
	us := p.sideToMove
	if sq.RelativeRank(us) != 5 {
		return -1
	}
	if p.squares[enPassantVictim(sq, us)] != NewPiece(Pawn, us.Other()) {
		return -1
	}
	return sq.File()
}

// validate rejects placements no legal game can reach in ways the move
// generator depends on.
func (p *Position) validate() error {
	for _, c := range []Color{White, Black} {
		if n := p.Pieces(King, c).PopCount(); n != 1 {
			return fmt.Errorf("%w: %v has %d kings", ErrInvalidFEN, c, n)
		}
	}
	if (p.Pieces(Pawn, White)|p.Pieces(Pawn, Black))&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawn on first or last rank", ErrInvalidFEN)
	}
	them := p.Opponent()
	if p.attackersOf(p.KingSquare(them), p.sideToMove, p.all) != 0 {
		return fmt.Errorf("%w: %v is in check with %v to move", ErrInvalidFEN, them, p.sideToMove)
	}
	return nil
}

// attackersOf returns the pieces of color by that attack sq under occupancy occ.
func (p *Position) attackersOf(sq Square, by Color, occ Bitboard) Bitboard {
	queens := p.Pieces(Queen, by)
	return (PawnAttacks(sq, by.Other()) & p.Pieces(Pawn, by)) |
		(KnightAttacks(sq) & p.Pieces(Knight, by)) |
		(KingAttacks(sq) & p.Pieces(King, by)) |
		(BishopAttacks(sq, occ) & (p.Pieces(Bishop, by) | queens)) |
		(RookAttacks(sq, occ) & (p.Pieces(Rook, by) | queens))
}

// FEN returns the six-field FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights().String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassantSquare().String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfmoveClock()))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))

	return sb.String()
}
