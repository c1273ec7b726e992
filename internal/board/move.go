package board

import "fmt"

// Move encodes a chess move in 32 bits:
// bits 0-5:   start square
// bits 6-11:  target square
// bits 12-20: MoveFlag
type Move uint32

// MoveFlag marks the kind of a move. Check is orthogonal to the others.
type MoveFlag uint16

const (
	FlagNone           MoveFlag = 0
	FlagCastle         MoveFlag = 1 << 0
	FlagPawnTwoForward MoveFlag = 1 << 1
	FlagPromoteKnight  MoveFlag = 1 << 2
	FlagPromoteBishop  MoveFlag = 1 << 3
	FlagPromoteRook    MoveFlag = 1 << 4
	FlagPromoteQueen   MoveFlag = 1 << 5
	FlagEnPassant      MoveFlag = 1 << 6
	FlagCapture        MoveFlag = 1 << 7
	FlagCheck          MoveFlag = 1 << 8

	flagPromotion = FlagPromoteKnight | FlagPromoteBishop | FlagPromoteRook | FlagPromoteQueen
)

// NoMove is the zero move (a1a1), never produced by the generator.
const NoMove Move = 0

// NewMove builds a move from its squares and flags.
func NewMove(from, to Square, flags MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flags)<<12
}

// From returns the start square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the target square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flags returns every flag bit set on the move.
func (m Move) Flags() MoveFlag {
	return MoveFlag(m >> 12)
}

// Has reports whether all bits of f are set.
func (m Move) Has(f MoveFlag) bool {
	return m.Flags()&f == f
}

// WithFlags returns a copy of m with f added.
func (m Move) WithFlags(f MoveFlag) Move {
	return m | Move(f)<<12
}

// IsCapture reports whether the move removes an enemy piece, en passant included.
func (m Move) IsCapture() bool {
	return m.Flags()&(FlagCapture|FlagEnPassant) != 0
}

func (m Move) IsEnPassant() bool { return m.Has(FlagEnPassant) }
func (m Move) IsCastle() bool    { return m.Has(FlagCastle) }
func (m Move) GivesCheck() bool  { return m.Has(FlagCheck) }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flags()&flagPromotion != 0
}

// Promotion returns the promoted piece type, NoPieceType otherwise.
func (m Move) Promotion() PieceType {
	switch m.Flags() & flagPromotion {
	case FlagPromoteKnight:
		return Knight
	case FlagPromoteBishop:
		return Bishop
	case FlagPromoteRook:
		return Rook
	case FlagPromoteQueen:
		return Queen
	}
	return NoPieceType
}

// promotionFlag maps a promotion piece type to its flag.
func promotionFlag(pt PieceType) MoveFlag {
	switch pt {
	case Knight:
		return FlagPromoteKnight
	case Bishop:
		return FlagPromoteBishop
	case Rook:
		return FlagPromoteRook
	case Queen:
		return FlagPromoteQueen
	}
	return FlagNone
}

// SameAction reports whether m and o move the same piece the same way,
// ignoring the check marker.
func (m Move) SameAction(o Move) bool {
	return m&^(Move(FlagCheck)<<12) == o&^(Move(FlagCheck)<<12)
}

// String returns the move in UCI form ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if pt := m.Promotion(); pt != NoPieceType {
		s += string(pieceChars[pt])
	}
	return s
}

// ParseMove resolves UCI text against the legal moves of pos. The returned
// move carries the generator's flags, check marker included.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: malformed move %q", ErrIllegalMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceFromChar(s[4]).Type()
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("%w: invalid promotion piece %q", ErrIllegalMove, s[4])
		}
	}

	for _, m := range GenerateMovesFrom(pos, from) {
		if m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// MaxMoves bounds the number of legal moves in any chess position.
const MaxMoves = 256

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether the list holds m, compared by encoded value.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
