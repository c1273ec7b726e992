package board

// Color is the color bit of a piece. White and Black are single bits so a
// Piece can carry its color and type in one byte.
type Color uint8

const (
	NoColor Color = 0
	White   Color = 8
	Black   Color = 16

	colorMask = White | Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ colorMask
}

// Index maps White to 0 and Black to 1 for table lookups.
func (c Color) Index() int {
	return int(c >> 4)
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType is the kind of a piece, independent of color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	typeMask = 7
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// IsSlider reports whether the piece moves along rays.
func (pt PieceType) IsSlider() bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

// Piece is a color bit OR'ed with a piece type.
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn   = Piece(White) | Piece(Pawn)
	WhiteKnight = Piece(White) | Piece(Knight)
	WhiteBishop = Piece(White) | Piece(Bishop)
	WhiteRook   = Piece(White) | Piece(Rook)
	WhiteQueen  = Piece(White) | Piece(Queen)
	WhiteKing   = Piece(White) | Piece(King)
	BlackPawn   = Piece(Black) | Piece(Pawn)
	BlackKnight = Piece(Black) | Piece(Knight)
	BlackBishop = Piece(Black) | Piece(Bishop)
	BlackRook   = Piece(Black) | Piece(Rook)
	BlackQueen  = Piece(Black) | Piece(Queen)
	BlackKing   = Piece(Black) | Piece(King)
)

// NewPiece combines a type and a color. A NoPieceType or NoColor argument
// yields NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt > King || (c != White && c != Black) {
		return NoPiece
	}
	return Piece(c) | Piece(pt)
}

// Type returns the piece type.
func (p Piece) Type() PieceType {
	return PieceType(p & typeMask)
}

// Color returns the piece color, NoColor for NoPiece.
func (p Piece) Color() Color {
	return Color(p) & colorMask
}

// IsColor reports whether p is a piece of color c.
func (p Piece) IsColor(c Color) bool {
	return p != NoPiece && p.Color() == c
}

const pieceChars = " pnbrqk"

// String returns the FEN letter, uppercase for White.
func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	ch := pieceChars[p.Type()]
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN letter to a Piece, NoPiece if unknown.
func PieceFromChar(c byte) Piece {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	for pt := Pawn; pt <= King; pt++ {
		if pieceChars[pt] == c {
			return NewPiece(pt, color)
		}
	}
	return NoPiece
}
