package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSide  CastlingRights = 1 << iota // K
	WhiteQueenSide                            // Q
	BlackKingSide                             // k
	BlackQueenSide                            // q

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSide != 0 {
		s += "K"
	}
	if cr&WhiteQueenSide != 0 {
		s += "Q"
	}
	if cr&BlackKingSide != 0 {
		s += "k"
	}
	if cr&BlackQueenSide != 0 {
		s += "q"
	}
	return s
}

// CanCastle reports whether c still holds the right to castle on the given side.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSide
	case c == White:
		return WhiteQueenSide
	case kingSide:
		return BlackKingSide
	default:
		return BlackQueenSide
	}
}

// castleRightsLost maps a square to the rights that vanish when a move
// starts or ends there.
var castleRightsLost = func() (t [64]CastlingRights) {
	t[E1] = WhiteKingSide | WhiteQueenSide
	t[H1] = WhiteKingSide
	t[A1] = WhiteQueenSide
	t[E8] = BlackKingSide | BlackQueenSide
	t[H8] = BlackKingSide
	t[A8] = BlackQueenSide
	return t
}()

// StateWord packs the parts of a position that a move destroys:
// bits 0-3:  castling rights
// bits 4-7:  en-passant file + 1 (0 = none)
// bits 8-10: piece type captured by the last move
// bits 11+:  halfmove clock
type StateWord uint32

const (
	stateEPShift       = 4
	stateCaptureShift  = 8
	stateHalfmoveShift = 11
)

func newStateWord(cr CastlingRights, epFile int, captured PieceType, halfmove int) StateWord {
	return StateWord(cr) |
		StateWord(epFile+1)<<stateEPShift |
		StateWord(captured)<<stateCaptureShift |
		StateWord(halfmove)<<stateHalfmoveShift
}

// CastlingRights returns the castling field.
func (s StateWord) CastlingRights() CastlingRights {
	return CastlingRights(s & 0xF)
}

// EnPassantFile returns the file of a pawn that just advanced two squares, or -1.
func (s StateWord) EnPassantFile() int {
	return int(s.epField()) - 1
}

func (s StateWord) epField() StateWord {
	return (s >> stateEPShift) & 0xF
}

// CapturedType returns the type of the piece the last move captured.
func (s StateWord) CapturedType() PieceType {
	return PieceType((s >> stateCaptureShift) & typeMask)
}

// HalfmoveClock returns the number of plies since the last capture or pawn move.
func (s StateWord) HalfmoveClock() int {
	return int(s >> stateHalfmoveShift)
}

// Position is a mutable chess position. The square array and the per-piece
// bitboards are two views of the same placement and change together.
type Position struct {
	squares  [64]Piece
	pieces   [2][7]Bitboard // [color index][piece type]
	occupied [2]Bitboard
	all      Bitboard
	kings    [2]Square

	sideToMove Color
	state      StateWord
	hash       uint64
	fullmove   int

	// captures[c][pt] counts pieces of type pt taken by side c.
	captures [2][7]int

	stateHistory []StateWord
	hashHistory  []uint64
	moveHistory  []Move
}

const historyCapacity = 128

func newEmptyPosition() *Position {
	return &Position{
		kings:        [2]Square{NoSquare, NoSquare},
		sideToMove:   White,
		fullmove:     1,
		stateHistory: make([]StateWord, 0, historyCapacity),
		hashHistory:  make([]uint64, 0, historyCapacity),
		moveHistory:  make([]Move, 0, historyCapacity),
	}
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy returns an independent deep copy, histories included.
func (p *Position) Copy() *Position {
	c := *p
	c.stateHistory = append(make([]StateWord, 0, cap(p.stateHistory)), p.stateHistory...)
	c.hashHistory = append(make([]uint64, 0, cap(p.hashHistory)), p.hashHistory...)
	c.moveHistory = append(make([]Move, 0, cap(p.moveHistory)), p.moveHistory...)
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.squares[sq]
}

// Squares returns a snapshot of the board contents indexed by square.
func (p *Position) Squares() [64]Piece {
	return p.squares
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// Opponent returns the color not to move.
func (p *Position) Opponent() Color {
	return p.sideToMove.Other()
}

// State returns the current state word.
func (p *Position) State() StateWord {
	return p.state
}

// Hash returns the Zobrist hash of placement, side to move, castling rights
// and en-passant file.
func (p *Position) Hash() uint64 {
	return p.hash
}

// CastlingRights returns the current castling rights.
func (p *Position) CastlingRights() CastlingRights {
	return p.state.CastlingRights()
}

// EnPassantSquare returns the square a pawn may capture onto en passant,
// or NoSquare.
func (p *Position) EnPassantSquare() Square {
	file := p.state.EnPassantFile()
	if file < 0 {
		return NoSquare
	}
	if p.sideToMove == White {
		return NewSquare(file, 5)
	}
	return NewSquare(file, 2)
}

// HalfmoveClock returns the fifty-move-rule counter.
func (p *Position) HalfmoveClock() int {
	return p.state.HalfmoveClock()
}

// FullmoveNumber returns the FEN fullmove counter.
func (p *Position) FullmoveNumber() int {
	return p.fullmove
}

// Pieces returns the squares holding pieces of type pt and color c.
func (p *Position) Pieces(pt PieceType, c Color) Bitboard {
	return p.pieces[c.Index()][pt]
}

// Occupied returns the squares holding pieces of color c.
func (p *Position) Occupied(c Color) Bitboard {
	return p.occupied[c.Index()]
}

// AllOccupied returns every occupied square.
func (p *Position) AllOccupied() Bitboard {
	return p.all
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kings[c.Index()]
}

// Captures returns how many pieces of type pt side c has captured.
func (p *Position) Captures(c Color, pt PieceType) int {
	return p.captures[c.Index()][pt]
}

// LastMove returns the most recent move made, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.moveHistory) == 0 {
		return NoMove
	}
	return p.moveHistory[len(p.moveHistory)-1]
}

// Ply returns the number of moves made since the position was loaded.
func (p *Position) Ply() int {
	return len(p.moveHistory)
}

// addPiece puts pc on an empty square.
func (p *Position) addPiece(pc Piece, sq Square) {
	ci := pc.Color().Index()
	bb := SquareBB(sq)

	p.squares[sq] = pc
	p.pieces[ci][pc.Type()] |= bb
	p.occupied[ci] |= bb
	p.all |= bb
	p.hash ^= pieceKey(pc, sq)

	if pc.Type() == King {
		p.kings[ci] = sq
	}
}

// removePiece clears sq and returns what stood there.
func (p *Position) removePiece(sq Square) Piece {
	pc := p.squares[sq]
	if pc == NoPiece {
		return NoPiece
	}

	ci := pc.Color().Index()
	bb := SquareBB(sq)

	p.squares[sq] = NoPiece
	p.pieces[ci][pc.Type()] &^= bb
	p.occupied[ci] &^= bb
	p.all &^= bb
	p.hash ^= pieceKey(pc, sq)

	return pc
}

// relocatePiece moves the piece on from to the empty square to.
func (p *Position) relocatePiece(from, to Square) {
	pc := p.squares[from]
	ci := pc.Color().Index()
	moveBB := SquareBB(from) | SquareBB(to)

	p.squares[from] = NoPiece
	p.squares[to] = pc
	p.pieces[ci][pc.Type()] ^= moveBB
	p.occupied[ci] ^= moveBB
	p.all ^= moveBB
	p.hash ^= pieceKey(pc, from) ^ pieceKey(pc, to)

	if pc.Type() == King {
		p.kings[ci] = to
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(pc.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights())
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassantSquare())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.hash)
	return sb.String()
}
