package board

import "fmt"

// castleRookSquares returns the rook's start and landing squares for a
// castling king landing on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default:
		return A8, D8
	}
}

// enPassantVictim returns the square of the pawn removed when a pawn of
// color us captures en passant onto target.
func enPassantVictim(target Square, us Color) Square {
	if us == White {
		return target - 8
	}
	return target + 8
}

// MakeMove applies m, which must come from the move generator for this
// position. Passing any other move is a programming error; the cheap
// invariants are asserted with a panic, full legality is not rechecked.
func (p *Position) MakeMove(m Move) {
	from, to := m.From(), m.To()
	us := p.sideToMove
	moving := p.squares[from]
	captured := p.squares[to]

	if !moving.IsColor(us) {
		panic(fmt.Sprintf("board: MakeMove %v: no %v piece on %v", m, us, from))
	}
	if captured.IsColor(us) || captured.Type() == King {
		panic(fmt.Sprintf("board: MakeMove %v: cannot capture %v", m, captured))
	}

	p.stateHistory = append(p.stateHistory, p.state)
	p.hashHistory = append(p.hashHistory, p.hash)
	p.moveHistory = append(p.moveHistory, m)

	prev := p.state
	movedType := moving.Type()
	capturedType := captured.Type()

	// The victim leaves the board before the mover lands.
	if m.IsEnPassant() {
		capturedType = Pawn
		p.removePiece(enPassantVictim(to, us))
	} else if captured != NoPiece {
		p.removePiece(to)
	}

	// Promotion swaps the pawn for the new piece on the start square, so
	// the relocation below carries the promoted type.
	if promo := m.Promotion(); promo != NoPieceType {
		p.removePiece(from)
		p.addPiece(NewPiece(promo, us), from)
	}
	p.relocatePiece(from, to)

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(to)
		p.relocatePiece(rookFrom, rookTo)
	}

	castling := prev.CastlingRights() &^ (castleRightsLost[from] | castleRightsLost[to])

	epFile := -1
	if m.Has(FlagPawnTwoForward) {
		epFile = from.File()
	}

	halfmove := prev.HalfmoveClock() + 1
	if movedType == Pawn || capturedType != NoPieceType {
		halfmove = 0
	}

	p.state = newStateWord(castling, epFile, capturedType, halfmove)
	p.hash ^= zobristCastling[prev.CastlingRights()] ^ zobristCastling[castling]
	p.hash ^= zobristEnPassant[prev.epField()] ^ zobristEnPassant[p.state.epField()]
	p.hash ^= zobristSideToMove

	if capturedType != NoPieceType {
		p.captures[us.Index()][capturedType]++
	}
	if us == Black {
		p.fullmove++
	}
	p.sideToMove = us.Other()
}

// UnmakeMove reverts m, which must be the last move made. Placement, state
// word, hash and capture tally return to their exact pre-move values.
func (p *Position) UnmakeMove(m Move) {
	n := len(p.stateHistory)
	if n == 0 {
		panic(fmt.Sprintf("board: UnmakeMove %v with empty history", m))
	}

	from, to := m.From(), m.To()
	us := p.sideToMove.Other()
	capturedType := p.state.CapturedType()

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(to)
		p.relocatePiece(rookTo, rookFrom)
	}

	p.relocatePiece(to, from)
	if m.IsPromotion() {
		p.removePiece(from)
		p.addPiece(NewPiece(Pawn, us), from)
	}

	if capturedType != NoPieceType {
		victim := to
		if m.IsEnPassant() {
			victim = enPassantVictim(to, us)
		}
		p.addPiece(NewPiece(capturedType, us.Other()), victim)
		p.captures[us.Index()][capturedType]--
	}

	if us == Black {
		p.fullmove--
	}
	p.sideToMove = us

	p.state = p.stateHistory[n-1]
	p.hash = p.hashHistory[n-1]
	p.stateHistory = p.stateHistory[:n-1]
	p.hashHistory = p.hashHistory[:n-1]
	p.moveHistory = p.moveHistory[:n-1]
}

// Apply validates m against the legal moves and makes the matching one.
// The check marker on m is ignored. Collaborators holding moves from
// outside the generator use this instead of MakeMove.
func (p *Position) Apply(m Move) error {
	for _, legal := range GenerateMovesFrom(p, m.From()) {
		if legal.SameAction(m) {
			p.MakeMove(legal)
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrIllegalMove, m)
}
