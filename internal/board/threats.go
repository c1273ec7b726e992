package board

// Threats is the attack picture of a position from the side to move's point
// of view. It is recomputed for every generator call and never cached
// across moves.
type Threats struct {
	// OpponentThreatMap holds every square the opponent attacks. Sliders see
	// through the friendly king, so the square behind it along a checking
	// ray counts as attacked.
	OpponentThreatMap Bitboard

	// Squares from which a friendly piece of each movement class would
	// attack the opponent king under the current occupancy.
	OrthogonalCheckMap Bitboard
	DiagonalCheckMap   Bitboard
	KnightCheckMap     Bitboard
	PawnCheckMap       Bitboard

	// InCheck is set when the friendly king is attacked. With a single
	// checker SquaresInCheckRayMap holds the checker plus the squares
	// between it and the king; in double check it is empty.
	InCheck              bool
	DoubleCheck          bool
	SquaresInCheckRayMap Bitboard
}

// AnalyzeThreats computes the Threats of p for the side to move. It does not
// modify p.
func AnalyzeThreats(p *Position) Threats {
	var t Threats

	us := p.sideToMove
	them := us.Other()
	king := p.KingSquare(us)
	enemyKing := p.KingSquare(them)

	t.OrthogonalCheckMap = RookAttacks(enemyKing, p.all)
	t.DiagonalCheckMap = BishopAttacks(enemyKing, p.all)
	t.KnightCheckMap = knightAttacks[enemyKing]
	t.PawnCheckMap = pawnAttacks[them.Index()][enemyKing]

	queens := p.Pieces(Queen, them)
	for rooks := p.Pieces(Rook, them) | queens; rooks != 0; {
		t.castRays(p, rooks.PopLSB(), North, West, king)
	}
	for bishops := p.Pieces(Bishop, them) | queens; bishops != 0; {
		t.castRays(p, bishops.PopLSB(), NorthWest, SouthWest, king)
	}

	for knights := p.Pieces(Knight, them); knights != 0; {
		sq := knights.PopLSB()
		t.OpponentThreatMap |= knightAttacks[sq]
		if knightAttacks[sq].IsSet(king) {
			t.addChecker(SquareBB(sq))
		}
	}

	for pawns := p.Pieces(Pawn, them); pawns != 0; {
		sq := pawns.PopLSB()
		attacks := pawnAttacks[them.Index()][sq]
		t.OpponentThreatMap |= attacks
		if attacks.IsSet(king) {
			t.addChecker(SquareBB(sq))
		}
	}

	t.OpponentThreatMap |= kingAttacks[enemyKing]

	return t
}

// castRays walks a slider's rays for directions first..last inclusive,
// marking attacked squares and recording a check on the friendly king.
func (t *Threats) castRays(p *Position, from Square, first, last int, king Square) {
	for dir := first; dir <= last; dir++ {
		offset := DirectionOffsets[dir]
		ray := SquareBB(from)

		for n := 1; n <= NumSquaresToEdge[from][dir]; n++ {
			sq := Square(int(from) + offset*n)
			t.OpponentThreatMap |= SquareBB(sq)

			if sq == king {
				t.addChecker(ray)
				if n < NumSquaresToEdge[from][dir] {
					t.OpponentThreatMap |= SquareBB(Square(int(sq) + offset))
				}
				break
			}
			if p.squares[sq] != NoPiece {
				break
			}
			ray |= SquareBB(sq)
		}
	}
}

func (t *Threats) addChecker(ray Bitboard) {
	if t.InCheck {
		t.DoubleCheck = true
		t.SquaresInCheckRayMap = Empty
		return
	}
	t.InCheck = true
	t.SquaresInCheckRayMap = ray
}
