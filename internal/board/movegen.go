package board

// MoveGenerator produces fully legal moves. A generator can be reused across
// positions; each call recomputes its threats and pins from scratch.
type MoveGenerator struct {
	pos     *Position
	moves   *MoveList
	threats Threats
	origins Bitboard

	us, them        Color
	king, enemyKing Square
	friendly        Bitboard
	enemy           Bitboard // capturable enemy pieces, king excluded
	occupied        Bitboard

	// moveMask is Universe, or the squares that resolve a single check.
	moveMask Bitboard

	// pinned pieces may only move within pinRays[sq], the line from the
	// king up to and including the pinning slider.
	pinned  Bitboard
	pinRays [64]Bitboard

	// discoverers are friendly pieces shielding the enemy king from a
	// friendly slider; moving one off that line gives check.
	discoverers Bitboard
}

// NewMoveGenerator returns a reusable generator.
func NewMoveGenerator() *MoveGenerator {
	return &MoveGenerator{}
}

// GenerateMoves returns the legal moves of the side to move. An empty result
// means checkmate or stalemate; use InCheck to tell them apart.
func GenerateMoves(p *Position) []Move {
	ml := NewMoveList()
	NewMoveGenerator().Generate(p, ml)
	return ml.Slice()
}

// GenerateMovesFrom returns the legal moves of the piece on from.
func GenerateMovesFrom(p *Position, from Square) []Move {
	ml := NewMoveList()
	NewMoveGenerator().GenerateFrom(p, from, ml)
	return ml.Slice()
}

// Generate replaces the contents of ml with the legal moves of p.
func (g *MoveGenerator) Generate(p *Position, ml *MoveList) {
	g.generate(p, ml, Universe)
}

// GenerateFrom replaces the contents of ml with the legal moves of the
// piece on from.
func (g *MoveGenerator) GenerateFrom(p *Position, from Square, ml *MoveList) {
	if !from.IsValid() {
		ml.Clear()
		return
	}
	g.generate(p, ml, SquareBB(from))
}

// Threats returns the analysis computed by the last Generate call.
func (g *MoveGenerator) Threats() Threats {
	return g.threats
}

// InCheck reports whether the side to move was in check at the last
// Generate call.
func (g *MoveGenerator) InCheck() bool {
	return g.threats.InCheck
}

func (g *MoveGenerator) generate(p *Position, ml *MoveList, origins Bitboard) {
	ml.Clear()
	g.init(p, ml, origins)

	g.generateKingMoves()
	if g.threats.DoubleCheck {
		return
	}
	g.generateSlidingMoves()
	g.generateKnightMoves()
	g.generatePawnMoves()
}

func (g *MoveGenerator) init(p *Position, ml *MoveList, origins Bitboard) {
	g.pos = p
	g.moves = ml
	g.origins = origins

	g.us = p.sideToMove
	g.them = g.us.Other()
	g.king = p.KingSquare(g.us)
	g.enemyKing = p.KingSquare(g.them)
	g.friendly = p.Occupied(g.us)
	g.enemy = p.Occupied(g.them) &^ SquareBB(g.enemyKing)
	g.occupied = p.all

	g.threats = AnalyzeThreats(p)
	g.moveMask = Universe
	if g.threats.InCheck {
		g.moveMask = g.threats.SquaresInCheckRayMap
	}

	g.pinned = g.xrayBlockers(g.king, g.them, true)
	g.discoverers = g.xrayBlockers(g.enemyKing, g.us, false)
}

// xrayBlockers finds friendly pieces that are the only piece between king
// and a slider of color sliders moving along that line. With recordPins the
// allowed line for each blocker is stored in pinRays.
func (g *MoveGenerator) xrayBlockers(king Square, sliders Color, recordPins bool) Bitboard {
	p := g.pos
	queens := p.Pieces(Queen, sliders)
	orthogonal := p.Pieces(Rook, sliders) | queens
	diagonal := p.Pieces(Bishop, sliders) | queens

	var blockers Bitboard
	for dir := North; dir <= SouthWest; dir++ {
		ray := rays[dir][king]
		hits := ray & g.occupied
		if hits == 0 {
			continue
		}

		first := nearest(dir, hits)
		if !p.squares[first].IsColor(g.us) {
			continue
		}
		hits &^= SquareBB(first)
		if hits == 0 {
			continue
		}

		second := nearest(dir, hits)
		candidates := diagonal
		if dir < NorthWest {
			candidates = orthogonal
		}
		if !candidates.IsSet(second) {
			continue
		}

		blockers |= SquareBB(first)
		if recordPins {
			g.pinRays[first] = ray &^ rays[dir][second]
		}
	}
	return blockers
}

// add appends a move, tagging it when it gives check. pt is the type of the
// piece standing on to after the move.
func (g *MoveGenerator) add(pt PieceType, from, to Square, flags MoveFlag) {
	if g.givesCheck(pt, from, to, flags) {
		flags |= FlagCheck
	}
	g.moves.Add(NewMove(from, to, flags))
}

func (g *MoveGenerator) givesCheck(pt PieceType, from, to Square, flags MoveFlag) bool {
	if flags&(FlagCastle|FlagEnPassant) != 0 {
		return g.specialGivesCheck(from, to, flags)
	}
	if g.directCheck(pt, from, to) {
		return true
	}
	return g.discoverers.IsSet(from) && !Line(g.enemyKing, from).IsSet(to)
}

// directCheck reports whether a piece of type pt arriving on to attacks the
// enemy king itself.
func (g *MoveGenerator) directCheck(pt PieceType, from, to Square) bool {
	t := &g.threats
	switch pt {
	case Pawn:
		return t.PawnCheckMap.IsSet(to)
	case Knight:
		return t.KnightCheckMap.IsSet(to)
	case King:
		return false
	}

	orthogonal := pt == Rook || pt == Queen
	diagonal := pt == Bishop || pt == Queen
	if (orthogonal && t.OrthogonalCheckMap.IsSet(to)) || (diagonal && t.DiagonalCheckMap.IsSet(to)) {
		return true
	}

	// The check maps stop at the first blocker. When the mover itself was
	// that blocker, recompute the line with it lifted.
	if (orthogonal && t.OrthogonalCheckMap.IsSet(from)) || (diagonal && t.DiagonalCheckMap.IsSet(from)) {
		occ := g.occupied&^SquareBB(from) | SquareBB(to)
		if orthogonal && RookAttacks(g.enemyKing, occ).IsSet(to) {
			return true
		}
		if diagonal && BishopAttacks(g.enemyKing, occ).IsSet(to) {
			return true
		}
	}
	return false
}

// specialGivesCheck handles castling and en passant, which move or remove a
// second piece, by testing the enemy king against the final occupancy.
func (g *MoveGenerator) specialGivesCheck(from, to Square, flags MoveFlag) bool {
	p := g.pos
	occ := g.occupied&^SquareBB(from) | SquareBB(to)
	queens := p.Pieces(Queen, g.us)
	orthogonal := p.Pieces(Rook, g.us) | queens
	diagonal := p.Pieces(Bishop, g.us) | queens

	if flags&FlagEnPassant != 0 {
		if g.threats.PawnCheckMap.IsSet(to) {
			return true
		}
		occ &^= SquareBB(enPassantVictim(to, g.us))
	} else {
		rookFrom, rookTo := castleRookSquares(to)
		occ = occ&^SquareBB(rookFrom) | SquareBB(rookTo)
		orthogonal = orthogonal&^SquareBB(rookFrom) | SquareBB(rookTo)
	}

	return RookAttacks(g.enemyKing, occ)&orthogonal != 0 ||
		BishopAttacks(g.enemyKing, occ)&diagonal != 0
}

func (g *MoveGenerator) generateKingMoves() {
	from := g.king
	if !g.origins.IsSet(from) {
		return
	}

	targets := kingAttacks[from] &^ g.friendly &^ g.threats.OpponentThreatMap &^ SquareBB(g.enemyKing)
	for targets != 0 {
		to := targets.PopLSB()
		flags := FlagNone
		if g.enemy.IsSet(to) {
			flags = FlagCapture
		}
		g.add(King, from, to, flags)
	}

	if !g.threats.InCheck {
		g.generateCastles()
	}
}

func (g *MoveGenerator) generateCastles() {
	rights := g.pos.CastlingRights()
	home := E1
	if g.us == Black {
		home = E8
	}
	if g.king != home {
		return
	}

	attacked := g.threats.OpponentThreatMap
	if rights.CanCastle(g.us, true) {
		path := SquareBB(home+1) | SquareBB(home+2)
		if g.occupied&path == 0 && attacked&path == 0 {
			g.add(King, home, home+2, FlagCastle)
		}
	}
	if rights.CanCastle(g.us, false) {
		path := SquareBB(home-1) | SquareBB(home-2)
		empty := path | SquareBB(home-3)
		if g.occupied&empty == 0 && attacked&path == 0 {
			g.add(King, home, home-2, FlagCastle)
		}
	}
}

// addTargets emits moves from from to each legal square in targets.
func (g *MoveGenerator) addTargets(pt PieceType, from Square, targets Bitboard) {
	targets &= g.moveMask &^ g.friendly &^ SquareBB(g.enemyKing)
	if g.pinned.IsSet(from) {
		targets &= g.pinRays[from]
	}

	for targets != 0 {
		to := targets.PopLSB()
		flags := FlagNone
		if g.enemy.IsSet(to) {
			flags = FlagCapture
		}
		g.add(pt, from, to, flags)
	}
}

func (g *MoveGenerator) generateSlidingMoves() {
	p := g.pos
	for bishops := p.Pieces(Bishop, g.us) & g.origins; bishops != 0; {
		from := bishops.PopLSB()
		g.addTargets(Bishop, from, BishopAttacks(from, g.occupied))
	}
	for rooks := p.Pieces(Rook, g.us) & g.origins; rooks != 0; {
		from := rooks.PopLSB()
		g.addTargets(Rook, from, RookAttacks(from, g.occupied))
	}
	for queens := p.Pieces(Queen, g.us) & g.origins; queens != 0; {
		from := queens.PopLSB()
		g.addTargets(Queen, from, QueenAttacks(from, g.occupied))
	}
}

func (g *MoveGenerator) generateKnightMoves() {
	// A pinned knight can never stay on its pin line.
	knights := g.pos.Pieces(Knight, g.us) & g.origins &^ g.pinned
	for knights != 0 {
		from := knights.PopLSB()
		g.addTargets(Knight, from, knightAttacks[from])
	}
}

func (g *MoveGenerator) generatePawnMoves() {
	push := DirectionOffsets[North]
	if g.us == Black {
		push = DirectionOffsets[South]
	}

	for pawns := g.pos.Pieces(Pawn, g.us) & g.origins; pawns != 0; {
		from := pawns.PopLSB()
		allowed := g.moveMask
		if g.pinned.IsSet(from) {
			allowed &= g.pinRays[from]
		}

		one := Square(int(from) + push)
		if !g.occupied.IsSet(one) {
			if allowed.IsSet(one) {
				g.addPawnMove(from, one, FlagNone)
			}
			if from.RelativeRank(g.us) == 1 {
				two := Square(int(one) + push)
				if !g.occupied.IsSet(two) && allowed.IsSet(two) {
					g.add(Pawn, from, two, FlagPawnTwoForward)
				}
			}
		}

		captures := pawnAttacks[g.us.Index()][from] & g.enemy & allowed
		for captures != 0 {
			g.addPawnMove(from, captures.PopLSB(), FlagCapture)
		}

		g.generateEnPassant(from)
	}
}

// addPawnMove emits a pawn move, expanding it into the four promotions on
// the last rank.
func (g *MoveGenerator) addPawnMove(from, to Square, flags MoveFlag) {
	if to.RelativeRank(g.us) == 7 {
		for _, pt := range [...]PieceType{Queen, Rook, Bishop, Knight} {
			g.add(pt, from, to, flags|promotionFlag(pt))
		}
		return
	}
	g.add(Pawn, from, to, flags)
}

func (g *MoveGenerator) generateEnPassant(from Square) {
	target := g.pos.EnPassantSquare()
	if target == NoSquare || !pawnAttacks[g.us.Index()][from].IsSet(target) {
		return
	}
	victim := enPassantVictim(target, g.us)
	if g.pos.squares[victim] != NewPiece(Pawn, g.them) {
		return
	}

	// Two pawns leave their squares at once, which can open a line onto the
	// king that no pin or check ray describes. Test the final occupancy.
	occ := g.occupied&^(SquareBB(from)|SquareBB(victim)) | SquareBB(target)
	if g.kingAttackedAfterEnPassant(occ, victim) {
		return
	}
	g.add(Pawn, from, target, FlagEnPassant)
}

func (g *MoveGenerator) kingAttackedAfterEnPassant(occ Bitboard, victim Square) bool {
	p := g.pos
	queens := p.Pieces(Queen, g.them)
	attackers := RookAttacks(g.king, occ)&(p.Pieces(Rook, g.them)|queens) |
		BishopAttacks(g.king, occ)&(p.Pieces(Bishop, g.them)|queens) |
		knightAttacks[g.king]&p.Pieces(Knight, g.them) |
		pawnAttacks[g.us.Index()][g.king]&p.Pieces(Pawn, g.them)&^SquareBB(victim)
	return attackers != 0
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.attackersOf(p.KingSquare(p.sideToMove), p.Opponent(), p.all) != 0
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return len(GenerateMoves(p)) > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
