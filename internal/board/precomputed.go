package board

// Direction indices into DirectionOffsets. Orthogonal directions come first,
// and each direction sits next to its opposite, so dir^1 reverses it.
const (
	North = iota
	South
	East
	West
	NorthWest
	SouthEast
	NorthEast
	SouthWest
)

// DirectionOffsets is the square-index delta of one step in each direction.
var DirectionOffsets = [8]int{8, -8, 1, -1, 7, -7, 9, -9}

// PawnAttackDirections lists the two capture directions per color index.
var PawnAttackDirections = [2][2]int{
	{NorthWest, NorthEast},
	{SouthEast, SouthWest},
}

var knightOffsets = [8]int{15, 17, -17, -15, 10, -6, 6, -10}

// Lookup tables built once at init and read-only afterwards.
var (
	// NumSquaresToEdge[sq][dir] is how many steps fit before leaving the board.
	NumSquaresToEdge [64][8]int

	// KnightJumps and KingMoves list the target squares per origin.
	KnightJumps [64][]Square
	KingMoves   [64][]Square

	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [color index][square]

	rays      [8][64]Bitboard  // squares stepped over from sq in dir, sq excluded
	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // full board line through two aligned squares
)

func init() {
	initEdgeDistances()
	initJumps()
	initPawnAttacks()
	initRays()
}

func initEdgeDistances() {
	for sq := A1; sq <= H8; sq++ {
		north := 7 - sq.Rank()
		south := sq.Rank()
		west := sq.File()
		east := 7 - sq.File()

		NumSquaresToEdge[sq] = [8]int{
			north,
			south,
			east,
			west,
			min(north, west),
			min(south, east),
			min(north, east),
			min(south, west),
		}
	}
}

func initJumps() {
	for sq := A1; sq <= H8; sq++ {
		for _, offset := range knightOffsets {
			target := int(sq) + offset
			if target < 0 || target > 63 {
				continue
			}
			// Reject jumps that wrapped around the board edge.
			if abs(Square(target).File()-sq.File()) > 2 {
				continue
			}
			KnightJumps[sq] = append(KnightJumps[sq], Square(target))
			knightAttacks[sq] |= SquareBB(Square(target))
		}

		for dir, offset := range DirectionOffsets {
			if NumSquaresToEdge[sq][dir] == 0 {
				continue
			}
			target := Square(int(sq) + offset)
			KingMoves[sq] = append(KingMoves[sq], target)
			kingAttacks[sq] |= SquareBB(target)
		}
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		for ci, dirs := range PawnAttackDirections {
			for _, dir := range dirs {
				if NumSquaresToEdge[sq][dir] > 0 {
					pawnAttacks[ci][sq] |= SquareBB(Square(int(sq) + DirectionOffsets[dir]))
				}
			}
		}
	}
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for dir := North; dir <= SouthWest; dir++ {
			for n := 1; n <= NumSquaresToEdge[sq][dir]; n++ {
				rays[dir][sq] |= SquareBB(Square(int(sq) + DirectionOffsets[dir]*n))
			}
		}
	}

	for sq := A1; sq <= H8; sq++ {
		for dir := North; dir <= SouthWest; dir++ {
			line := rays[dir][sq] | rays[dir^1][sq] | SquareBB(sq)
			ray := rays[dir][sq]
			for ray != 0 {
				target := ray.PopLSB()
				betweenBB[sq][target] = rays[dir][sq] &^ rays[dir][target] &^ SquareBB(target)
				lineBB[sq][target] = line
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// nearest returns the blocker closest to the ray origin for direction dir.
func nearest(dir int, blockers Bitboard) Square {
	if DirectionOffsets[dir] > 0 {
		return blockers.LSB()
	}
	return blockers.MSB()
}

// rayAttacks returns the squares a slider on sq reaches in dir, up to and
// including the first occupied square.
func rayAttacks(sq Square, dir int, occupied Bitboard) Bitboard {
	attacks := rays[dir][sq]
	if blockers := attacks & occupied; blockers != 0 {
		attacks &^= rays[dir][nearest(dir, blockers)]
	}
	return attacks
}

// RookAttacks returns the orthogonal reach of a slider on sq.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, North, occupied) | rayAttacks(sq, South, occupied) |
		rayAttacks(sq, East, occupied) | rayAttacks(sq, West, occupied)
}

// BishopAttacks returns the diagonal reach of a slider on sq.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, NorthWest, occupied) | rayAttacks(sq, SouthEast, occupied) |
		rayAttacks(sq, NorthEast, occupied) | rayAttacks(sq, SouthWest, occupied)
}

// QueenAttacks returns the combined reach of a queen on sq.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c.Index()][sq]
}

// Between returns the squares strictly between two aligned squares.
// Returns empty if squares are not aligned.
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the full line through two aligned squares.
// Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}
