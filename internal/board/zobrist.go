package board

// Zobrist keys for incremental position hashing, generated from a fixed seed
// so hashes are stable across runs.
var (
	zobristPiece      [2][7][64]uint64 // [color index][piece type][square]
	zobristCastling   [16]uint64       // one per castling-rights combination
	zobristEnPassant  [9]uint64        // indexed by the state word's file+1 field; 0 (none) stays zero
	zobristSideToMove uint64           // XOR'ed in when Black is to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(7997)

	for ci := 0; ci < 2; ci++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[ci][pt][sq] = rng.next()
			}
		}
	}

	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}

	for file := 1; file < len(zobristEnPassant); file++ {
		zobristEnPassant[file] = rng.next()
	}

	zobristSideToMove = rng.next()
}

func pieceKey(p Piece, sq Square) uint64 {
	return zobristPiece[p.Color().Index()][p.Type()][sq]
}

// ComputeHash recomputes the position hash from scratch. MakeMove and
// UnmakeMove maintain the same value incrementally.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			hash ^= pieceKey(pc, sq)
		}
	}

	if p.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.state.CastlingRights()]
	hash ^= zobristEnPassant[p.state.epField()]

	return hash
}
