package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard move generation correctness check.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	lists := make([]MoveList, depth)
	return perft(p, depth, NewMoveGenerator(), lists)
}

func perft(p *Position, depth int, g *MoveGenerator, lists []MoveList) uint64 {
	ml := &lists[0]
	g.Generate(p, ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		p.MakeMove(m)
		nodes += perft(p, depth-1, g, lists[1:])
		p.UnmakeMove(m)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by the
// move's UCI text.
func PerftDivide(p *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}

	for _, m := range GenerateMoves(p) {
		p.MakeMove(m)
		result[m.String()] = Perft(p, depth-1)
		p.UnmakeMove(m)
	}
	return result
}
