package engine

import (
	"context"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64
)

// nodeCheckMask sets how often the search polls its context.
const nodeCheckMask = 1023

// Searcher performs fixed-depth negamax search with alpha-beta pruning.
// A Searcher is not safe for concurrent use; it keeps one move list and
// score buffer per ply and mutates the position it is given, restoring it
// before returning.
type Searcher struct {
	gen     *board.MoveGenerator
	orderer *MoveOrderer

	lists  [MaxPly + 1]board.MoveList
	scores [MaxPly + 1][board.MaxMoves]int

	nodes   uint64
	cutoffs uint64

	ctx     context.Context
	stopped bool
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{
		gen:     board.NewMoveGenerator(),
		orderer: NewMoveOrderer(),
		ctx:     context.Background(),
	}
}

// Reset clears counters and killer moves.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.cutoffs = 0
	s.stopped = false
	s.orderer.Clear()
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Cutoffs returns the number of beta cutoffs since the last Reset.
func (s *Searcher) Cutoffs() uint64 {
	return s.cutoffs
}

// terminalScore scores a node without legal moves. Being mated with more
// depth left means the mate came sooner, so it scores lower.
func terminalScore(inCheck bool, depth int) int {
	if inCheck {
		return -(MateScore + depth)
	}
	return 0
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

// AlphaBeta returns the negamax value of pos searched to depth within the
// window (alpha, beta). Scores are relative to the side to move.
func (s *Searcher) AlphaBeta(pos *board.Position, depth, alpha, beta int) int {
	return s.alphaBeta(pos, clampDepth(depth), 0, alpha, beta)
}

func (s *Searcher) alphaBeta(pos *board.Position, depth, ply, alpha, beta int) int {
	s.nodes++
	if s.nodes&nodeCheckMask == 0 && s.ctx.Err() != nil {
		s.stopped = true
	}
	if s.stopped {
		return 0
	}

	if depth == 0 {
		return Evaluate(pos)
	}

	ml := &s.lists[ply]
	s.gen.Generate(pos, ml)
	if ml.Len() == 0 {
		return terminalScore(s.gen.InCheck(), depth)
	}

	scores := s.scores[ply][:ml.Len()]
	s.orderer.ScoreMoves(pos, ml, ply, scores)

	best := -Infinity
	for i := 0; i < ml.Len(); i++ {
		PickAndSwap(ml, scores, i)
		m := ml.Get(i)

		pos.MakeMove(m)
		score := -s.alphaBeta(pos, depth-1, ply+1, -beta, -alpha)
		pos.UnmakeMove(m)

		if s.stopped {
			return 0
		}

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			s.cutoffs++
			s.orderer.StoreKiller(ply, m)
			break
		}
	}

	return best
}

// NegaMax returns the unpruned minimax value of pos to depth. It visits
// every node and serves as the reference for AlphaBeta.
func (s *Searcher) NegaMax(pos *board.Position, depth int) int {
	return s.negaMax(pos, clampDepth(depth), 0)
}

func (s *Searcher) negaMax(pos *board.Position, depth, ply int) int {
	s.nodes++
	if depth == 0 {
		return Evaluate(pos)
	}

	ml := &s.lists[ply]
	s.gen.Generate(pos, ml)
	if ml.Len() == 0 {
		return terminalScore(s.gen.InCheck(), depth)
	}

	best := -Infinity
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		pos.MakeMove(m)
		if score := -s.negaMax(pos, depth-1, ply+1); score > best {
			best = score
		}
		pos.UnmakeMove(m)
	}
	return best
}

// Result is the outcome of a root search.
type Result struct {
	Move    board.Move
	Score   int
	Depth   int
	Nodes   uint64
	Cutoffs uint64
}

// MateIn returns the number of moves to a forced mate in r, positive when
// the side to move mates and negative when it gets mated. It returns 0 for
// ordinary scores.
func (r Result) MateIn() int {
	if !IsMateScore(r.Score) {
		return 0
	}
	remaining := r.Score - MateScore
	if r.Score < 0 {
		remaining = -r.Score - MateScore
	}
	plies := r.Depth - remaining
	if r.Score > 0 {
		return (plies + 1) / 2
	}
	return -plies / 2
}

// FindMove searches every root move to depth plies and returns the best
// one. Ties keep the first move found. It returns board.NoMove when the
// side to move has no legal moves.
func (s *Searcher) FindMove(pos *board.Position, depth int) board.Move {
	r, _ := s.FindMoveContext(context.Background(), pos, depth)
	return r.Move
}

// FindMoveContext is FindMove with cancellation. The context is polled
// every few thousand nodes; on cancellation the search unwinds, pos is left
// as it was, and the best move from the fully searched root moves is
// returned with the context's error.
func (s *Searcher) FindMoveContext(ctx context.Context, pos *board.Position, depth int) (Result, error) {
	s.Reset()
	s.ctx = ctx
	defer func() {
		s.ctx = context.Background()
		s.stopped = false
	}()

	depth = clampDepth(depth)
	if depth == 0 {
		depth = 1
	}
	result := Result{Move: board.NoMove, Score: -Infinity, Depth: depth}

	root := &s.lists[0]
	s.gen.Generate(pos, root)
	if root.Len() == 0 {
		result.Score = terminalScore(s.gen.InCheck(), depth)
		return result, nil
	}

	for i := 0; i < root.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return s.finish(result), err
		}

		m := root.Get(i)
		pos.MakeMove(m)
		score := -s.alphaBeta(pos, depth-1, 1, -Infinity, -result.Score)
		pos.UnmakeMove(m)

		if s.stopped {
			return s.finish(result), ctx.Err()
		}
		if score > result.Score {
			result.Move = m
			result.Score = score
		}
	}

	return s.finish(result), nil
}

func (s *Searcher) finish(r Result) Result {
	r.Nodes = s.nodes
	r.Cutoffs = s.cutoffs
	return r
}

// clampDepth bounds depth to the per-ply buffers.
func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > MaxPly {
		return MaxPly
	}
	return depth
}
