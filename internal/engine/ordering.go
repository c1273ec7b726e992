package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	CaptureBase = 1000000 // Every capture scores above this
	KillerScore = 1000    // First killer; the second scores KillerStep less
	KillerStep  = 10
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [7][7]int{
	//       -  P   N   B   R   Q   K  (attacker)
	/* - */ {0, 0, 0, 0, 0, 0, 0},
	/* P */ {0, 15, 14, 13, 12, 11, 10}, // Pawn victim
	/* N */ {0, 25, 24, 23, 22, 21, 20}, // Knight victim
	/* B */ {0, 35, 34, 33, 32, 31, 30}, // Bishop victim
	/* R */ {0, 45, 44, 43, 42, 41, 40}, // Rook victim
	/* Q */ {0, 55, 54, 53, 52, 51, 50}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0, 0}, // King can't be captured
}

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs), two per ply
	killers [MaxPly][2]board.Move
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear forgets all killer moves.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
}

// ScoreMoves writes an ordering score for every move of ml into scores,
// which must hold at least ml.Len() entries.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, ml *board.MoveList, ply int, scores []int) {
	for i := 0; i < ml.Len(); i++ {
		scores[i] = mo.scoreMove(pos, ml.Get(i), ply)
	}
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int) int {
	if m.IsCapture() {
		attacker := pos.PieceAt(m.From()).Type()
		victim := board.Pawn
		if !m.IsEnPassant() {
			victim = pos.PieceAt(m.To()).Type()
		}
		return CaptureBase + mvvLva[victim][attacker]
	}

	if ply < MaxPly {
		for i, k := range mo.killers[ply] {
			if k != board.NoMove && m.SameAction(k) {
				return KillerScore - i*KillerStep
			}
		}
	}
	return 0
}

// PickAndSwap moves the highest scoring move at or after index into index,
// keeping scores aligned. Only the prefix the search actually visits gets
// sorted.
func PickAndSwap(ml *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// StoreKiller records a quiet move that caused a beta cutoff at ply. The
// newest killer goes first and the older one is dropped.
func (mo *MoveOrderer) StoreKiller(ply int, m board.Move) {
	if ply >= MaxPly || m.IsCapture() {
		return
	}
	if mo.killers[ply][0].SameAction(m) {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// Killers returns the killer moves stored for ply.
func (mo *MoveOrderer) Killers(ply int) [2]board.Move {
	if ply >= MaxPly {
		return [2]board.Move{}
	}
	return mo.killers[ply]
}
