package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// difficultyDepths maps difficulty to a fixed search depth.
var difficultyDepths = [...]int{
	Easy:   2,
	Medium: 4,
	Hard:   6,
}

var difficultyNames = [...]string{
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
}

// Depth returns the search depth for the difficulty.
func (d Difficulty) Depth() int {
	if d < Easy || d > Hard {
		return difficultyDepths[Medium]
	}
	return difficultyDepths[d]
}

func (d Difficulty) String() string {
	if d < Easy || d > Hard {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty converts a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(d), nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Source tells where an analysis result came from.
type Source int

const (
	FromSearch Source = iota
	FromCache
	FromStore
)

func (s Source) String() string {
	switch s {
	case FromCache:
		return "cache"
	case FromStore:
		return "store"
	default:
		return "search"
	}
}

// Analysis is a search result together with its provenance.
type Analysis struct {
	Result
	Source  Source
	Elapsed time.Duration
}

// AnalysisStore persists finished searches across runs.
type AnalysisStore interface {
	LoadAnalysis(hash uint64, depth int) (storage.Analysis, bool, error)
	SaveAnalysis(a storage.Analysis) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithStore makes the engine read and write results through s.
func WithStore(s AnalysisStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithDifficulty sets the initial difficulty.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) { e.difficulty = d }
}

// Engine is the chess AI engine. It searches a private copy of every
// position it is given. An Engine runs one search at a time.
type Engine struct {
	searcher   *Searcher
	cache      *ResultCache
	store      AnalysisStore
	difficulty Difficulty
	log        logr.Logger
}

// NewEngine creates a new chess engine with a result cache of the given
// size in MB.
func NewEngine(cacheSizeMB int, opts ...Option) *Engine {
	e := &Engine{
		searcher:   NewSearcher(),
		cache:      NewResultCache(cacheSizeMB),
		difficulty: Medium,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Search finds the best move for pos at the current difficulty.
func (e *Engine) Search(ctx context.Context, pos *board.Position) (Analysis, error) {
	return e.Analyze(ctx, pos, e.difficulty.Depth())
}

// Analyze returns the best move for pos searched to depth. Results come
// from the in-memory cache, then the store, and only then from a fresh
// search, which is written back to both. pos is not modified.
func (e *Engine) Analyze(ctx context.Context, pos *board.Position, depth int) (Analysis, error) {
	depth = max(clampDepth(depth), 1)
	hash := pos.Hash()
	log := e.log.WithValues("fen", pos.FEN(), "depth", depth)

	if r, ok := e.cache.Probe(hash, depth); ok && e.stillLegal(pos, r.Move) {
		log.V(2).Info("cache hit", "move", r.Move.String())
		return Analysis{Result: r, Source: FromCache}, nil
	}

	if r, ok := e.loadStored(pos, depth, log); ok {
		e.cache.Store(hash, r)
		return Analysis{Result: r, Source: FromStore}, nil
	}

	start := time.Now()
	r, err := e.searcher.FindMoveContext(ctx, pos.Copy(), depth)
	elapsed := time.Since(start)
	if err != nil {
		log.V(1).Info("search interrupted", "reason", err.Error(), "nodes", r.Nodes, "elapsed", elapsed)
		return Analysis{Result: r, Source: FromSearch, Elapsed: elapsed}, err
	}

	log.V(1).Info("search complete",
		"move", r.Move.String(),
		"score", r.Score,
		"nodes", r.Nodes,
		"cutoffs", r.Cutoffs,
		"elapsed", elapsed)

	e.cache.Store(hash, r)
	e.saveStored(pos, r, log)

	return Analysis{Result: r, Source: FromSearch, Elapsed: elapsed}, nil
}

// stillLegal guards cached moves against hash collisions.
func (e *Engine) stillLegal(pos *board.Position, m board.Move) bool {
	if m == board.NoMove {
		return !pos.HasLegalMoves()
	}
	for _, legal := range board.GenerateMovesFrom(pos, m.From()) {
		if legal == m {
			return true
		}
	}
	return false
}

func (e *Engine) loadStored(pos *board.Position, depth int, log logr.Logger) (Result, bool) {
	if e.store == nil {
		return Result{}, false
	}

	a, found, err := e.store.LoadAnalysis(pos.Hash(), depth)
	if err != nil {
		log.Error(err, "load analysis")
		return Result{}, false
	}
	if !found {
		return Result{}, false
	}

	r := Result{Move: board.NoMove, Score: a.Score, Depth: a.Depth, Nodes: a.Nodes}
	if a.Move != "" {
		m, err := board.ParseMove(a.Move, pos)
		if err != nil {
			log.Error(err, "stored move no longer legal", "move", a.Move)
			return Result{}, false
		}
		r.Move = m
	} else if pos.HasLegalMoves() {
		return Result{}, false
	}

	log.V(2).Info("store hit", "move", a.Move)
	return r, true
}

func (e *Engine) saveStored(pos *board.Position, r Result, log logr.Logger) {
	if e.store == nil {
		return
	}

	a := storage.Analysis{
		Hash:  pos.Hash(),
		Depth: r.Depth,
		FEN:   pos.FEN(),
		Score: r.Score,
		Nodes: r.Nodes,
	}
	if r.Move != board.NoMove {
		a.Move = r.Move.String()
	}
	if err := e.store.SaveAnalysis(a); err != nil {
		log.Error(err, "save analysis")
	}
}

// Clear clears the result cache and killer moves.
func (e *Engine) Clear() {
	e.cache.Clear()
	e.searcher.orderer.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos.Copy(), depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score from a depth-ply search to a
// human-readable string.
func ScoreToString(score, depth int) string {
	if IsMateScore(score) {
		mateIn := Result{Score: score, Depth: depth}.MateIn()
		if score > 0 {
			return fmt.Sprintf("Mate in %d", mateIn)
		}
		return fmt.Sprintf("Mated in %d", -mateIn)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
