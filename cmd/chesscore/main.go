// Command chesscore analyses a chess position: it searches for the best
// move to a fixed depth, or counts move-generation leaves with -perft.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	stdr.SetVerbosity(cfg.Verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("chesscore")

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Error(err, "could not create CPU profile")
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error(err, "could not start CPU profile")
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error(err, "failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logr.Logger) error {
	pos, err := board.ParseFEN(cfg.FEN)
	if err != nil {
		return err
	}

	if cfg.Perft > 0 {
		return runPerft(pos, cfg.Perft, cfg.Divide)
	}

	opts := []engine.Option{engine.WithLogger(logger.WithName("engine"))}
	if !cfg.NoStore {
		store, err := storage.Open(cfg.DatabaseDir)
		if err != nil {
			return fmt.Errorf("open analysis database: %w", err)
		}
		defer store.Close()
		opts = append(opts, engine.WithStore(store))
	}
	eng := engine.NewEngine(cfg.CacheMB, opts...)

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	a, err := eng.Analyze(ctx, pos, cfg.SearchDepth())
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Info("search timed out, reporting best move so far", "timeout", cfg.Timeout)
	} else if err != nil {
		return err
	}

	if a.Move == board.NoMove {
		switch {
		case pos.IsCheckmate():
			fmt.Println("checkmate")
		case pos.IsStalemate():
			fmt.Println("stalemate")
		default:
			fmt.Println("bestmove (none)")
		}
		return nil
	}

	fmt.Printf("bestmove %s (%s)\n", a.Move, a.Move.SAN(pos))
	fmt.Printf("score %s (%d)\n", engine.ScoreToString(a.Score, a.Depth), a.Score)
	fmt.Printf("depth %d nodes %d source %s time %s\n", a.Depth, a.Nodes, a.Source, a.Elapsed.Round(time.Millisecond))
	return nil
}

func runPerft(pos *board.Position, depth int, divide bool) error {
	start := time.Now()
	if !divide {
		n := board.Perft(pos, depth)
		fmt.Printf("perft(%d) = %d (%s)\n", depth, n, time.Since(start).Round(time.Millisecond))
		return nil
	}

	counts := board.PerftDivide(pos, depth)
	moves := make([]string, 0, len(counts))
	var total uint64
	for m, n := range counts {
		moves = append(moves, m)
		total += n
	}
	sort.Strings(moves)
	for _, m := range moves {
		fmt.Printf("%s: %d\n", m, counts[m])
	}
	fmt.Printf("\nNodes searched: %d (%s)\n", total, time.Since(start).Round(time.Millisecond))
	return nil
}
