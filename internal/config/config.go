// Package config holds the runtime configuration for the chesscore command.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables read by LoadEnv.
const (
	EnvDatabaseDir = "CHESSCORE_DB"
	EnvDepth       = "CHESSCORE_DEPTH"
)

// Config holds all program configuration.
type Config struct {
	// Position
	FEN string

	// Search
	Depth      int    // Fixed search depth in plies
	Difficulty string // Named preset; overrides Depth when set
	Timeout    time.Duration
	CacheMB    int

	// Move generation checks
	Perft  int  // Run perft to this depth instead of searching
	Divide bool // Break the perft count down by root move

	// Persistence
	DatabaseDir string // Empty means the platform data directory
	NoStore     bool

	Verbosity int // 0=results only, 1=search summary, 2=cache traffic
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		FEN:     board.StartFEN,
		Depth:   4,
		CacheMB: 16,
	}
}

// RegisterFlags binds the configuration fields to command-line flags in fs.
// Current field values become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.FEN, "fen", c.FEN, "position to analyse, in FEN")
	fs.IntVar(&c.Depth, "depth", c.Depth, "search depth in plies")
	fs.StringVar(&c.Difficulty, "difficulty", c.Difficulty, "search preset: easy, medium or hard (overrides -depth)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "abort the search after this long (0 = no limit)")
	fs.IntVar(&c.CacheMB, "cache", c.CacheMB, "result cache size in MB")
	fs.IntVar(&c.Perft, "perft", c.Perft, "count leaf nodes to this depth instead of searching")
	fs.BoolVar(&c.Divide, "divide", c.Divide, "with -perft, print the count below each root move")
	fs.StringVar(&c.DatabaseDir, "db", c.DatabaseDir, "analysis database directory (default: platform data dir)")
	fs.BoolVar(&c.NoStore, "nostore", c.NoStore, "do not read or write the analysis database")
	fs.IntVar(&c.Verbosity, "v", c.Verbosity, "log verbosity (0-2)")
}

// LoadEnv applies overrides from the process environment.
func (c *Config) LoadEnv() error {
	return c.ApplyEnv(os.LookupEnv)
}

// ApplyEnv applies overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if dir, ok := lookup(EnvDatabaseDir); ok && dir != "" {
		c.DatabaseDir = dir
	}
	if v, ok := lookup(EnvDepth); ok && v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q is not a number: %w", EnvDepth, v, ErrInvalidConfig)
		}
		c.Depth = depth
	}
	return nil
}

// SearchDepth returns the depth to search: the difficulty preset when one
// is set, otherwise Depth.
func (c *Config) SearchDepth() int {
	if c.Difficulty != "" {
		if d, err := engine.ParseDifficulty(c.Difficulty); err == nil {
			return d.Depth()
		}
	}
	return c.Depth
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Depth < 1 || c.Depth > engine.MaxPly {
		return fmt.Errorf("depth %d outside 1..%d: %w", c.Depth, engine.MaxPly, ErrInvalidConfig)
	}
	if c.Difficulty != "" {
		if _, err := engine.ParseDifficulty(c.Difficulty); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Perft < 0 {
		return fmt.Errorf("perft depth %d is negative: %w", c.Perft, ErrInvalidConfig)
	}
	if c.Divide && c.Perft == 0 {
		return fmt.Errorf("-divide needs -perft: %w", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %v is negative: %w", c.Timeout, ErrInvalidConfig)
	}
	if c.CacheMB < 0 {
		return fmt.Errorf("cache size %d MB is negative: %w", c.CacheMB, ErrInvalidConfig)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity %d is negative: %w", c.Verbosity, ErrInvalidConfig)
	}
	if _, err := board.ParseFEN(c.FEN); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
