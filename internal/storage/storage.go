package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	analysisPrefix = "analysis/"
)

// Analysis is a finished search persisted across runs.
type Analysis struct {
	Hash      uint64    `json:"hash"`
	Depth     int       `json:"depth"`
	FEN       string    `json:"fen"`
	Move      string    `json:"move"`
	Score     int       `json:"score"`
	Nodes     uint64    `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
}

// analysisKey orders entries by position, then depth.
func analysisKey(hash uint64, depth int) []byte {
	return []byte(fmt.Sprintf("%s%016x/%02d", analysisPrefix, hash, depth))
}

// Store wraps BadgerDB for persistent analysis storage
type Store struct {
	db *badger.DB
}

// Open opens the store in dir, or in the default database directory when
// dir is empty.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a store that keeps everything in memory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open analysis store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAnalysis stores a, replacing any entry for the same position and depth.
func (s *Store) SaveAnalysis(a Analysis) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(a.Hash, a.Depth), data)
	})
}

// LoadAnalysis returns the stored analysis for hash at depth. The boolean
// is false, with a nil error, when there is none.
func (s *Store) LoadAnalysis(hash uint64, depth int) (Analysis, bool, error) {
	var a Analysis
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(hash, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})

	return a, found, err
}

// DeleteAnalysis removes the entry for hash at depth, if any.
func (s *Store) DeleteAnalysis(hash uint64, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(analysisKey(hash, depth))
	})
}

// CountAnalyses returns the number of stored analyses.
func (s *Store) CountAnalyses() (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(analysisPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}
