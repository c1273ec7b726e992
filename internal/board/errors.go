package board

import "errors"

// Sentinel errors. Detailed errors wrap these; test with errors.Is.
var (
	// ErrInvalidFEN indicates a malformed or impossible FEN string.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrIllegalMove indicates a move that is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)
