package movegen

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration matches every GenerationError via errors.Is.
	ErrGeneration = errors.New("couldn't generate legal moves")

	// ErrNoPieceAtSource means a move handed to the integrity filter starts on an
	// empty square. The move set is corrupt; it is not filtered, it is rejected.
	ErrNoPieceAtSource = errors.New("from piece cannot be empty")
)

// GenerationError wraps whatever went wrong while filtering legal moves.
type GenerationError struct {
	FEN   string // position the failure happened in, when known
	Cause error
}

func (e *GenerationError) Error() string {
	if e.FEN != "" {
		return fmt.Sprintf("%v in %q: %v", ErrGeneration, e.FEN, e.Cause)
	}
	return fmt.Sprintf("%v: %v", ErrGeneration, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}
