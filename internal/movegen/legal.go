package movegen

import (
	"fmt"

	"github.com/hailam/chessmoves/internal/board"
)

// FilterLegal keeps the moves that do not leave the mover's king attacked.
// A move the oracle cannot apply is a generation bug: filtering stops and the
// oracle's error is returned unchanged.
func FilterLegal(pos Position, moves []board.Move) ([]board.Move, error) {
	legal := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		attacked, err := pos.WouldLeaveKingAttacked(m)
		if err != nil {
			return nil, err
		}
		if !attacked {
			legal = append(legal, m)
		}
	}
	return legal, nil
}

// LegalMoves returns the legal moves for the side to move. Any failure,
// including a panic raised by the position, comes back as a *GenerationError
// and no partial list is returned.
func (g *Generator) LegalMoves(pos Position) (moves []board.Move, err error) {
	defer func() {
		if r := recover(); r != nil {
			moves = nil
			err = &GenerationError{FEN: fenOf(pos), Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	moves, err = FilterLegal(pos, g.PseudoLegalMoves(pos))
	if err != nil {
		return nil, &GenerationError{FEN: fenOf(pos), Cause: err}
	}
	return moves, nil
}

// LegalCaptures is PseudoLegalCaptures run through the legal filter.
func (g *Generator) LegalCaptures(pos Position) ([]board.Move, error) {
	moves, err := FilterLegal(pos, g.PseudoLegalCaptures(pos))
	if err != nil {
		return nil, &GenerationError{FEN: fenOf(pos), Cause: err}
	}
	return moves, nil
}

// fenOf describes pos for error messages when it knows how to.
func fenOf(pos Position) (fen string) {
	f, ok := pos.(interface{ ToFEN() string })
	if !ok {
		return ""
	}
	defer func() {
		if recover() != nil {
			fen = ""
		}
	}()
	return f.ToFEN()
}

// IsCheckmate reports whether the side to move is in check with no legal move.
func (g *Generator) IsCheckmate(pos Position) (bool, error) {
	if !pos.IsKingAttacked() {
		return false, nil
	}
	moves, err := g.LegalMoves(pos)
	return err == nil && len(moves) == 0, err
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
func (g *Generator) IsStalemate(pos Position) (bool, error) {
	if pos.IsKingAttacked() {
		return false, nil
	}
	moves, err := g.LegalMoves(pos)
	return err == nil && len(moves) == 0, err
}
