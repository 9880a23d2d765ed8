package movegen

import "github.com/hailam/chessmoves/internal/board"

// CastleMoves returns the castling moves available to the side to move:
// none when the king is in check, otherwise one per wing whose right is
// held, whose corridor is empty and whose transit squares are not attacked.
//
// The move values come from the position's CastlingContext. A wing is also
// skipped when the king is not on the castle move's source square, so an
// inconsistent castling field never yields an unplayable move.
func (g *Generator) CastleMoves(pos Position) []board.Move {
	if pos.IsKingAttacked() {
		return nil
	}
	us := pos.SideToMove()
	right := pos.CastleRight(us)
	if right == board.CastleNone {
		return nil
	}
	ctx := pos.CastlingContext(us)
	king := pos.PieceBitboard(board.NewPiece(board.King, us))

	var moves []board.Move
	for _, kingSide := range [...]bool{true, false} {
		if kingSide && !right.KingSide() || !kingSide && !right.QueenSide() {
			continue
		}
		if pos.Occupancy()&ctx.EmptySquares(kingSide) != 0 {
			continue
		}
		if pos.IsSquareAttackedBy(ctx.TransitSquares(kingSide), us.Other()) {
			continue
		}
		m := ctx.CastleMove(kingSide)
		if !king.IsSet(m.From()) {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}
