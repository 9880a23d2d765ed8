package movegen

import "github.com/hailam/chessmoves/internal/board"

// appendPromotions adds the pawn move from -> to. Landing on the mover's last
// rank yields four moves (queen, rook, bishop, knight); anything else one.
func appendPromotions(moves []board.Move, side board.Color, from, to board.Square) []board.Move {
	if to.Rank() != board.LastRank(side) {
		return append(moves, board.NewMove(from, to, board.NoPiece))
	}
	for _, pt := range board.PromotionTypes {
		moves = append(moves, board.NewMove(from, to, board.NewPiece(pt, side)))
	}
	return moves
}

// PromotionMoves exposes the expansion for callers building pawn moves by hand.
func PromotionMoves(side board.Color, from, to board.Square) []board.Move {
	return appendPromotions(make([]board.Move, 0, 4), side, from, to)
}
