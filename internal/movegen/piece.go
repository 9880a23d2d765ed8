package movegen

import "github.com/hailam/chessmoves/internal/board"

// pieceMoveFunc appends the moves of the piece of side on from, restricted to mask.
type pieceMoveFunc func(g *Generator, moves []board.Move, pos Position, from board.Square, side board.Color, mask board.Bitboard) []board.Move

// pieceMoveFuncs is indexed by piece type; every type has an entry.
var pieceMoveFuncs = [board.NoPieceType]pieceMoveFunc{
	board.Pawn: func(g *Generator, moves []board.Move, pos Position, from board.Square, side board.Color, mask board.Bitboard) []board.Move {
		moves = g.appendPawnCapturesFrom(moves, pos, side, from, mask)
		return g.appendPawnPushesFrom(moves, pos, side, from, mask)
	},
	board.Knight: leaperMoves(board.Knight),
	board.Bishop: sliderMoves(board.Bishop),
	board.Rook:   sliderMoves(board.Rook),
	board.Queen:  sliderMoves(board.Queen),
	board.King:   leaperMoves(board.King),
}

func leaperMoves(pt board.PieceType) pieceMoveFunc {
	return func(g *Generator, moves []board.Move, _ Position, from board.Square, _ board.Color, mask board.Bitboard) []board.Move {
		return appendTargets(moves, from, g.oracle.LeaperAttacks(pt, from, mask))
	}
}

func sliderMoves(pt board.PieceType) pieceMoveFunc {
	return func(g *Generator, moves []board.Move, pos Position, from board.Square, _ board.Color, mask board.Bitboard) []board.Move {
		return appendTargets(moves, from, g.oracle.SliderAttacks(pt, pos.Occupancy(), from)&mask)
	}
}

// MovesForPiece returns the pseudo-legal moves of the single piece of side and
// type pt standing on sq, targeting any square side does not occupy. It is
// empty when sq does not hold that piece. side need not be the side to move;
// en passant is only offered to the side to move, and castling never.
func (g *Generator) MovesForPiece(pos Position, sq board.Square, side board.Color, pt board.PieceType) []board.Move {
	if !sq.IsValid() || pt >= board.NoPieceType || side > board.Black {
		return nil
	}
	if pos.PieceAt(sq) != board.NewPiece(pt, side) {
		return nil
	}
	return pieceMoveFuncs[pt](g, nil, pos, sq, side, ^pos.SideBitboard(side))
}

func (g *Generator) appendPawnCapturesFrom(moves []board.Move, pos Position, side board.Color, from board.Square, mask board.Bitboard) []board.Move {
	ep := board.NoSquare
	if side == pos.SideToMove() {
		ep = pos.EnPassantTarget()
	}
	targets := g.oracle.PawnCaptureTargets(side, from, pos.Occupancy(), ep) &^ pos.SideBitboard(side) & mask
	return appendPawnTargets(moves, side, from, targets)
}

func (g *Generator) appendPawnPushesFrom(moves []board.Move, pos Position, side board.Color, from board.Square, mask board.Bitboard) []board.Move {
	targets := g.oracle.PawnPushTargets(side, from, pos.Occupancy()) & mask
	return appendPawnTargets(moves, side, from, targets)
}

// PawnPlacements lists, for every empty square on ranks 2 to 7, the moves a
// pawn of side would have if it were put there. Each placement is evaluated on
// its own copy of pos; pos itself is not modified.
func (g *Generator) PawnPlacements(pos *board.Position, side board.Color) []PieceSquareMoves {
	pawn := board.NewPiece(board.Pawn, side)
	candidates := ^pos.Occupancy() &^ (board.Rank1 | board.Rank8)

	placements := make([]PieceSquareMoves, 0, candidates.PopCount())
	for candidates != 0 {
		sq := candidates.PopLSB()
		trial := pos.Copy()
		trial.SetPiece(sq, pawn)
		placements = append(placements, PieceSquareMoves{
			Piece:  pawn,
			Square: sq,
			Moves:  g.MovesForPiece(trial, sq, side, board.Pawn),
		})
	}
	return placements
}
