// Package movegen enumerates pseudo-legal and legal chess moves from bitboards
// and audits per-piece move sets for the variant's integrity accounting.
//
// The generator never owns position state: every call reads a Position
// snapshot through its accessors and returns a freshly allocated move slice.
package movegen

import "github.com/hailam/chessmoves/internal/board"

// Position is the read-only view of a board the generator needs.
// *board.Position implements it.
type Position interface {
	SideToMove() board.Color
	PieceBitboard(p board.Piece) board.Bitboard
	SideBitboard(c board.Color) board.Bitboard
	Occupancy() board.Bitboard
	PieceAt(sq board.Square) board.Piece
	EnPassantTarget() board.Square
	CastleRight(c board.Color) board.CastleRight
	IsSquareAttackedBy(squares board.Bitboard, by board.Color) bool
	IsKingAttacked() bool
	CastlingContext(c board.Color) board.CastlingContext

	// WouldLeaveKingAttacked is the legality oracle. It fails only for a move
	// that cannot be applied at all.
	WouldLeaveKingAttacked(m board.Move) (bool, error)
}

// AttackOracle answers attack-set queries. board.Attacks implements it.
type AttackOracle interface {
	PawnCaptureTargets(c board.Color, sq board.Square, occupied board.Bitboard, ep board.Square) board.Bitboard
	PawnPushTargets(c board.Color, sq board.Square, occupied board.Bitboard) board.Bitboard
	LeaperAttacks(pt board.PieceType, sq board.Square, allowed board.Bitboard) board.Bitboard
	SliderAttacks(pt board.PieceType, occupied board.Bitboard, sq board.Square) board.Bitboard
}

// Generator produces move lists. It holds only configuration and is safe for
// concurrent use across distinct positions.
type Generator struct {
	oracle    AttackOracle
	baselines Baselines
}

// New creates a generator over the given oracle and integrity baselines.
func New(oracle AttackOracle, baselines Baselines) *Generator {
	return &Generator{oracle: oracle, baselines: baselines}
}

// Default returns a generator using the table-driven oracle and DefaultBaselines.
func Default() *Generator {
	return New(board.Attacks{}, DefaultBaselines)
}

// Baselines returns the integrity baselines in use.
func (g *Generator) Baselines() Baselines {
	return g.baselines
}

// DefaultMask is every square not occupied by the side to move.
func DefaultMask(pos Position) board.Bitboard {
	return ^pos.SideBitboard(pos.SideToMove())
}

// PseudoLegalMoves returns all pseudo-legal moves for the side to move,
// castling included: pawn captures, pawn pushes, then knights, bishops,
// rooks, queens, king and castling, each in ascending source-square order.
func (g *Generator) PseudoLegalMoves(pos Position) []board.Move {
	moves := make([]board.Move, 0, 64)
	moves = g.appendPawnCaptures(moves, pos, pos.SideToMove(), board.Universe)
	moves = g.appendPawnPushes(moves, pos, pos.SideToMove(), board.Universe)
	mask := DefaultMask(pos)
	for _, pt := range [...]board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		moves = g.appendPieceMoves(moves, pos, pt, mask)
	}
	return append(moves, g.CastleMoves(pos)...)
}

// PseudoLegalCaptures returns pseudo-legal captures, en passant included.
// Quiet promotions are not captures and are left out.
func (g *Generator) PseudoLegalCaptures(pos Position) []board.Move {
	moves := make([]board.Move, 0, 16)
	moves = g.appendPawnCaptures(moves, pos, pos.SideToMove(), board.Universe)
	enemies := pos.SideBitboard(pos.SideToMove().Other())
	for _, pt := range [...]board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		moves = g.appendPieceMoves(moves, pos, pt, enemies)
	}
	return moves
}

// PawnCaptures returns diagonal pawn moves onto enemy pieces or the en-passant square.
func (g *Generator) PawnCaptures(pos Position) []board.Move {
	return g.appendPawnCaptures(nil, pos, pos.SideToMove(), board.Universe)
}

// PawnPushes returns single and double pawn pushes.
func (g *Generator) PawnPushes(pos Position) []board.Move {
	return g.appendPawnPushes(nil, pos, pos.SideToMove(), board.Universe)
}

// PieceMoves returns moves of every piece of type pt belonging to the side to
// move whose destination lies in mask. Each pawn yields its captures, then
// its pushes. A zero mask yields nothing.
func (g *Generator) PieceMoves(pos Position, pt board.PieceType, mask board.Bitboard) []board.Move {
	if pt >= board.NoPieceType {
		return nil
	}
	return g.appendPieceMoves(nil, pos, pt, mask)
}

func (g *Generator) appendPieceMoves(moves []board.Move, pos Position, pt board.PieceType, mask board.Bitboard) []board.Move {
	side := pos.SideToMove()
	pieces := pos.PieceBitboard(board.NewPiece(pt, side))
	for pieces != 0 {
		moves = pieceMoveFuncs[pt](g, moves, pos, pieces.PopLSB(), side, mask)
	}
	return moves
}

func (g *Generator) appendPawnCaptures(moves []board.Move, pos Position, side board.Color, mask board.Bitboard) []board.Move {
	pawns := pos.PieceBitboard(board.NewPiece(board.Pawn, side))
	for pawns != 0 {
		moves = g.appendPawnCapturesFrom(moves, pos, side, pawns.PopLSB(), mask)
	}
	return moves
}

func (g *Generator) appendPawnPushes(moves []board.Move, pos Position, side board.Color, mask board.Bitboard) []board.Move {
	pawns := pos.PieceBitboard(board.NewPiece(board.Pawn, side))
	for pawns != 0 {
		moves = g.appendPawnPushesFrom(moves, pos, side, pawns.PopLSB(), mask)
	}
	return moves
}

func appendTargets(moves []board.Move, from board.Square, targets board.Bitboard) []board.Move {
	for targets != 0 {
		moves = append(moves, board.NewMove(from, targets.PopLSB(), board.NoPiece))
	}
	return moves
}

func appendPawnTargets(moves []board.Move, side board.Color, from board.Square, targets board.Bitboard) []board.Move {
	for targets != 0 {
		moves = appendPromotions(moves, side, from, targets.PopLSB())
	}
	return moves
}
