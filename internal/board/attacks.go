package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	pawnPushes    [2][64]Bitboard // [Color][Square] - single push targets
)

func init() {
	initLeaperAttacks()
	initMagics() // From magic.go
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

// KnightAttacks returns the knight attack set for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the diagonal squares a pawn of color c attacks from sq.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns bishop attacks from sq given the occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return bishopMagics[sq].attacks(occupied)
}

// RookAttacks returns rook attacks from sq given the occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rookMagics[sq].attacks(occupied)
}

// QueenAttacks returns queen attacks from sq given the occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Attacks is the table-driven attack oracle. It is stateless; the zero value is ready to use.
type Attacks struct{}

// PawnCaptureTargets returns the diagonal squares holding a piece or equal to the
// en-passant square. The caller masks out its own pieces.
func (Attacks) PawnCaptureTargets(c Color, sq Square, occupied Bitboard, ep Square) Bitboard {
	return pawnAttacks[c][sq] & (occupied | SquareBB(ep))
}

// PawnPushTargets returns the single push, plus the double push from the
// starting rank, stopping at the first occupied square.
func (Attacks) PawnPushTargets(c Color, sq Square, occupied Bitboard) Bitboard {
	single := pawnPushes[c][sq] &^ occupied
	if single == 0 || sq.RelativeRank(c) != 1 {
		return single
	}
	if c == White {
		return single | single.North()&^occupied
	}
	return single | single.South()&^occupied
}

// LeaperAttacks returns knight or king targets restricted to allowed.
func (Attacks) LeaperAttacks(pt PieceType, sq Square, allowed Bitboard) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq] & allowed
	case King:
		return kingAttacks[sq] & allowed
	}
	return Empty
}

// SliderAttacks returns bishop, rook or queen attacks for the occupancy.
func (Attacks) SliderAttacks(pt PieceType, occupied Bitboard, sq Square) Bitboard {
	switch pt {
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	}
	return Empty
}

// AttackersByColor returns pieces of color c attacking sq under the given occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	return attackersOf(&p.Pieces, sq, c, occupied)
}

func attackersOf(pieces *[2][6]Bitboard, sq Square, c Color, occupied Bitboard) Bitboard {
	them := pieces[c]
	return (pawnAttacks[c.Other()][sq] & them[Pawn]) |
		(knightAttacks[sq] & them[Knight]) |
		(kingAttacks[sq] & them[King]) |
		(BishopAttacks(sq, occupied) & (them[Bishop] | them[Queen])) |
		(RookAttacks(sq, occupied) & (them[Rook] | them[Queen]))
}

// IsSquareAttacked reports whether sq is attacked by byColor.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied) != 0
}

// IsSquareAttackedBy reports whether any square in squares is attacked by byColor.
func (p *Position) IsSquareAttackedBy(squares Bitboard, byColor Color) bool {
	for squares != 0 {
		if p.IsSquareAttacked(squares.PopLSB(), byColor) {
			return true
		}
	}
	return false
}

// IsKingAttacked reports whether the side to move is in check.
func (p *Position) IsKingAttacked() bool {
	return p.IsSquareAttackedBy(p.Pieces[p.Turn][King], p.Turn.Other())
}
