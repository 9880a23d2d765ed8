package board

// VBoard is a lightweight board for move simulation.
// Unlike Position, it only contains data needed for attack detection.
type VBoard struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard
	KingSquare  [2]Square
}

// NewVBoard creates a VBoard from a Position.
func NewVBoard(p *Position) VBoard {
	return VBoard{
		Pieces:      p.Pieces,
		Occupied:    p.Occupied,
		AllOccupied: p.AllOccupied,
		KingSquare:  p.KingSquare,
	}
}

func (v *VBoard) toggle(c Color, pt PieceType, bb Bitboard) {
	v.Pieces[c][pt] ^= bb
	v.Occupied[c] ^= bb
}

// ApplyMove plays an already classified move (no validation).
func (v *VBoard) ApplyMove(m Move, us Color, kind moveKind) {
	them := us.Other()
	from, to := m.From(), m.To()
	fromBB, toBB := SquareBB(from), SquareBB(to)

	pt := Pawn
	for t := Pawn; t <= King; t++ {
		if v.Pieces[us][t]&fromBB != 0 {
			pt = t
			break
		}
	}

	for t := Pawn; t <= King; t++ {
		if v.Pieces[them][t]&toBB != 0 {
			v.toggle(them, t, toBB)
			if t == King {
				v.KingSquare[them] = NoSquare
			}
			break
		}
	}

	switch kind {
	case kindEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		v.toggle(them, Pawn, SquareBB(capSq))
	case kindCastle:
		rookFrom, rookTo, _ := rookCastleSquares(to)
		v.toggle(us, Rook, SquareBB(rookFrom)|SquareBB(rookTo))
	}

	v.toggle(us, pt, fromBB|toBB)
	if m.IsPromotion() {
		v.Pieces[us][pt] &^= toBB
		v.Pieces[us][m.Promotion().Type()] |= toBB
	}
	if pt == King {
		v.KingSquare[us] = to
	}
	v.AllOccupied = v.Occupied[White] | v.Occupied[Black]
}

// IsKingAttacked checks if the king on kingSq is attacked by byColor.
func (v *VBoard) IsKingAttacked(kingSq Square, byColor Color) bool {
	return attackersOf(&v.Pieces, kingSq, byColor, v.AllOccupied) != 0
}
