package board

import "fmt"

// Move packs a (from, to, promotion) triple into 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-15: promotion Piece (NoPiece when the move is not a promotion)
//
// Castling is the king's two-square move and en passant is the pawn's move to
// the en-passant square; Position infers both from the moving piece.
// Two moves are equal iff all three fields match, so == compares moves.
type Move uint16

// NoMove is the zero value and never produced by generation.
const NoMove Move = 0

// NewMove creates a move. Pass NoPiece for a non-promotion.
func NewMove(from, to Square, promotion Piece) Move {
	return Move(from&0x3F) | Move(to&0x3F)<<6 | Move(promotion&0xF)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece, or NoPiece.
func (m Move) Promotion() Piece {
	return Piece(m >> 12)
}

// IsPromotion reports whether the move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion() < NoPiece
}

// String returns UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += NewPiece(m.Promotion().Type(), Black).String()
	}
	return s
}

// ParseMove parses UCI notation. The side is needed to colour a promotion piece.
func ParseMove(s string, side Color) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	promo := NoPiece
	if len(s) == 5 {
		p := PieceFromChar(s[4])
		switch p.Type() {
		case Knight, Bishop, Rook, Queen:
			promo = NewPiece(p.Type(), side)
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return NewMove(from, to, promo), nil
}
