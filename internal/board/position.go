package board

import (
	"fmt"
	"strings"
)

// Position is a complete chess position.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards, kept in step with Pieces
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	Turn           Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// King positions, NoSquare when a side has no king
	KingSquare [2]Square
}

// NewPosition returns the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// NewEmptyPosition returns a board with no pieces, White to move.
func NewEmptyPosition() *Position {
	p := &Position{}
	p.Clear()
	return p
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}
}

// Copy returns a deep copy; Position holds no references.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// SideToMove returns the side whose turn it is.
func (p *Position) SideToMove() Color {
	return p.Turn
}

// PieceBitboard returns the squares holding piece.
func (p *Position) PieceBitboard(piece Piece) Bitboard {
	if piece >= NoPiece {
		return Empty
	}
	return p.Pieces[piece.Color()][piece.Type()]
}

// SideBitboard returns every square occupied by c.
func (p *Position) SideBitboard(c Color) Bitboard {
	return p.Occupied[c]
}

// Occupancy returns every occupied square.
func (p *Position) Occupancy() Bitboard {
	return p.AllOccupied
}

// EnPassantTarget returns the en-passant square or NoSquare.
func (p *Position) EnPassantTarget() Square {
	return p.EnPassant
}

// CastleRight returns what c may still castle.
func (p *Position) CastleRight(c Color) CastleRight {
	return p.CastlingRights.Side(c)
}

// CastlingContext returns the standard-chess castling squares for c.
func (p *Position) CastlingContext(c Color) CastlingContext {
	return standardCastling[c]
}

// PieceAt returns the piece on sq, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// SetPiece puts piece on sq, replacing whatever stood there.
func (p *Position) SetPiece(sq Square, piece Piece) {
	p.RemovePiece(sq)
	if piece >= NoPiece || !sq.IsValid() {
		return
	}
	c, pt, bb := piece.Color(), piece.Type(), SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	if pt == King {
		p.KingSquare[c] = sq
	}
}

// RemovePiece clears sq and returns what was there.
func (p *Position) RemovePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	c, pt, bb := piece.Color(), piece.Type(), SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	if pt == King {
		p.KingSquare[c] = p.Pieces[c][King].LSB()
	}
	return piece
}

// movePiece relocates the piece on from; the destination must be empty.
func (p *Position) movePiece(from, to Square) {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return
	}
	c, pt := piece.Color(), piece.Type()
	moveBB := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
	if pt == King {
		p.KingSquare[c] = to
	}
}

// String draws the board followed by the state fields.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.Turn)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Key: %016x\n", p.Key())
	return sb.String()
}

// Validate checks the invariants the generator relies on.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	if p.IsSquareAttackedBy(p.Pieces[p.Turn.Other()][King], p.Turn) {
		return fmt.Errorf("side not to move is in check")
	}
	return nil
}
