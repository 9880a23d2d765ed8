package board

import (
	"errors"
	"fmt"
	"log"
)

// DebugMoveValidation logs every malformed move handed to the position.
var DebugMoveValidation = false

// ErrMalformedMove is returned when a move cannot be applied to the position at all.
// It signals a generation bug rather than an illegal move.
var ErrMalformedMove = errors.New("malformed move")

type moveKind uint8

const (
	kindNormal moveKind = iota
	kindEnPassant
	kindCastle
)

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
}

// classify checks that m can be applied for the side to move and reports how.
func (p *Position) classify(m Move) (moveKind, error) {
	from, to := m.From(), m.To()
	us := p.Turn
	piece := p.PieceAt(from)

	fail := func(reason string) (moveKind, error) {
		err := fmt.Errorf("%w: %v: %s", ErrMalformedMove, m, reason)
		if DebugMoveValidation {
			log.Printf("MOVE REJECTED: %v (fen %s)", err, p.ToFEN())
		}
		return kindNormal, err
	}

	switch {
	case m == NoMove || from == to:
		return fail("null move")
	case piece == NoPiece:
		return fail("no piece on " + from.String())
	case piece.Color() != us:
		return fail(fmt.Sprintf("%s piece moved with %s to move", piece.Color(), us))
	case p.Occupied[us].IsSet(to):
		return fail("destination holds own piece")
	}

	pt := piece.Type()
	if m.IsPromotion() {
		promo := m.Promotion()
		if pt != Pawn || to.Rank() != LastRank(us) || promo.Color() != us ||
			promo.Type() == Pawn || promo.Type() == King {
			return fail("bad promotion")
		}
	} else if pt == Pawn && to.Rank() == LastRank(us) {
		return fail("pawn reaches last rank without promotion")
	}

	switch {
	case pt == Pawn && to == p.EnPassant && from.File() != to.File() && p.IsEmpty(to):
		return kindEnPassant, nil
	case pt == King && from.Rank() == to.Rank() && abs(to.File()-from.File()) == 2:
		if _, _, ok := rookCastleSquares(to); !ok {
			return fail("bad castling destination")
		}
		return kindCastle, nil
	}
	return kindNormal, nil
}

// MakeMove applies m and returns undo information. The move is not checked for
// legality, only for being applicable; a malformed move leaves p untouched.
func (p *Position) MakeMove(m Move) (UndoInfo, error) {
	kind, err := p.classify(m)
	if err != nil {
		return UndoInfo{}, err
	}

	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
	}

	us := p.Turn
	from, to := m.From(), m.To()
	pt := p.PieceAt(from).Type()

	p.EnPassant = NoSquare

	switch kind {
	case kindEnPassant:
		capturedSq := to - 8
		if us == Black {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.RemovePiece(capturedSq)
	case kindCastle:
		rookFrom, rookTo, _ := rookCastleSquares(to)
		p.movePiece(rookFrom, rookTo)
	default:
		undo.CapturedPiece = p.RemovePiece(to)
	}

	p.movePiece(from, to)

	if m.IsPromotion() {
		p.SetPiece(to, m.Promotion())
	}

	p.CastlingRights &^= castlingMask[from] | castlingMask[to]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.Turn = us.Other()

	return undo, nil
}

// UnmakeMove restores the position saved in undo.
func (p *Position) UnmakeMove(undo UndoInfo) {
	us := p.Turn.Other()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	p.Turn = us

	if us == Black {
		p.FullMoveNumber--
	}
}

// WouldLeaveKingAttacked reports whether playing m leaves the mover's king attacked.
// The move is simulated on a VBoard; p is not modified. A position without a
// king for the mover is never in check.
func (p *Position) WouldLeaveKingAttacked(m Move) (bool, error) {
	kind, err := p.classify(m)
	if err != nil {
		return false, err
	}
	us := p.Turn
	v := NewVBoard(p)
	v.ApplyMove(m, us, kind)
	if v.KingSquare[us] == NoSquare {
		return false, nil
	}
	return v.IsKingAttacked(v.KingSquare[us], us.Other()), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
