package movegen

import (
	"fmt"
	"log"

	"github.com/hailam/chessmoves/internal/board"
)

// DebugIntegrity logs every same-colour capture the integrity filter drops.
var DebugIntegrity = false

// Baselines holds the maximum move count of each piece type, indexed by
// board.PieceType. The values tune the variant; they are not chess law.
type Baselines [board.NoPieceType]int

// DefaultBaselines are the single-piece maxima on an open board, with four
// pawn branches (push, double push, two captures).
var DefaultBaselines = Baselines{
	board.Pawn:   4,
	board.Knight: 8,
	board.Bishop: 13,
	board.Rook:   14,
	board.Queen:  27,
	board.King:   8,
}

// Max returns the baseline for pt, or 0 for an unknown type.
func (b Baselines) Max(pt board.PieceType) int {
	if pt >= board.NoPieceType {
		return 0
	}
	return b[pt]
}

// PieceSquareMoves is one piece on one square with its candidate moves.
type PieceSquareMoves struct {
	Piece  board.Piece
	Square board.Square
	Moves  []board.Move
}

// PieceMovesAndIntegrity tracks the integrity counters of one PieceSquareMoves.
// It is not safe for concurrent mutation.
//
// The two mutators keep ownIntegrity in different ways: IncrementIntegrity
// sets it to maxMoves-strangeIntegrity, SetMoves to maxMoves-len(moves).
// Whichever ran last wins.
type PieceMovesAndIntegrity struct {
	psm              *PieceSquareMoves
	maxMoves         int
	strangeIntegrity int
	ownIntegrity     int
}

// NewPieceMovesAndIntegrity wraps psm using maxMoves as the piece's baseline.
func NewPieceMovesAndIntegrity(psm *PieceSquareMoves, maxMoves int) *PieceMovesAndIntegrity {
	return &PieceMovesAndIntegrity{
		psm:          psm,
		maxMoves:     maxMoves,
		ownIntegrity: maxMoves - len(psm.Moves),
	}
}

// IncrementIntegrity records one more same-colour capture.
func (pmi *PieceMovesAndIntegrity) IncrementIntegrity() {
	pmi.strangeIntegrity++
	pmi.ownIntegrity = pmi.maxMoves - pmi.strangeIntegrity
}

// SetMoves replaces the move list and recounts ownIntegrity from its length.
func (pmi *PieceMovesAndIntegrity) SetMoves(moves []board.Move) {
	pmi.psm.Moves = moves
	pmi.ownIntegrity = pmi.maxMoves - len(moves)
}

func (pmi *PieceMovesAndIntegrity) Piece() board.Piece    { return pmi.psm.Piece }
func (pmi *PieceMovesAndIntegrity) Square() board.Square  { return pmi.psm.Square }
func (pmi *PieceMovesAndIntegrity) Moves() []board.Move   { return pmi.psm.Moves }
func (pmi *PieceMovesAndIntegrity) MaxMoves() int         { return pmi.maxMoves }
func (pmi *PieceMovesAndIntegrity) StrangeIntegrity() int { return pmi.strangeIntegrity }
func (pmi *PieceMovesAndIntegrity) OwnIntegrity() int     { return pmi.ownIntegrity }

// PieceSquareMoves returns the wrapped value, whose Moves SetMoves replaces.
func (pmi *PieceMovesAndIntegrity) PieceSquareMoves() *PieceSquareMoves {
	return pmi.psm
}

// IntegrityResult is an immutable snapshot of a PieceMovesAndIntegrity.
type IntegrityResult struct {
	Piece            board.Piece  `json:"piece"`
	Square           board.Square `json:"square"`
	Moves            []board.Move `json:"moves"`
	MaxMoves         int          `json:"max_moves"`
	StrangeIntegrity int          `json:"strange_integrity"`
	OwnIntegrity     int          `json:"own_integrity"`
}

// Result copies the current state out.
func (pmi *PieceMovesAndIntegrity) Result() IntegrityResult {
	moves := make([]board.Move, len(pmi.psm.Moves))
	copy(moves, pmi.psm.Moves)
	return IntegrityResult{
		Piece:            pmi.psm.Piece,
		Square:           pmi.psm.Square,
		Moves:            moves,
		MaxMoves:         pmi.maxMoves,
		StrangeIntegrity: pmi.strangeIntegrity,
		OwnIntegrity:     pmi.ownIntegrity,
	}
}

// String formats the result the way the query shell prints it.
func (r IntegrityResult) String() string {
	return fmt.Sprintf("%s%s moves %d max %d strange %d own %d",
		r.Piece, r.Square, len(r.Moves), r.MaxMoves, r.StrangeIntegrity, r.OwnIntegrity)
}

// ComputeIntegrity filters psm's moves. A move landing on a piece of the
// mover's own colour is counted as strange and dropped; the survivors replace
// psm's move list, so OwnIntegrity ends as MaxMoves minus the surviving count.
// A move whose source square is empty fails with ErrNoPieceAtSource and psm is
// left untouched.
func (g *Generator) ComputeIntegrity(pos Position, psm *PieceSquareMoves) (*PieceMovesAndIntegrity, error) {
	pmi := NewPieceMovesAndIntegrity(psm, g.baselines.Max(psm.Piece.Type()))

	kept := make([]board.Move, 0, len(psm.Moves))
	for _, m := range psm.Moves {
		mover := pos.PieceAt(m.From())
		if mover == board.NoPiece {
			return nil, fmt.Errorf("%w: %v on %s", ErrNoPieceAtSource, m, m.From())
		}
		target := pos.PieceAt(m.To())
		if target != board.NoPiece && target.Color() == mover.Color() {
			pmi.IncrementIntegrity()
			if DebugIntegrity {
				log.Printf("integrity: %s %v lands on own %s (strange %d)",
					mover, m, target, pmi.StrangeIntegrity())
			}
			continue
		}
		kept = append(kept, m)
	}
	pmi.SetMoves(kept)
	return pmi, nil
}

// AllPiecesIntegrity runs MovesForPiece and ComputeIntegrity for every piece
// of side, in ascending square order.
func (g *Generator) AllPiecesIntegrity(pos Position, side board.Color) ([]IntegrityResult, error) {
	var results []IntegrityResult
	pieces := pos.SideBitboard(side)
	for pieces != 0 {
		sq := pieces.PopLSB()
		piece := pos.PieceAt(sq)
		psm := &PieceSquareMoves{
			Piece:  piece,
			Square: sq,
			Moves:  g.MovesForPiece(pos, sq, side, piece.Type()),
		}
		pmi, err := g.ComputeIntegrity(pos, psm)
		if err != nil {
			return nil, err
		}
		results = append(results, pmi.Result())
	}
	return results, nil
}
