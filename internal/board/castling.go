package board

// CastlingRights is the FEN castling field as a bit set.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			s += string(c)
		}
	}
	return s
}

// Side extracts one side's rights.
func (cr CastlingRights) Side(c Color) CastleRight {
	if c == Black {
		cr >>= 2
	}
	return CastleRight(cr & 3)
}

// CastleRight is what one side may still do: none, king side, queen side or both.
type CastleRight uint8

const (
	CastleNone      CastleRight = 0
	CastleKingSide  CastleRight = 1
	CastleQueenSide CastleRight = 2
	CastleBoth      CastleRight = CastleKingSide | CastleQueenSide
)

// KingSide reports whether O-O is still allowed.
func (r CastleRight) KingSide() bool {
	return r&CastleKingSide != 0
}

// QueenSide reports whether O-O-O is still allowed.
func (r CastleRight) QueenSide() bool {
	return r&CastleQueenSide != 0
}

func (r CastleRight) String() string {
	switch r {
	case CastleKingSide:
		return "KingSide"
	case CastleQueenSide:
		return "QueenSide"
	case CastleBoth:
		return "Both"
	default:
		return "None"
	}
}

// CastlingContext carries the squares and move encoding of castling for one side.
// Index 0 is the king side, index 1 the queen side.
type CastlingContext struct {
	empty   [2]Bitboard
	transit [2]Bitboard
	moves   [2]Move
}

// NewCastlingContext builds a context for boards whose castling geometry is not
// the standard one. Each array is indexed king side first, queen side second.
func NewCastlingContext(empty, transit [2]Bitboard, moves [2]Move) CastlingContext {
	return CastlingContext{empty: empty, transit: transit, moves: moves}
}

// StandardCastling returns the orthodox castling context for c.
func StandardCastling(c Color) CastlingContext {
	return standardCastling[c]
}

func castleIndex(kingSide bool) int {
	if kingSide {
		return 0
	}
	return 1
}

// EmptySquares is the corridor between king and rook that must be vacant.
func (cc CastlingContext) EmptySquares(kingSide bool) Bitboard {
	return cc.empty[castleIndex(kingSide)]
}

// TransitSquares are the squares the king crosses, destination included.
func (cc CastlingContext) TransitSquares(kingSide bool) Bitboard {
	return cc.transit[castleIndex(kingSide)]
}

// CastleMove is the king move that encodes castling on that wing.
func (cc CastlingContext) CastleMove(kingSide bool) Move {
	return cc.moves[castleIndex(kingSide)]
}

var standardCastling = [2]CastlingContext{
	White: {
		empty:   [2]Bitboard{SquaresBB(F1, G1), SquaresBB(B1, C1, D1)},
		transit: [2]Bitboard{SquaresBB(F1, G1), SquaresBB(D1, C1)},
		moves:   [2]Move{NewMove(E1, G1, NoPiece), NewMove(E1, C1, NoPiece)},
	},
	Black: {
		empty:   [2]Bitboard{SquaresBB(F8, G8), SquaresBB(B8, C8, D8)},
		transit: [2]Bitboard{SquaresBB(F8, G8), SquaresBB(D8, C8)},
		moves:   [2]Move{NewMove(E8, G8, NoPiece), NewMove(E8, C8, NoPiece)},
	},
}

// rookCastleSquares maps a king's castling destination to the rook's from/to squares.
func rookCastleSquares(kingTo Square) (Square, Square, bool) {
	switch kingTo {
	case G1:
		return H1, F1, true
	case C1:
		return A1, D1, true
	case G8:
		return H8, F8, true
	case C8:
		return A8, D8, true
	}
	return NoSquare, NoSquare, false
}

// castlingMask[sq] lists the rights lost when a piece leaves or lands on sq.
var castlingMask = func() (m [64]CastlingRights) {
	m[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	m[H1] = WhiteKingSideCastle
	m[A1] = WhiteQueenSideCastle
	m[E8] = BlackKingSideCastle | BlackQueenSideCastle
	m[H8] = BlackKingSideCastle
	m[A8] = BlackQueenSideCastle
	return m
}()
