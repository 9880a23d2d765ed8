package movegen

import (
	"slices"
	"testing"

	"github.com/hailam/chessmoves/internal/board"
)

var testFENs = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbqkb1r/pp1p1ppp/5n2/2pPp3/8/8/PPP1PPPP/RNBQKBNR w KQkq e6 0 4",
	"rnb2bnr/8/8/8/8/8/8/RNB2BNR w - - 1 11",
}

func TestPseudoLegalMovesNeverTargetOwnPieces(t *testing.T) {
	gen := Default()
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			own := pos.SideBitboard(pos.SideToMove())
			for _, m := range gen.PseudoLegalMoves(pos) {
				if own.IsSet(m.To()) {
					t.Errorf("%v lands on own piece %s", m, pos.PieceAt(m.To()))
				}
			}
		})
	}
}

func TestGeneratorsAreIdempotent(t *testing.T) {
	gen := Default()
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			if a, b := gen.PseudoLegalMoves(pos), gen.PseudoLegalMoves(pos); !slices.Equal(a, b) {
				t.Errorf("PseudoLegalMoves differs between calls:\n%v\n%v", a, b)
			}
			if a, b := gen.PseudoLegalCaptures(pos), gen.PseudoLegalCaptures(pos); !slices.Equal(a, b) {
				t.Errorf("PseudoLegalCaptures differs between calls:\n%v\n%v", a, b)
			}
			a, errA := gen.LegalMoves(pos)
			b, errB := gen.LegalMoves(pos)
			if errA != nil || errB != nil {
				t.Fatalf("LegalMoves: %v, %v", errA, errB)
			}
			if !slices.Equal(a, b) {
				t.Errorf("LegalMoves differs between calls:\n%v\n%v", a, b)
			}
		})
	}
}

func TestPseudoLegalMovesOrder(t *testing.T) {
	moves := Default().PseudoLegalMoves(board.NewPosition())
	if len(moves) != 20 {
		t.Fatalf("got %d moves from the start position, want 20", len(moves))
	}
	want := map[int]string{0: "a2a3", 1: "a2a4", 15: "h2h4", 16: "b1a3", 17: "b1c3", 18: "g1f3", 19: "g1h3"}
	for i, s := range want {
		if got := moves[i].String(); got != s {
			t.Errorf("moves[%d] = %s, want %s", i, got, s)
		}
	}
}

func TestPseudoLegalCaptures(t *testing.T) {
	gen := Default()

	if caps := gen.PseudoLegalCaptures(board.NewPosition()); len(caps) != 0 {
		t.Errorf("start position has captures: %v", caps)
	}

	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			enemies := pos.SideBitboard(pos.SideToMove().Other())
			for _, m := range gen.PseudoLegalCaptures(pos) {
				if !enemies.IsSet(m.To()) && m.To() != pos.EnPassantTarget() {
					t.Errorf("%v is not a capture", m)
				}
			}
		})
	}

	pos := mustFEN(t, "rnbqkb1r/pp1p1ppp/5n2/2pPp3/8/8/PPP1PPPP/RNBQKBNR w KQkq e6 0 4")
	caps := gen.PseudoLegalCaptures(pos)
	if !slices.Contains(caps, board.NewMove(board.D5, board.E6, board.NoPiece)) {
		t.Errorf("en passant d5e6 missing from captures %v", caps)
	}
	if slices.Contains(caps, board.NewMove(board.D5, board.C6, board.NoPiece)) {
		t.Errorf("d5c6 offered onto an empty square")
	}
}

func TestPromotionExpansion(t *testing.T) {
	tests := []struct {
		name   string
		side   board.Color
		from   board.Square
		to     board.Square
		pieces []board.Piece
	}{
		{"white reaches eighth", board.White, board.A7, board.A8,
			[]board.Piece{board.WhiteQueen, board.WhiteRook, board.WhiteBishop, board.WhiteKnight}},
		{"black reaches first", board.Black, board.H2, board.G1,
			[]board.Piece{board.BlackQueen, board.BlackRook, board.BlackBishop, board.BlackKnight}},
		{"white push", board.White, board.E2, board.E4, []board.Piece{board.NoPiece}},
		{"black on seventh is not last", board.Black, board.B3, board.B2, []board.Piece{board.NoPiece}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			moves := PromotionMoves(tc.side, tc.from, tc.to)
			if len(moves) != len(tc.pieces) {
				t.Fatalf("got %d moves, want %d: %v", len(moves), len(tc.pieces), moves)
			}
			for i, m := range moves {
				if m.From() != tc.from || m.To() != tc.to || m.Promotion() != tc.pieces[i] {
					t.Errorf("moves[%d] = %v, want %v->%v promoting to %v", i, m, tc.from, tc.to, tc.pieces[i])
				}
			}
		})
	}
}

func TestPawnPromotionGeneration(t *testing.T) {
	gen := Default()
	pos := mustFEN(t, "1n6/P7/8/8/8/8/8/k6K w - - 0 1")

	pushes := gen.PawnPushes(pos)
	if len(pushes) != 4 {
		t.Errorf("a7a8 expanded to %d moves, want 4: %v", len(pushes), pushes)
	}
	captures := gen.PawnCaptures(pos)
	if len(captures) != 4 {
		t.Errorf("a7xb8 expanded to %d moves, want 4: %v", len(captures), captures)
	}
	for _, m := range append(pushes, captures...) {
		if !m.IsPromotion() {
			t.Errorf("%v reaches the eighth rank without promoting", m)
		}
	}

	for _, m := range gen.PawnPushes(board.NewPosition()) {
		if m.IsPromotion() {
			t.Errorf("%v promotes from the start position", m)
		}
	}
}

func TestCastleMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"start position is blocked", board.StartFEN, nil},
		{"king side corridor empty", "4k3/8/8/8/8/8/8/4K2R w K - 0 1", []string{"e1g1"}},
		{"right missing", "4k3/8/8/8/8/8/8/4K2R w Q - 0 1", nil},
		{"king in check", "4k3/8/8/8/8/8/4r3/4K2R w K - 0 1", nil},
		{"transit square attacked", "4kr2/8/8/8/8/8/8/4K2R w K - 0 1", nil},
		{"destination attacked", "4k1r1/8/8/8/8/8/8/4K2R w K - 0 1", nil},
		{"rook attacked does not matter", "4k2r/8/8/8/8/8/8/4K2R w K - 0 1", []string{"e1g1"}},
		{"b1 attacked does not stop queen side", "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1", []string{"e1c1"}},
		{"queen side corridor blocked on b1", "4k3/8/8/8/8/8/8/RN2K3 w Q - 0 1", nil},
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1g1", "e1c1"}},
		{"black both sides", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", []string{"e8g8", "e8c8"}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []string{"e1g1", "e1c1"}},
		{"king off its square", "4k3/8/8/8/8/8/8/5K1R w K - 0 1", nil},
	}

	gen := Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, m := range gen.CastleMoves(mustFEN(t, tc.fen)) {
				got = append(got, m.String())
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("CastleMoves = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPieceMaximaOnEmptyBoard(t *testing.T) {
	gen := Default()
	for _, pt := range []board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		t.Run(pt.String(), func(t *testing.T) {
			best := 0
			for sq := board.A1; sq <= board.H8; sq++ {
				pos := board.NewEmptyPosition()
				pos.SetPiece(sq, board.NewPiece(pt, board.White))
				n := len(gen.MovesForPiece(pos, sq, board.White, pt))
				if n > DefaultBaselines[pt] {
					t.Errorf("%v on %v has %d moves, more than %d", pt, sq, n, DefaultBaselines[pt])
				}
				best = max(best, n)
			}
			if best != DefaultBaselines[pt] {
				t.Errorf("best square for %v gives %d moves, want %d", pt, best, DefaultBaselines[pt])
			}
		})
	}
}

func TestPieceMovesWithMask(t *testing.T) {
	gen := Default()
	pos := board.NewPosition()

	if moves := gen.PieceMoves(pos, board.Knight, board.Empty); len(moves) != 0 {
		t.Errorf("zero mask produced %v", moves)
	}
	if moves := gen.PieceMoves(pos, board.Knight, DefaultMask(pos)); len(moves) != 4 {
		t.Errorf("knights have %d moves, want 4", len(moves))
	}
	// Only single pushes land on the third rank.
	rank3 := board.Rank1 << 16
	if moves := gen.PieceMoves(pos, board.Pawn, rank3); len(moves) != 8 {
		t.Errorf("pawn moves onto the third rank = %d, want 8", len(moves))
	}
	if moves := gen.PieceMoves(pos, board.NoPieceType, board.Universe); moves != nil {
		t.Errorf("NoPieceType produced %v", moves)
	}
}

func TestMovesForPiece(t *testing.T) {
	gen := Default()
	pos := board.NewPosition()

	tests := []struct {
		name string
		sq   board.Square
		side board.Color
		pt   board.PieceType
		want []string
	}{
		{"white knight", board.G1, board.White, board.Knight, []string{"g1f3", "g1h3"}},
		{"black knight while white moves", board.B8, board.Black, board.Knight, []string{"b8a6", "b8c6"}},
		{"pawn double push", board.E2, board.White, board.Pawn, []string{"e2e3", "e2e4"}},
		{"boxed in rook", board.A1, board.White, board.Rook, nil},
		{"wrong type on square", board.G1, board.White, board.Bishop, nil},
		{"wrong side on square", board.G1, board.Black, board.Knight, nil},
		{"empty square", board.E4, board.White, board.Pawn, nil},
		{"off the board", board.NoSquare, board.White, board.Pawn, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, m := range gen.MovesForPiece(pos, tc.sq, tc.side, tc.pt) {
				got = append(got, m.String())
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("MovesForPiece = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMovesForPieceEnPassantOnlyForSideToMove(t *testing.T) {
	gen := Default()
	pos := mustFEN(t, "rnbqkb1r/pp1p1ppp/5n2/2pPp3/8/8/PPP1PPPP/RNBQKBNR w KQkq e6 0 4")
	ep := board.NewMove(board.D5, board.E6, board.NoPiece)

	if moves := gen.MovesForPiece(pos, board.D5, board.White, board.Pawn); !slices.Contains(moves, ep) {
		t.Errorf("d5 pawn moves %v lack en passant", moves)
	}

	pos.Turn = board.Black
	if moves := gen.MovesForPiece(pos, board.D5, board.White, board.Pawn); slices.Contains(moves, ep) {
		t.Errorf("en passant offered to the side not on move: %v", moves)
	}
}

func TestDispatchTableComplete(t *testing.T) {
	for _, pt := range board.PieceTypes {
		if pieceMoveFuncs[pt] == nil {
			t.Errorf("no move function for %v", pt)
		}
	}
}

func TestPawnPlacements(t *testing.T) {
	gen := Default()
	pos := mustFEN(t, "rnb2bnr/8/8/8/8/8/8/RNB2BNR w - - 1 11")
	before := pos.ToFEN()

	placements := gen.PawnPlacements(pos, board.White)
	if len(placements) != 48 {
		t.Fatalf("got %d placements, want 48", len(placements))
	}
	if pos.ToFEN() != before {
		t.Errorf("PawnPlacements modified the position: %s", pos.ToFEN())
	}

	want := map[board.Square]int{
		board.A2: 2, // a3, a4
		board.A3: 1,
		board.A7: 4, // xb8 with four promotions; a8 is occupied
		board.D7: 8, // d8 push and xc8 capture, four promotions each
	}
	for _, p := range placements {
		if p.Piece != board.WhitePawn {
			t.Errorf("placement on %v holds %v", p.Square, p.Piece)
		}
		if p.Square.Rank() == 0 || p.Square.Rank() == 7 {
			t.Errorf("placement on back rank %v", p.Square)
		}
		if n, ok := want[p.Square]; ok && len(p.Moves) != n {
			t.Errorf("pawn on %v has %d moves, want %d: %v", p.Square, len(p.Moves), n, p.Moves)
		}
	}
}

func BenchmarkPseudoLegalMoves(b *testing.B) {
	gen := Default()
	pos := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.PseudoLegalMoves(pos)
	}
}
