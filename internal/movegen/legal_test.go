package movegen

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/hailam/chessmoves/internal/board"
)

func TestLegalMovesLeaveKingSafe(t *testing.T) {
	gen := Default()
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			us := pos.SideToMove()
			moves, err := gen.LegalMoves(pos)
			if err != nil {
				t.Fatal(err)
			}
			for _, m := range moves {
				undo, err := pos.MakeMove(m)
				if err != nil {
					t.Fatalf("MakeMove(%v): %v", m, err)
				}
				if k := pos.KingSquare[us]; k != board.NoSquare && pos.IsSquareAttacked(k, us.Other()) {
					t.Errorf("%v leaves the king on %v attacked", m, k)
				}
				pos.UnmakeMove(undo)
			}
		})
	}
}

func TestLegalMovesSubsetOfPseudoLegal(t *testing.T) {
	gen := Default()
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	pseudo := gen.PseudoLegalMoves(pos)
	legal, err := gen.LegalMoves(pos)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range legal {
		if !slices.Contains(pseudo, m) {
			t.Errorf("legal move %v is not pseudo-legal", m)
		}
	}
}

func TestLegalMovesInCheck(t *testing.T) {
	gen := Default()
	// Rook gives check along the e-file; only king moves and the block on e2 remain.
	pos := mustFEN(t, "4r2k/8/8/8/8/8/3B4/4K3 w - - 0 1")
	moves, err := gen.LegalMoves(pos)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range moves {
		got = append(got, m.String())
	}
	want := []string{"d2e3", "e1d1", "e1f1", "e1f2"}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("legal moves in check = %v, want %v", got, want)
	}
}

func TestCheckmate(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
	}{
		// Back rank mate: the g7 and h7 pawns take away the king's escape.
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true, false},
		// The king can take the unprotected rook.
		{"king captures checker", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false, false},
		{"stalemate", "7k/5Q2/8/8/8/8/8/K7 b - - 0 1", false, true},
		{"start", board.StartFEN, false, false},
	}

	gen := Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			mate, err := gen.IsCheckmate(pos)
			if err != nil {
				t.Fatal(err)
			}
			stale, err := gen.IsStalemate(pos)
			if err != nil {
				t.Fatal(err)
			}
			if mate != tc.checkmate {
				t.Errorf("IsCheckmate = %v, want %v", mate, tc.checkmate)
			}
			if stale != tc.stalemate {
				t.Errorf("IsStalemate = %v, want %v", stale, tc.stalemate)
			}
		})
	}
}

var errOracleBroken = errors.New("oracle broken")

// brokenPosition fails or panics in the legality oracle.
type brokenPosition struct {
	*board.Position
	panics bool
}

func (p brokenPosition) WouldLeaveKingAttacked(m board.Move) (bool, error) {
	if p.panics {
		panic("corrupt board")
	}
	return false, errOracleBroken
}

func TestLegalMovesWrapsOracleFailure(t *testing.T) {
	gen := Default()
	pos := brokenPosition{Position: board.NewPosition()}

	moves, err := gen.LegalMoves(pos)
	if moves != nil {
		t.Errorf("partial move list returned: %v", moves)
	}
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("error %v does not match ErrGeneration", err)
	}
	if !errors.Is(err, errOracleBroken) {
		t.Errorf("error %v lost its cause", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error %T is not a *GenerationError", err)
	}
	if genErr.FEN != board.StartFEN {
		t.Errorf("FEN = %q, want %q", genErr.FEN, board.StartFEN)
	}
}

func TestLegalMovesRecoversPanic(t *testing.T) {
	gen := Default()
	pos := brokenPosition{Position: board.NewPosition(), panics: true}

	moves, err := gen.LegalMoves(pos)
	if moves != nil {
		t.Errorf("partial move list returned: %v", moves)
	}
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("error %v does not match ErrGeneration", err)
	}
	if !strings.Contains(err.Error(), "corrupt board") {
		t.Errorf("panic value missing from %q", err)
	}
}

func TestFilterLegalRejectsMalformedMove(t *testing.T) {
	pos := board.NewPosition()
	bad := []board.Move{
		board.NewMove(board.E2, board.E4, board.NoPiece),
		board.NewMove(board.E4, board.E5, board.NoPiece), // empty source
	}
	moves, err := FilterLegal(pos, bad)
	if !errors.Is(err, board.ErrMalformedMove) {
		t.Fatalf("FilterLegal error = %v, want ErrMalformedMove", err)
	}
	if moves != nil {
		t.Errorf("partial move list returned: %v", moves)
	}
}

func BenchmarkLegalMoves(b *testing.B) {
	gen := Default()
	pos := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.LegalMoves(pos); err != nil {
			b.Fatal(err)
		}
	}
}
