package movegen

import (
	"testing"

	"github.com/hailam/chessmoves/internal/board"
)

func mustFEN(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

func runPerft(t *testing.T, fen string, tests []struct {
	depth    int
	expected int64
}) {
	t.Helper()
	gen := Default()
	pos := mustFEN(t, fen)
	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got, err := gen.Perft(pos, tc.depth)
			if err != nil {
				t.Fatalf("perft(%d): %v", tc.depth, err)
			}
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
	if want := mustFEN(t, fen).ToFEN(); pos.ToFEN() != want {
		t.Errorf("position not restored after perft: got %s, want %s", pos.ToFEN(), want)
	}
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, board.StartFEN, []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// Depth 5 takes longer, enable for thorough testing:
		// {5, 4865609},
	})
}

// TestPerftKiwipete tests the Kiwipete position: castling both ways, pins,
// en passant and promotions all show up within three plies.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// {4, 4085603}, // Takes a few seconds, enable for thorough testing
	})
}

// TestPerftPosition3 tests en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		// {5, 674624}, // Enable for thorough testing
	})
}

// TestPerftPromotions covers underpromotion and castling-rights loss by capture.
func TestPerftPromotions(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
	})
}

// TestPerftEnPassantPin: the black pawn on e4 may not take d3 en passant,
// since that would open the fourth rank between the rook on h4 and the king on a4.
func TestPerftEnPassantPin(t *testing.T) {
	pos := mustFEN(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")

	moves, err := Default().LegalMoves(pos)
	if err != nil {
		t.Fatal(err)
	}
	ep := board.NewMove(board.E4, board.D3, board.NoPiece)
	for _, m := range moves {
		if m == ep {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}

	// Depth 1: Ka3, Ka5, Kb3, Kb4, Kb5, e3 = 6 moves
	// Depth 2: After e4e3 (14), after king moves (16 each x5) = 14 + 80 = 94
	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	})
}

func TestDivideSumsToPerft(t *testing.T) {
	gen := Default()
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")

	entries, err := gen.Divide(pos, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 48 {
		t.Fatalf("Divide returned %d root moves, want 48", len(entries))
	}
	var total int64
	for _, e := range entries {
		total += e.Nodes
	}
	if total != 2039 {
		t.Errorf("Divide total = %d, want 2039", total)
	}
}

func BenchmarkPerft3(b *testing.B) {
	gen := Default()
	pos := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.Perft(pos, 3); err != nil {
			b.Fatal(err)
		}
	}
}
