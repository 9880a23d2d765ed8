package crosscheck

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// Reference is an independent legal-move generator. Moves are UCI strings.
type Reference interface {
	Name() string
	LegalMoves(fen string) ([]string, error)
}

// References returns every built-in reference generator.
func References() []Reference {
	return []Reference{Dragontooth{}, NotnilChess{}}
}

// Dragontooth wraps github.com/dylhunn/dragontoothmg.
type Dragontooth struct{}

func (Dragontooth) Name() string { return "dragontoothmg" }

func (Dragontooth) LegalMoves(fen string) (moves []string, err error) {
	// ParseFen and the generator panic on boards they cannot represent.
	defer func() {
		if r := recover(); r != nil {
			moves, err = nil, fmt.Errorf("dragontoothmg: %v", r)
		}
	}()
	b := dragontoothmg.ParseFen(fen)
	legal := b.GenerateLegalMoves()
	moves = make([]string, 0, len(legal))
	for i := range legal {
		moves = append(moves, legal[i].String())
	}
	return moves, nil
}

// NotnilChess wraps github.com/notnil/chess.
type NotnilChess struct{}

func (NotnilChess) Name() string { return "notnil/chess" }

func (NotnilChess) LegalMoves(fen string) (moves []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			moves, err = nil, fmt.Errorf("notnil/chess: %v", r)
		}
	}()
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("notnil/chess: %w", err)
	}
	game := chess.NewGame(opt)
	valid := game.ValidMoves()
	moves = make([]string, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, m.String())
	}
	return moves, nil
}
