package movegen

import (
	"fmt"

	"github.com/hailam/chessmoves/internal/board"
)

// MutablePosition is a Position that can play and take back moves.
type MutablePosition interface {
	Position
	MakeMove(m board.Move) (board.UndoInfo, error)
	UnmakeMove(undo board.UndoInfo)
}

// Perft counts the leaf nodes of the legal move tree at depth.
func (g *Generator) Perft(pos MutablePosition, depth int) (int64, error) {
	if depth <= 0 {
		return 1, nil
	}
	moves, err := g.LegalMoves(pos)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return int64(len(moves)), nil
	}

	var nodes int64
	for _, m := range moves {
		undo, err := pos.MakeMove(m)
		if err != nil {
			return 0, fmt.Errorf("perft: make %v: %w", m, err)
		}
		n, err := g.Perft(pos, depth-1)
		pos.UnmakeMove(undo)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes int64
}

// Divide runs Perft below each legal root move, in generation order.
func (g *Generator) Divide(pos MutablePosition, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}
	moves, err := g.LegalMoves(pos)
	if err != nil {
		return nil, err
	}
	entries := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		undo, err := pos.MakeMove(m)
		if err != nil {
			return nil, fmt.Errorf("divide: make %v: %w", m, err)
		}
		n, err := g.Perft(pos, depth-1)
		pos.UnmakeMove(undo)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DivideEntry{Move: m, Nodes: n})
	}
	return entries, nil
}
