package audit

import (
	"fmt"
	"io"

	"github.com/notnil/chess"

	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/storage"
)

// GameFENs reads the first game of a PGN stream and returns the FEN of every
// position in it, the starting position included.
func GameFENs(r io.Reader) ([]string, error) {
	opt, err := chess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("pgn: %w", err)
	}
	game := chess.NewGame(opt)
	positions := game.Positions()
	fens := make([]string, 0, len(positions))
	for _, p := range positions {
		fens = append(fens, p.String())
	}
	return fens, nil
}

// RunGame audits every position of the game read from r.
func (a *Auditor) RunGame(r io.Reader) ([]*storage.Report, error) {
	fens, err := GameFENs(r)
	if err != nil {
		return nil, err
	}
	reports := make([]*storage.Report, 0, len(fens))
	for i, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			return reports, fmt.Errorf("ply %d: %w", i, err)
		}
		rep, err := a.Run(pos)
		if err != nil {
			return reports, fmt.Errorf("ply %d: %w", i, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
