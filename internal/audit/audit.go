// Package audit builds integrity audit reports for positions.
package audit

import (
	"time"

	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/crosscheck"
	"github.com/hailam/chessmoves/internal/movegen"
	"github.com/hailam/chessmoves/internal/storage"
)

// Auditor produces reports and, when given a store, keeps them.
type Auditor struct {
	gen     *movegen.Generator
	checker *crosscheck.Checker // nil skips cross-checking
	store   *storage.Storage    // nil keeps reports in memory only
}

// New returns an auditor. checker and store may be nil.
func New(gen *movegen.Generator, checker *crosscheck.Checker, store *storage.Storage) *Auditor {
	return &Auditor{gen: gen, checker: checker, store: store}
}

// Report audits every piece of the side to move, lists the legal moves and,
// with a checker, records where the references disagree.
func (a *Auditor) Report(pos *board.Position) (*storage.Report, error) {
	side := pos.SideToMove()
	pieces, err := a.gen.AllPiecesIntegrity(pos, side)
	if err != nil {
		return nil, err
	}
	legal, err := a.gen.LegalMoves(pos)
	if err != nil {
		return nil, err
	}

	r := &storage.Report{
		Key:        pos.Key(),
		FEN:        pos.ToFEN(),
		Side:       side.String(),
		Pieces:     pieces,
		LegalMoves: make([]string, 0, len(legal)),
		CreatedAt:  time.Now(),
	}
	for _, m := range legal {
		r.LegalMoves = append(r.LegalMoves, m.String())
	}

	if a.checker != nil {
		res, err := a.checker.Compare(r.FEN)
		if err != nil {
			return nil, err
		}
		r.Mismatches = res.Mismatches()
	}
	return r, nil
}

// Run builds the report and saves it when a store is configured.
func (a *Auditor) Run(pos *board.Position) (*storage.Report, error) {
	r, err := a.Report(pos)
	if err != nil {
		return nil, err
	}
	if a.store != nil {
		if err := a.store.SaveReport(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Store returns the configured store, or nil.
func (a *Auditor) Store() *storage.Storage {
	return a.store
}
