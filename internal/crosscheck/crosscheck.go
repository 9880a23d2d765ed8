// Package crosscheck compares the legal moves produced by movegen with those of
// independent move generators.
package crosscheck

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/movegen"
)

// Diff is the disagreement with one reference on one position.
type Diff struct {
	FEN       string
	Reference string
	Missing   []string // produced by the reference only
	Extra     []string // produced by movegen only
	Err       error    // the reference failed outright
}

// Empty reports whether the reference agreed.
func (d Diff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && d.Err == nil
}

// Lines renders the diff one problem per line, "reference: move missing".
func (d Diff) Lines() []string {
	var lines []string
	if d.Err != nil {
		lines = append(lines, fmt.Sprintf("%s: error: %v", d.Reference, d.Err))
	}
	for _, m := range d.Missing {
		lines = append(lines, fmt.Sprintf("%s: %s missing", d.Reference, m))
	}
	for _, m := range d.Extra {
		lines = append(lines, fmt.Sprintf("%s: %s extra", d.Reference, m))
	}
	return lines
}

// Result is one position checked against every reference.
type Result struct {
	FEN   string
	Moves []string // movegen's legal moves, sorted
	Diffs []Diff   // non-empty diffs only
}

// Agree reports whether no reference disagreed.
func (r *Result) Agree() bool {
	return len(r.Diffs) == 0
}

// Mismatches flattens every diff into lines.
func (r *Result) Mismatches() []string {
	var lines []string
	for _, d := range r.Diffs {
		lines = append(lines, d.Lines()...)
	}
	return lines
}

// Checker runs a generator against a set of references.
type Checker struct {
	gen  *movegen.Generator
	refs []Reference
}

// New returns a checker. With no references given it uses References().
func New(gen *movegen.Generator, refs ...Reference) *Checker {
	if len(refs) == 0 {
		refs = References()
	}
	return &Checker{gen: gen, refs: refs}
}

// Compare checks fen with the default generator against every built-in reference.
func Compare(fen string) (*Result, error) {
	return New(movegen.Default()).Compare(fen)
}

// Compare checks one position. An error means fen could not be parsed or
// movegen itself failed; reference failures are reported as diffs.
func (c *Checker) Compare(fen string) (*Result, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return c.comparePosition(pos)
}

func (c *Checker) comparePosition(pos *board.Position) (*Result, error) {
	legal, err := c.gen.LegalMoves(pos)
	if err != nil {
		return nil, err
	}

	fen := pos.ToFEN()
	ours := make(map[string]struct{}, len(legal))
	for _, m := range legal {
		ours[m.String()] = struct{}{}
	}
	res := &Result{FEN: fen, Moves: sortedKeys(ours)}

	for _, ref := range c.refs {
		d := Diff{FEN: fen, Reference: ref.Name()}
		theirs, err := ref.LegalMoves(fen)
		if err != nil {
			d.Err = err
			res.Diffs = append(res.Diffs, d)
			continue
		}
		theirSet := make(map[string]struct{}, len(theirs))
		for _, m := range theirs {
			theirSet[m] = struct{}{}
			if _, ok := ours[m]; !ok {
				d.Missing = append(d.Missing, m)
			}
		}
		for _, m := range res.Moves {
			if _, ok := theirSet[m]; !ok {
				d.Extra = append(d.Extra, m)
			}
		}
		slices.Sort(d.Missing)
		d.Missing = slices.Compact(d.Missing)
		if !d.Empty() {
			res.Diffs = append(res.Diffs, d)
		}
	}
	return res, nil
}

// Walk compares every position reachable from fen within depth plies and
// returns the results that disagreed, stopping once limit of them are found
// (limit <= 0 means no limit).
func (c *Checker) Walk(fen string, depth, limit int) ([]*Result, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	var bad []*Result
	err = c.walk(pos, depth, limit, &bad)
	return bad, err
}

func (c *Checker) walk(pos *board.Position, depth, limit int, bad *[]*Result) error {
	if limit > 0 && len(*bad) >= limit {
		return nil
	}
	res, err := c.comparePosition(pos)
	if err != nil {
		return err
	}
	if !res.Agree() {
		*bad = append(*bad, res)
	}
	if depth <= 0 {
		return nil
	}

	legal, err := c.gen.LegalMoves(pos)
	if err != nil {
		return err
	}
	for _, m := range legal {
		undo, err := pos.MakeMove(m)
		if err != nil {
			return fmt.Errorf("walk: make %v: %w", m, err)
		}
		err = c.walk(pos, depth-1, limit, bad)
		pos.UnmakeMove(undo)
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := maps.Keys(set)
	slices.Sort(keys)
	return keys
}
