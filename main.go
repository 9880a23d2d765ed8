// chessmoves - move generation and integrity audits for chess positions
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/hailam/chessmoves/internal/audit"
	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/config"
	"github.com/hailam/chessmoves/internal/crosscheck"
	"github.com/hailam/chessmoves/internal/movegen"
	"github.com/hailam/chessmoves/internal/storage"
	"github.com/hailam/chessmoves/internal/uci"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to examine")
	pgnFile    = flag.String("pgn", "", "audit every position of the first game in this PGN file")
	configFile = flag.String("config", "", "YAML configuration file")
	depth      = flag.Int("depth", 0, "run perft to this depth")
	divide     = flag.Bool("divide", false, "print per-move node counts with -depth")
	crossCheck = flag.Int("crosscheck", -1, "compare legal moves with the reference generators down to this depth")
	store      = flag.Bool("store", false, "save the integrity report to the audit database")
	shell      = flag.Bool("uci", false, "read commands from stdin")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Apply()

	gen, err := cfg.Generator()
	if err != nil {
		log.Fatal(err)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	var checker *crosscheck.Checker
	if cfg.CrossCheck || *crossCheck >= 0 {
		checker = crosscheck.New(gen)
	}

	var db *storage.Storage
	if *store || cfg.Store.Dir != "" {
		if db, err = storage.Open(cfg.Store.Dir); err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}
	auditor := audit.New(gen, checker, db)

	if *shell {
		if err := uci.New(gen, auditor).Run(os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *pgnFile != "" {
		if err := auditGame(auditor, *pgnFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}
	// Variant setups without kings are still examined.
	if err := pos.Validate(); err != nil {
		log.Printf("Warning: %v", err)
	}

	if err := report(gen, auditor, pos); err != nil {
		log.Fatal(err)
	}
	if *depth > 0 {
		if err := perft(gen, pos); err != nil {
			log.Fatal(err)
		}
	}
	if *crossCheck >= 0 {
		if err := walk(checker, pos.ToFEN()); err != nil {
			log.Fatal(err)
		}
	}
}

func report(gen *movegen.Generator, auditor *audit.Auditor, pos *board.Position) error {
	r, err := auditor.Run(pos)
	if err != nil {
		return err
	}

	fmt.Println(pos)
	fmt.Printf("legal %d: %s\n", len(r.LegalMoves), strings.Join(r.LegalMoves, " "))
	for _, p := range r.Pieces {
		fmt.Println(p)
	}
	fmt.Printf("strange total %d\n", r.StrangeTotal())
	for _, line := range r.Mismatches {
		fmt.Println(line)
	}

	if mate, err := gen.IsCheckmate(pos); err != nil {
		return err
	} else if mate {
		fmt.Println("Checkmate")
	}
	return nil
}

func auditGame(auditor *audit.Auditor, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	reports, err := auditor.RunGame(f)
	for i, r := range reports {
		fmt.Printf("%3d %016x legal %2d strange %d mismatches %d %s\n",
			i, r.Key, len(r.LegalMoves), r.StrangeTotal(), len(r.Mismatches), r.FEN)
	}
	return err
}

func perft(gen *movegen.Generator, pos *board.Position) error {
	if !*divide {
		nodes, err := gen.Perft(pos, *depth)
		if err != nil {
			return err
		}
		fmt.Printf("perft(%d) = %d\n", *depth, nodes)
		return nil
	}

	entries, err := gen.Divide(pos, *depth)
	if err != nil {
		return err
	}
	var total int64
	for _, e := range entries {
		fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	fmt.Printf("perft(%d) = %d\n", *depth, total)
	return nil
}

func walk(checker *crosscheck.Checker, fen string) error {
	bad, err := checker.Walk(fen, *crossCheck, 10)
	if err != nil {
		return err
	}
	if len(bad) == 0 {
		log.Printf("crosscheck: all positions agree to depth %d", *crossCheck)
		return nil
	}
	for _, r := range bad {
		fmt.Println(r.FEN)
		for _, line := range r.Mismatches() {
			fmt.Println("  " + line)
		}
	}
	return fmt.Errorf("crosscheck: %d positions disagree", len(bad))
}
