// Package uci implements a line-oriented query shell over the move generator.
// It speaks the position-setup subset of the Universal Chess Interface and adds
// commands for listing, auditing and counting moves.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessmoves/internal/audit"
	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/movegen"
)

// UCI is the shell state: the current position and where output goes.
type UCI struct {
	gen      *movegen.Generator
	auditor  *audit.Auditor
	position *board.Position

	out    io.Writer
	errOut io.Writer

	// CPU profiling
	profileFile *os.File
}

// New creates a shell writing to stdout and stderr. auditor may be nil, which
// disables the audit command.
func New(gen *movegen.Generator, auditor *audit.Auditor) *UCI {
	return &UCI{
		gen:      gen,
		auditor:  auditor,
		position: board.NewPosition(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// SetOutput redirects normal and diagnostic output.
func (u *UCI) SetOutput(out, errOut io.Writer) {
	u.out, u.errOut = out, errOut
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

func (u *UCI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

func (u *UCI) info(format string, a ...any) {
	fmt.Fprintf(u.errOut, "info string "+format+"\n", a...)
}

// Run reads commands from r until "quit" or end of input.
func (u *UCI) Run(r io.Reader) error {
	defer u.stopProfile()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.position = board.NewPosition()
		case "position":
			if board.DebugMoveValidation {
				u.info("DEBUG: position %s", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			return nil
		case "d":
			u.handleDisplay()
		case "go":
			if len(args) > 0 && args[0] == "perft" {
				u.handlePerft(args[1:])
			} else {
				u.info("only 'go perft <depth>' is supported")
			}
		case "perft":
			u.handlePerft(args)
		case "divide":
			u.handleDivide(args)
		case "moves":
			u.printMoves(u.gen.PseudoLegalMoves(u.position))
		case "captures":
			u.printMoves(u.gen.PseudoLegalCaptures(u.position))
		case "legal":
			moves, err := u.gen.LegalMoves(u.position)
			if err != nil {
				u.info("%v", err)
				continue
			}
			u.printMoves(moves)
		case "integrity":
			u.handleIntegrity(args)
		case "placements":
			u.handlePlacements()
		case "audit":
			u.handleAudit(args)
		default:
			u.info("Unknown command: %s", cmd)
		}
	}
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chessmoves")
	u.println("id author chessmoves authors")
	u.println()
	u.println("option name Debug type check default false")
	u.println("option name DebugIntegrity type check default false")
	u.println("option name CPUProfile type string default <empty>")
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.info("Invalid FEN: %v", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, err := u.parseMove(pos, moveStr)
			if err != nil {
				u.info("Invalid move: %s: %v", moveStr, err)
				return
			}
			if _, err := pos.MakeMove(move); err != nil {
				u.info("Invalid move: %s: %v", moveStr, err)
				return
			}
		}
	}
	u.position = pos

	if board.DebugMoveValidation {
		u.info("DEBUG: After position setup - key=%016x inCheck=%v", pos.Key(), pos.IsKingAttacked())
	}
}

// parseMove converts a UCI move string to one of the legal moves of pos.
func (u *UCI) parseMove(pos *board.Position, moveStr string) (board.Move, error) {
	m, err := board.ParseMove(moveStr, pos.SideToMove())
	if err != nil {
		return board.NoMove, err
	}
	legal, err := u.gen.LegalMoves(pos)
	if err != nil {
		return board.NoMove, err
	}
	for _, l := range legal {
		if l == m {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("not legal in %s", pos.ToFEN())
}

func (u *UCI) handleDisplay() {
	u.println(u.position.String())
	mate, err := u.gen.IsCheckmate(u.position)
	if err != nil {
		u.info("%v", err)
		return
	}
	stale, err := u.gen.IsStalemate(u.position)
	if err != nil {
		u.info("%v", err)
		return
	}
	switch {
	case mate:
		u.println("Checkmate")
	case stale:
		u.println("Stalemate")
	case u.position.IsKingAttacked():
		u.println("Check")
	}
}

func (u *UCI) printMoves(moves []board.Move) {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	u.printf("%d: %s\n", len(moves), strings.Join(strs, " "))
}

func parseDepth(args []string, def int) int {
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			return d
		}
	}
	return def
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := parseDepth(args, 5)

	start := time.Now()
	nodes, err := u.gen.Perft(u.position, depth)
	elapsed := time.Since(start)
	if err != nil {
		u.info("%v", err)
		return
	}

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

func (u *UCI) handleDivide(args []string) {
	entries, err := u.gen.Divide(u.position, parseDepth(args, 1))
	if err != nil {
		u.info("%v", err)
		return
	}
	var total int64
	for _, e := range entries {
		u.printf("%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	u.printf("Nodes: %d\n", total)
}

// handleIntegrity prints the integrity of every piece of the side to move,
// or of the single piece on the given square.
func (u *UCI) handleIntegrity(args []string) {
	only := board.NoSquare
	if len(args) > 0 {
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			u.info("%v", err)
			return
		}
		only = sq
	}

	results, err := u.gen.AllPiecesIntegrity(u.position, u.position.SideToMove())
	if err != nil {
		u.info("%v", err)
		return
	}
	for _, r := range results {
		if only != board.NoSquare && r.Square != only {
			continue
		}
		u.println(r.String())
	}
}

func (u *UCI) handlePlacements() {
	for _, p := range u.gen.PawnPlacements(u.position, u.position.SideToMove()) {
		u.printf("%s: %d\n", p.Square, len(p.Moves))
	}
}

// handleAudit runs and stores an audit of the current position.
//   - audit
//   - audit list [anomalous]
//   - audit stats
func (u *UCI) handleAudit(args []string) {
	if u.auditor == nil {
		u.info("audit disabled")
		return
	}
	if len(args) == 0 {
		r, err := u.auditor.Run(u.position)
		if err != nil {
			u.info("%v", err)
			return
		}
		u.printf("key %016x strange %d legal %d mismatches %d\n",
			r.Key, r.StrangeTotal(), len(r.LegalMoves), len(r.Mismatches))
		for _, line := range r.Mismatches {
			u.println(line)
		}
		return
	}

	store := u.auditor.Store()
	if store == nil {
		u.info("no audit store")
		return
	}
	switch args[0] {
	case "list":
		reports, err := store.ListReports(len(args) > 1 && args[1] == "anomalous")
		if err != nil {
			u.info("%v", err)
			return
		}
		for _, r := range reports {
			u.printf("%016x strange %d mismatches %d %s\n", r.Key, r.StrangeTotal(), len(r.Mismatches), r.FEN)
		}
	case "stats":
		stats, err := store.LoadStats()
		if err != nil {
			u.info("%v", err)
			return
		}
		u.printf("reports %d anomalous %d (%.1f%%)\n", stats.Reports, stats.Anomalous, stats.AnomalyRate())
	default:
		u.info("Unknown audit command: %s", args[0])
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "debug":
		board.DebugMoveValidation = strings.ToLower(value) == "true"
		if board.DebugMoveValidation {
			u.info("Debug mode enabled")
		}
	case "debugintegrity":
		movegen.DebugIntegrity = strings.ToLower(value) == "true"
	case "cpuprofile":
		u.stopProfile()
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.info("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.info("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.info("CPU profiling to %s", value)
		}
	default:
		u.info("Unknown option: %s", name)
	}
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	u.info("CPU profile saved")
}
