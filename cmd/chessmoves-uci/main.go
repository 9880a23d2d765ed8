package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessmoves/internal/audit"
	"github.com/hailam/chessmoves/internal/config"
	"github.com/hailam/chessmoves/internal/crosscheck"
	"github.com/hailam/chessmoves/internal/storage"
	"github.com/hailam/chessmoves/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configFile = flag.String("config", "", "YAML configuration file")
	noStore    = flag.Bool("nostore", false, "keep audit reports in memory only")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

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

	var checker *crosscheck.Checker
	if cfg.CrossCheck {
		checker = crosscheck.New(gen)
	}

	// A store that cannot be opened (another process holds the lock) only
	// disables persistence.
	var db *storage.Storage
	if !*noStore {
		if db, err = storage.Open(cfg.Store.Dir); err != nil {
			log.Printf("Warning: audit store not opened: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	protocol := uci.New(gen, audit.New(gen, checker, db))
	if err := protocol.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}
