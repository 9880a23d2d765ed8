package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessmoves/internal/movegen"
)

// Storage keys
const (
	reportPrefix = "report/"
	keyStats     = "stats"
)

// ErrReportNotFound is returned by LoadReport for an unknown position.
var ErrReportNotFound = errors.New("report not found")

// Report is the integrity audit of one position.
type Report struct {
	Key        uint64                    `json:"key"`
	FEN        string                    `json:"fen"`
	Side       string                    `json:"side"`
	Pieces     []movegen.IntegrityResult `json:"pieces"`
	LegalMoves []string                  `json:"legal_moves"`
	// Mismatches lists cross-check disagreements, "reference: move missing|extra".
	Mismatches []string  `json:"mismatches,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StrangeTotal sums StrangeIntegrity over all pieces.
func (r *Report) StrangeTotal() int {
	total := 0
	for _, p := range r.Pieces {
		total += p.StrangeIntegrity
	}
	return total
}

// Anomalous reports whether the audit found anything worth a second look.
func (r *Report) Anomalous() bool {
	return r.StrangeTotal() > 0 || len(r.Mismatches) > 0
}

// AuditStats are running totals over every saved report.
type AuditStats struct {
	Reports   int       `json:"reports"`
	Anomalous int       `json:"anomalous"`
	LastSaved time.Time `json:"last_saved"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (creating if needed) the database in dir. An empty dir uses
// GetDatabaseDir.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open audit store '%s': %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func reportKey(key uint64) []byte {
	k := make([]byte, len(reportPrefix)+8)
	copy(k, reportPrefix)
	binary.BigEndian.PutUint64(k[len(reportPrefix):], key)
	return k
}

// SaveReport stores r under r.Key, replacing an older report for the same
// position, and updates the running stats in the same transaction.
func (s *Storage) SaveReport(r *Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}

		old, err := getReport(txn, r.Key)
		switch {
		case errors.Is(err, ErrReportNotFound):
			stats.Reports++
		case err != nil:
			return err
		case old.Anomalous():
			stats.Anomalous--
		}
		if r.Anomalous() {
			stats.Anomalous++
		}
		stats.LastSaved = r.CreatedAt

		if err := txn.Set(reportKey(r.Key), data); err != nil {
			return err
		}
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// LoadReport returns the report saved for the position with the given Zobrist key.
func (s *Storage) LoadReport(key uint64) (*Report, error) {
	var r *Report
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		r, err = getReport(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func getReport(txn *badger.Txn, key uint64) (*Report, error) {
	item, err := txn.Get(reportKey(key))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: %016x", ErrReportNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	r := &Report{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, r)
	})
	return r, err
}

// ListReports returns every report in key order. With anomalousOnly set, clean
// reports are skipped.
func (s *Storage) ListReports(anomalousOnly bool) ([]*Report, error) {
	var reports []*Report
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			r := &Report{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, r)
			}); err != nil {
				return err
			}
			if anomalousOnly && !r.Anomalous() {
				continue
			}
			reports = append(reports, r)
		}
		return nil
	})
	return reports, err
}

// DeleteReport removes the report for key. Deleting a missing report is not an error.
func (s *Storage) DeleteReport(key uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		old, err := getReport(txn, key)
		if errors.Is(err, ErrReportNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.Reports--
		if old.Anomalous() {
			stats.Anomalous--
		}
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyStats), statsData); err != nil {
			return err
		}
		return txn.Delete(reportKey(key))
	})
}

// LoadStats loads the audit totals, returns empty stats if none were saved.
func (s *Storage) LoadStats() (*AuditStats, error) {
	var stats *AuditStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*AuditStats, error) {
	stats := &AuditStats{}
	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

// AnomalyRate returns the share of anomalous reports as a percentage (0-100)
func (s *AuditStats) AnomalyRate() float64 {
	if s.Reports == 0 {
		return 0
	}
	return float64(s.Anomalous) / float64(s.Reports) * 100
}
