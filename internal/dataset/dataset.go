package dataset

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/trustchain/risk-service/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS bidders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bidder_address TEXT NOT NULL,
	bid_type TEXT NOT NULL DEFAULT '',
	total_projects REAL NOT NULL DEFAULT 0,
	completed_projects REAL NOT NULL DEFAULT 0,
	abandoned_projects REAL NOT NULL DEFAULT 0,
	completion_rate REAL NOT NULL DEFAULT 0,
	average_delay_days REAL NOT NULL DEFAULT 0,
	budget_overruns_percent REAL NOT NULL DEFAULT 0,
	quality_score REAL NOT NULL DEFAULT 0,
	reputation_score REAL NOT NULL DEFAULT 0,
	payment_disputes REAL NOT NULL DEFAULT 0,
	days_since_last_project REAL NOT NULL DEFAULT 0,
	total_contract_value REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_bidders_address ON bidders(bidder_address);
`

// Store is the sqlite-backed historical dataset. The CSV source is imported
// once, on first use, guarded so concurrent first requests cannot race to
// load twice; afterwards the store is read-only.
type Store struct {
	db      *sql.DB
	csvPath string

	loadOnce sync.Once
	loadErr  error
}

// NewStore opens (or creates) the sqlite database under dataDir and prepares
// the schema. The CSV at csvPath is not read until the first lookup.
func NewStore(dataDir, csvPath string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bidders.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open dataset database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping dataset database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dataset schema: %w", err)
	}

	return &Store{db: db, csvPath: csvPath}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureLoaded imports the CSV exactly once. An import failure is sticky:
// every caller sees the same error until the process restarts, which keeps
// scoring failing closed instead of answering from a half-loaded table.
func (s *Store) ensureLoaded() error {
	s.loadOnce.Do(func() {
		n, err := s.importCSV()
		if err != nil {
			s.loadErr = err
			return
		}
		slog.Info("historical dataset loaded", "rows", n, "source", s.csvPath)
	})
	return s.loadErr
}

// Lookup returns the first historical row for an address, or (nil, nil) when
// the address is absent.
func (s *Store) Lookup(address string) (*types.BidderRecord, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		SELECT bidder_address, bid_type, total_projects, completed_projects,
		       abandoned_projects, completion_rate, average_delay_days,
		       budget_overruns_percent, quality_score, reputation_score,
		       payment_disputes, days_since_last_project, total_contract_value
		FROM bidders WHERE bidder_address = ? ORDER BY id LIMIT 1`, address)

	var r types.BidderRecord
	err := row.Scan(&r.BidderAddress, &r.BidType, &r.TotalProjects, &r.CompletedProjects,
		&r.AbandonedProjects, &r.CompletionRate, &r.AverageDelayDays,
		&r.BudgetOverrunsPct, &r.QualityScore, &r.ReputationScore,
		&r.PaymentDisputes, &r.DaysSinceLastProject, &r.TotalContractValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup bidder %s: %w", address, err)
	}
	return &r, nil
}

// All returns every historical row in insertion order, for training and the
// bulk stats listing.
func (s *Store) All() ([]types.BidderRecord, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT bidder_address, bid_type, total_projects, completed_projects,
		       abandoned_projects, completion_rate, average_delay_days,
		       budget_overruns_percent, quality_score, reputation_score,
		       payment_disputes, days_since_last_project, total_contract_value
		FROM bidders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bidders: %w", err)
	}
	defer rows.Close()

	var records []types.BidderRecord
	for rows.Next() {
		var r types.BidderRecord
		if err := rows.Scan(&r.BidderAddress, &r.BidType, &r.TotalProjects, &r.CompletedProjects,
			&r.AbandonedProjects, &r.CompletionRate, &r.AverageDelayDays,
			&r.BudgetOverrunsPct, &r.QualityScore, &r.ReputationScore,
			&r.PaymentDisputes, &r.DaysSinceLastProject, &r.TotalContractValue); err != nil {
			return nil, fmt.Errorf("scan bidder row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of loaded historical rows.
func (s *Store) Count() (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bidders`).Scan(&n)
	return n, err
}
