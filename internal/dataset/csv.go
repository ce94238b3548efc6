package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/trustchain/risk-service/internal/types"
)

// floatColumns maps CSV headers onto record fields. Columns missing from the
// file default to 0; unknown columns are ignored.
var floatColumns = map[string]func(*types.BidderRecord) *float64{
	"total_projects":          func(r *types.BidderRecord) *float64 { return &r.TotalProjects },
	"completed_projects":      func(r *types.BidderRecord) *float64 { return &r.CompletedProjects },
	"abandoned_projects":      func(r *types.BidderRecord) *float64 { return &r.AbandonedProjects },
	"completion_rate":         func(r *types.BidderRecord) *float64 { return &r.CompletionRate },
	"average_delay_days":      func(r *types.BidderRecord) *float64 { return &r.AverageDelayDays },
	"budget_overruns_percent": func(r *types.BidderRecord) *float64 { return &r.BudgetOverrunsPct },
	"quality_score":           func(r *types.BidderRecord) *float64 { return &r.QualityScore },
	"reputation_score":        func(r *types.BidderRecord) *float64 { return &r.ReputationScore },
	"payment_disputes":        func(r *types.BidderRecord) *float64 { return &r.PaymentDisputes },
	"days_since_last_project": func(r *types.BidderRecord) *float64 { return &r.DaysSinceLastProject },
	"total_contract_value":    func(r *types.BidderRecord) *float64 { return &r.TotalContractValue },
}

// importCSV replaces the bidders table with the contents of the CSV source.
// Any unreadable file or non-numeric value fails the whole import; garbage
// never reaches the estimators.
func (s *Store) importCSV() (int, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return 0, fmt.Errorf("open dataset csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read dataset header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	if _, ok := colIndex["bidder_address"]; !ok {
		return 0, fmt.Errorf("dataset csv has no bidder_address column")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read dataset rows: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin dataset import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bidders`); err != nil {
		return 0, fmt.Errorf("clear bidders table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO bidders (bidder_address, bid_type, total_projects, completed_projects,
			abandoned_projects, completion_rate, average_delay_days, budget_overruns_percent,
			quality_score, reputation_score, payment_disputes, days_since_last_project,
			total_contract_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare bidder insert: %w", err)
	}
	defer stmt.Close()

	for rowNum, row := range records {
		rec, err := parseRow(row, colIndex)
		if err != nil {
			return 0, fmt.Errorf("dataset row %d: %w", rowNum+2, err)
		}
		if _, err := stmt.Exec(rec.BidderAddress, rec.BidType, rec.TotalProjects,
			rec.CompletedProjects, rec.AbandonedProjects, rec.CompletionRate,
			rec.AverageDelayDays, rec.BudgetOverrunsPct, rec.QualityScore,
			rec.ReputationScore, rec.PaymentDisputes, rec.DaysSinceLastProject,
			rec.TotalContractValue); err != nil {
			return 0, fmt.Errorf("insert dataset row %d: %w", rowNum+2, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit dataset import: %w", err)
	}
	return len(records), nil
}

func parseRow(row []string, colIndex map[string]int) (*types.BidderRecord, error) {
	cell := func(name string) (string, bool) {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	rec := &types.BidderRecord{}
	addr, _ := cell("bidder_address")
	if addr == "" {
		return nil, fmt.Errorf("empty bidder_address")
	}
	rec.BidderAddress = addr
	rec.BidType, _ = cell("bid_type")

	for name, field := range floatColumns {
		raw, ok := cell(name)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		*field(rec) = v
	}
	return rec, nil
}
