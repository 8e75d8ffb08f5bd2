package fxsource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/tellimer/econify/domain"
)

// PostgresFallbackSource is the durable fallback FX source (§4.10's "SNP"
// default source id), backed by prepared statements against a rates table,
// grounded in the teacher's PostgresMetadataResolver
// (src/mapping/metadata_resolver_postgres.go).
type PostgresFallbackSource struct {
	db      *sql.DB
	timeout time.Duration

	latestRatesStmt *sql.Stmt
}

// NewPostgresFallbackSource prepares the statements used to answer
// FetchRates from a `fx_rates(base, code, rate, as_of)` table.
func NewPostgresFallbackSource(db *sql.DB, timeout time.Duration) (*PostgresFallbackSource, error) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &PostgresFallbackSource{db: db, timeout: timeout}

	stmt, err := db.Prepare(`
        SELECT code, rate
        FROM fx_rates
        WHERE base = $1
          AND as_of <= $2
        ORDER BY as_of DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("fxsource: prepare latestRatesStmt: %w", err)
	}
	s.latestRatesStmt = stmt

	return s, nil
}

// FetchRates implements RateProvider by reading the most recent rates at or
// before asOf for each currency code, keeping only the first (latest) row
// the ORDER BY returns per code.
func (s *PostgresFallbackSource) FetchRates(ctx context.Context, base string, asOf time.Time) (domain.FXTable, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.latestRatesStmt.QueryContext(cctx, base, asOf)
	if err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: query fx_rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return domain.FXTable{}, fmt.Errorf("fxsource: scan fx_rates row: %w", err)
		}
		if _, seen := rates[code]; !seen {
			rates[code] = rate
		}
	}
	if err := rows.Err(); err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: iterate fx_rates: %w", err)
	}
	if len(rates) == 0 {
		return domain.FXTable{}, fmt.Errorf("fxsource: no fallback rates found for base %s as of %s", base, asOf)
	}

	return domain.FXTable{
		Base:     base,
		Rates:    rates,
		Source:   domain.FXSourceFallback,
		SourceID: domain.DefaultSourceID(domain.FXSourceFallback),
		AsOf:     asOf,
	}, nil
}
