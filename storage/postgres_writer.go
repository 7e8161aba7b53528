package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"hostel-analytics/models"
)

// PostgresWriter exports the time series to PostgreSQL.
type PostgresWriter struct {
	db *sqlx.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS weekly_direct_bookings (
			period_start  DATE          NOT NULL,
			period_end    DATE          NOT NULL,
			week          TEXT          NOT NULL,
			property      VARCHAR(100)  NOT NULL,
			count         INTEGER       NOT NULL DEFAULT 0,
			cancelled     INTEGER       NOT NULL DEFAULT 0,
			valid         INTEGER       NOT NULL DEFAULT 0,
			adr           NUMERIC(10,2) NOT NULL DEFAULT 0,
			avg_lead_time INTEGER       NOT NULL DEFAULT 0,
			updated_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			PRIMARY KEY (period_start, property)
		);

		CREATE INDEX IF NOT EXISTS idx_weekly_direct_bookings_property ON weekly_direct_bookings(property);
	`)
	return err
}

// Write upserts every (period, property) row inside one transaction.
func (pw *PostgresWriter) Write(ctx context.Context, series models.TimeSeries) error {
	rows := Flatten(series)
	if len(rows) == 0 {
		return nil
	}

	tx, err := pw.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := upsertBatch(ctx, tx, rows[i:end]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: upsert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func upsertBatch(ctx context.Context, tx *sqlx.Tx, batch []SeriesRow) error {
	const cols = 9
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		valueArgs = append(valueArgs,
			r.PeriodStart, r.PeriodEnd, r.Week, r.Property,
			r.Count, r.Cancelled, r.Valid, r.ADR, r.AvgLeadTime)
	}

	query := fmt.Sprintf(`
		INSERT INTO weekly_direct_bookings
			(period_start, period_end, week, property, count, cancelled, valid, adr, avg_lead_time)
		VALUES %s
		ON CONFLICT (period_start, property) DO UPDATE SET
			period_end    = EXCLUDED.period_end,
			week          = EXCLUDED.week,
			count         = EXCLUDED.count,
			cancelled     = EXCLUDED.cancelled,
			valid         = EXCLUDED.valid,
			adr           = EXCLUDED.adr,
			avg_lead_time = EXCLUDED.avg_lead_time,
			updated_at    = NOW()
	`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

// FetchAll retrieves every exported row ordered by period start and property.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]SeriesRow, error) {
	var rows []SeriesRow
	err := pw.db.SelectContext(ctx, &rows, `
		SELECT to_char(period_start, 'YYYY-MM-DD') AS period_start,
		       to_char(period_end, 'YYYY-MM-DD')   AS period_end,
		       week, property, count, cancelled, valid,
		       adr::float8 AS adr, avg_lead_time
		FROM weekly_direct_bookings
		ORDER BY period_start, property
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	return rows, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
