package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"rental-analytics/models"
	"rental-analytics/utils"
)

const insertBatchSize = 50

// PostgresWriter persists report snapshots to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, retrying the ping
// with back-off, runs schema migrations, and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS location_yearly_listings_price (
			year          INTEGER          NOT NULL,
			host_location TEXT             NOT NULL,
			num_listings  INTEGER          NOT NULL,
			avg_price     DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS location_yearly_reviews (
			year          INTEGER NOT NULL,
			host_location TEXT    NOT NULL,
			num_reviews   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS location_yearly_sentiment (
			year          INTEGER          NOT NULL,
			host_location TEXT             NOT NULL,
			avg_sentiment DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS year_room_type (
			year         INTEGER NOT NULL,
			room_type    TEXT,
			num_listings INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sampled_locations (
			position      INTEGER PRIMARY KEY,
			host_location TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price_year ON location_yearly_listings_price(year);
		CREATE INDEX IF NOT EXISTS idx_reviews_year        ON location_yearly_reviews(year);
		CREATE INDEX IF NOT EXISTS idx_sentiment_year      ON location_yearly_sentiment(year);
		CREATE INDEX IF NOT EXISTS idx_room_type_year      ON year_room_type(year);
	`)
	return err
}

// Write replaces the stored snapshot with report inside one transaction.
func (pw *PostgresWriter) Write(report *models.Report) error {
	ctx := context.Background()
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	for _, t := range reportTables(report) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.name); err != nil {
			return fmt.Errorf("postgres: clear %s: %w", t.name, err)
		}
		for i := 0; i < len(t.rows); i += insertBatchSize {
			end := i + insertBatchSize
			if end > len(t.rows) {
				end = len(t.rows)
			}
			if err := insertBatch(ctx, tx, t, t.rows[i:end]); err != nil {
				return fmt.Errorf("postgres: insert %s: %w", t.name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, t table, batch [][]any) error {
	args := make([]any, 0, len(batch)*len(t.columns))
	for _, row := range batch {
		args = append(args, row...)
	}
	_, err := tx.ExecContext(ctx, buildInsert(t.name, t.columns, len(batch)), args...)
	return err
}

// buildInsert returns a multi-row INSERT with numbered placeholders.
func buildInsert(name string, columns []string, rows int) string {
	valueStrings := make([]string, 0, rows)
	n := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(columns))
		for c := range columns {
			ph[c] = fmt.Sprintf("$%d", n)
			n++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		name, strings.Join(columns, ", "), strings.Join(valueStrings, ","))
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
