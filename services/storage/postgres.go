package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sjsage522/deliveryscraper/pkg/errors"
)

const postgresBatchSize = 50

// PostgresWriter persists aggregated city tables to PostgreSQL. Each row is
// stored as a JSON document keyed by its column names.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorage("postgres", "open", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, errors.NewStorage("postgres", "ping failed after retries", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewStorage("postgres", "migrate", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS restaurant_rows (
			id            SERIAL PRIMARY KEY,
			run_id        TEXT        NOT NULL,
			city          TEXT        NOT NULL,
			row_index     INTEGER     NOT NULL,
			restaurant_id TEXT        NOT NULL,
			data          JSONB       NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, row_index)
		);

		CREATE INDEX IF NOT EXISTS idx_restaurant_rows_restaurant ON restaurant_rows(restaurant_id);
		CREATE INDEX IF NOT EXISTS idx_restaurant_rows_city       ON restaurant_rows(city);
	`)
	return err
}

// WriteTable batch-inserts every row of t for the given run. The first column
// is the restaurant id.
func (pw *PostgresWriter) WriteTable(ctx context.Context, runID, city string, t Table) error {
	header := t.Header()
	rows := t.Rows()

	for i := 0; i < len(rows); i += postgresBatchSize {
		end := i + postgresBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(ctx, runID, city, header, rows[i:end], i); err != nil {
			return errors.NewStorage("postgres", "insert batch", err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, runID, city string, header []string, batch [][]string, offset int) error {
	const cols = 5
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, row := range batch {
		doc, err := rowDocument(header, row)
		if err != nil {
			return err
		}

		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs, runID, city, offset+idx, firstColumn(row), doc)
	}

	query := fmt.Sprintf(`
		INSERT INTO restaurant_rows (run_id, city, row_index, restaurant_id, data)
		VALUES %s
		ON CONFLICT (run_id, row_index) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// Close closes the database handle
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func rowDocument(header, row []string) (string, error) {
	doc := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(row) {
			doc[name] = row[i]
		}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func firstColumn(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
