package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shortlink/internal/accesslog"
)

var datasetPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresSink stores access-log records in a fixed-arity table: one index
// column, blob1..blob16, double1..double2 and a sample interval. The table
// name is the configured dataset.
type PostgresSink struct {
	db      *sql.DB
	dataset string

	insertStmt string
	sumStmt    string
}

func NewPostgresSink(ctx context.Context, dsn, dataset string) (*PostgresSink, error) {
	if !datasetPattern.MatchString(dataset) {
		return nil, fmt.Errorf("invalid dataset name %q", dataset)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresSink{db: db, dataset: dataset}
	s.buildStatements()

	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *PostgresSink) buildStatements() {
	cols := make([]string, 0, 1+accesslog.NumBlobs+accesslog.NumDoubles)
	args := make([]string, 0, cap(cols))
	cols = append(cols, "index1")
	for i := 1; i <= accesslog.NumBlobs; i++ {
		cols = append(cols, fmt.Sprintf("blob%d", i))
	}
	for i := 1; i <= accesslog.NumDoubles; i++ {
		cols = append(cols, fmt.Sprintf("double%d", i))
	}
	for i := range cols {
		args = append(args, fmt.Sprintf("$%d", i+1))
	}

	s.insertStmt = fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.dataset, strings.Join(cols, ", "), strings.Join(args, ", "),
	)
	s.sumStmt = fmt.Sprintf(
		"SELECT COALESCE(SUM(_sample_interval), 0) FROM %s WHERE blob%d = $1",
		s.dataset, accesslog.BlobColumn("slug"),
	)
}

func (s *PostgresSink) createTables(ctx context.Context) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", s.dataset)
	b.WriteString("\tid BIGSERIAL PRIMARY KEY,\n")
	b.WriteString("\tts TIMESTAMPTZ NOT NULL DEFAULT NOW(),\n")
	b.WriteString("\tindex1 TEXT NOT NULL,\n")
	for i := 1; i <= accesslog.NumBlobs; i++ {
		fmt.Fprintf(&b, "\tblob%d TEXT NOT NULL DEFAULT '',\n", i)
	}
	for i := 1; i <= accesslog.NumDoubles; i++ {
		fmt.Fprintf(&b, "\tdouble%d DOUBLE PRECISION NOT NULL DEFAULT 0,\n", i)
	}
	b.WriteString("\t_sample_interval INTEGER NOT NULL DEFAULT 1\n);")

	if _, err := s.db.ExecContext(ctx, b.String()); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_slug_idx ON %s (blob%d)",
		s.dataset, s.dataset, accesslog.BlobColumn("slug"),
	))
	return err
}

func (s *PostgresSink) Write(ctx context.Context, rec accesslog.Record) error {
	if len(rec.Indexes) != 1 {
		return fmt.Errorf("record must carry exactly one index, got %d", len(rec.Indexes))
	}
	if len(rec.Blobs) != accesslog.NumBlobs || len(rec.Doubles) != accesslog.NumDoubles {
		return fmt.Errorf("record has wrong arity: %d blobs, %d doubles", len(rec.Blobs), len(rec.Doubles))
	}

	args := make([]any, 0, 1+accesslog.NumBlobs+accesslog.NumDoubles)
	args = append(args, rec.Indexes[0])
	for _, blob := range rec.Blobs {
		args = append(args, blob)
	}
	for _, double := range rec.Doubles {
		args = append(args, double)
	}

	if _, err := s.db.ExecContext(ctx, s.insertStmt, args...); err != nil {
		return fmt.Errorf("failed to insert access log: %w", err)
	}
	return nil
}

func (s *PostgresSink) VisitSum(ctx context.Context, slug string) (int64, error) {
	var sum int64
	if err := s.db.QueryRowContext(ctx, s.sumStmt, slug).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum visits: %w", err)
	}
	return sum, nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}
