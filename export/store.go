package export

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBatchSize is the number of rows inserted per statement
	DefaultBatchSize = 500

	// MaxBatchSize keeps one INSERT under SQLite's limit of 32766 bound
	// parameters; every row binds five.
	MaxBatchSize = 6000
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Run is one export of an expansion. Every row written by a run shares its ID.
type Run struct {
	ID        uuid.UUID
	Source    string
	CreatedAt time.Time
	Domains   []string
}

// NewRun creates a run with a fresh ID
func NewRun(source string, domains []string) *Run {
	return &Run{
		ID:        uuid.New(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Domains:   domains,
	}
}

// Store writes runs into a single table
type Store struct {
	db        *sql.DB
	dbType    string
	table     string
	batchSize int
}

// NewStore creates a store for table. dbType is one of PostgreSQL, MySQL or SQLite.
func NewStore(db *sql.DB, dbType, table string, batchSize int) (*Store, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidTableName, table)
	}

	if getDriverName(dbType) == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dbType)
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batchSize = min(batchSize, MaxBatchSize)

	return &Store{db: db, dbType: dbType, table: table, batchSize: batchSize}, nil
}

// EnsureTable creates the result table if it does not exist
func (s *Store) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id VARCHAR(36) NOT NULL,
	seq INTEGER NOT NULL,
	domain TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, seq)
)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}

	return nil
}

// Save inserts every domain of run inside one transaction
func (s *Store) Save(ctx context.Context, run *Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID := run.ID.String()

	for start := 0; start < len(run.Domains); start += s.batchSize {
		end := min(start+s.batchSize, len(run.Domains))

		query, args := s.insertStatement(runID, run, start, end)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: rows %d-%d: %w", ErrSaveFailed, start, end-1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

func (s *Store) insertStatement(runID string, run *Run, start, end int) (string, []any) {
	const columns = 5

	var sb strings.Builder

	sb.WriteString("INSERT INTO " + s.table + " (run_id, seq, domain, source, created_at) VALUES ")

	args := make([]any, 0, (end-start)*columns)

	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString(", ")
		}

		sb.WriteByte('(')

		for j := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(s.placeholder(len(args) + j + 1))
		}

		sb.WriteByte(')')

		args = append(args, runID, i, run.Domains[i], run.Source, run.CreatedAt)
	}

	return sb.String(), args
}

func (s *Store) placeholder(n int) string {
	if s.dbType == PostgreSQL {
		return "$" + strconv.Itoa(n)
	}

	return "?"
}

// Domains returns the domains saved by a run in their original order
func (s *Store) Domains(ctx context.Context, runID uuid.UUID) ([]string, error) {
	query := fmt.Sprintf("SELECT domain FROM %s WHERE run_id = %s ORDER BY seq", s.table, s.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var domains []string

	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}

		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

// Export connects to databaseURL, makes sure the table exists and saves run
func Export(ctx context.Context, databaseURL, table string, batchSize int, run *Run) error {
	connector := NewDatabaseConnector()

	db, dbType, err := connector.Connect(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	store, err := NewStore(db, dbType, table, batchSize)
	if err != nil {
		return err
	}

	if err := store.EnsureTable(ctx); err != nil {
		return err
	}

	return store.Save(ctx, run)
}
