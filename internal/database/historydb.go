package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/urlcount/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "urlcount.db"

// timestampLayout is fixed-width so that stored timestamps sort lexically.
const timestampLayout = "2006-01-02 15:04:05.000000"

var (
	// ErrFailedResult is returned when saving a result that records an error.
	ErrFailedResult = errors.New("refusing to store a failed result")

	// ErrDatabaseNotFound is returned by Open when the database does not
	// exist and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")
)

// HistoryDB provides SQLite-based storage for counting results.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if needed.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		unique_count INTEGER NOT NULL,
		host_count INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult stores r and returns its run ID.
// Failed results are not stored and yield ErrFailedResult.
func (hdb *HistoryDB) SaveResult(ctx context.Context, r *model.Result) (int64, error) {
	if r.Failed() {
		return 0, fmt.Errorf("%w: %s", ErrFailedResult, r.Source)
	}

	resultJSON, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	ts := r.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
	INSERT INTO runs (source, timestamp, unique_count, host_count, fingerprint, result_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		r.Source,
		ts.UTC().Format(timestampLayout),
		r.Unique,
		len(r.ByHost),
		r.Fingerprint,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save result: %w", err)
	}

	return res.LastInsertId()
}

// GetLatestResults returns up to n results for source, newest first.
func (hdb *HistoryDB) GetLatestResults(ctx context.Context, source string, n int) ([]*model.Result, error) {
	query := `
	SELECT result_json FROM runs
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, source, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []*model.Result
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		var r model.Result
		if err := json.Unmarshal([]byte(resultJSON), &r); err != nil {
			continue // Skip malformed rows
		}
		results = append(results, &r)
	}

	return results, rows.Err()
}

// GetResultByID retrieves a result by its run ID.
// It returns nil and no error when the ID does not exist.
func (hdb *HistoryDB) GetResultByID(ctx context.Context, id int64) (*model.Result, error) {
	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, `SELECT result_json FROM runs WHERE id = ?`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var r model.Result
	if err := json.Unmarshal([]byte(resultJSON), &r); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &r, nil
}

// ListSources returns every source with at least one stored run, sorted.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT source FROM runs ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// RunMetadata summarizes a stored run without its full result.
type RunMetadata struct {
	// ID is the run ID.
	ID int64

	// Source is the source label.
	Source string

	// Timestamp is when the result was generated.
	Timestamp time.Time

	// Unique is the number of distinct normalized URLs.
	Unique int

	// Hosts is the number of distinct .com hosts.
	Hosts int

	// Fingerprint identifies the counted URL set.
	Fingerprint string
}

// GetHistoryWithMetadata returns the run summaries for source, newest first.
func (hdb *HistoryDB) GetHistoryWithMetadata(ctx context.Context, source string) ([]RunMetadata, error) {
	query := `
	SELECT id, source, timestamp, unique_count, host_count, fingerprint
	FROM runs
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Source, &timestamp, &meta.Unique, &meta.Hosts, &meta.Fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		runs = append(runs, meta)
	}

	return runs, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// Fractional seconds are accepted by time.Parse after the seconds field.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp parses s with each known format in turn and returns the
// zero time when none matches. Stored timestamps are UTC.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
