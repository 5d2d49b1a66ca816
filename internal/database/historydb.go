package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/causelist/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "history.db"

// DefaultRecentLimit is used by Recent when limit is not positive.
const DefaultRecentLimit = 20

// ErrNotFound is returned when the database file does not exist and
// Options.CreateIfNotExists is false.
var ErrNotFound = errors.New("history database not found")

// HistoryDB stores one row per lookup.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if they
	// don't exist.
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
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

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

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		hearing_date TEXT NOT NULL,
		side TEXT NOT NULL,
		advocate TEXT NOT NULL,
		court_url TEXT NOT NULL,
		status TEXT NOT NULL,
		match_count INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_lookups_timestamp ON lookups(timestamp);
	CREATE INDEX IF NOT EXISTS idx_lookups_date ON lookups(hearing_date);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// LookupRecord is one stored lookup.
type LookupRecord struct {
	ID        int64
	Timestamp time.Time

	// Date is the hearing date in DDMMYYYY form.
	Date string

	// Side is the canonical side label.
	Side string

	Advocate string
	CourtURL string

	// Status is "success" or "unavailable".
	Status string

	// MatchCount is the number of matching entries; zero when unavailable.
	MatchCount int

	Duration time.Duration
}

// NewLookupRecord builds the record of one pipeline run.
func NewLookupRecord(req model.FetchRequest, outcome *model.Outcome, duration time.Duration) *LookupRecord {
	record := &LookupRecord{
		Date:     req.Date,
		Side:     req.Side.String(),
		Advocate: req.AdvocateName,
		CourtURL: req.BaseURL,
		Status:   model.StatusUnavailable.String(),
		Duration: duration,
	}
	if outcome != nil {
		record.Status = outcome.Status.String()
		if outcome.IsSuccess() {
			record.MatchCount = len(outcome.Entries)
		}
	}
	return record
}

// Record inserts a lookup and returns its ID.
func (hdb *HistoryDB) Record(ctx context.Context, record *LookupRecord) (int64, error) {
	query := `
	INSERT INTO lookups (hearing_date, side, advocate, court_url, status, match_count, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		record.Date,
		record.Side,
		record.Advocate,
		record.CourtURL,
		record.Status,
		record.MatchCount,
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record lookup: %w", err)
	}

	return result.LastInsertId()
}

// Recent returns the latest lookups, newest first.
func (hdb *HistoryDB) Recent(ctx context.Context, limit int) ([]LookupRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := `
	SELECT id, timestamp, hearing_date, side, advocate, court_url, status, match_count, duration_ms
	FROM lookups
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var results []LookupRecord
	for rows.Next() {
		var record LookupRecord
		var timestamp string
		var durationMS int64

		err := rows.Scan(
			&record.ID,
			&timestamp,
			&record.Date,
			&record.Side,
			&record.Advocate,
			&record.CourtURL,
			&record.Status,
			&record.MatchCount,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}

		record.Timestamp = parseTimestamp(timestamp)
		record.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, record)
	}

	return results, rows.Err()
}

// Count returns the number of stored lookups.
func (hdb *HistoryDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lookups").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
