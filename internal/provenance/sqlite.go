package provenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps records in a single provenance table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS provenance (
		hash TEXT PRIMARY KEY,
		source TEXT,
		sensitivity TEXT,
		timestamp REAL,
		version TEXT
	);`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	if rec.Hash == "" {
		return errors.New("provenance record has no hash")
	}
	rec = normalize(rec, s.now)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO provenance(hash, source, sensitivity, timestamp, version) VALUES (?, ?, ?, ?, ?)`,
		rec.Hash, rec.Source, rec.Sensitivity, float64(rec.Timestamp.UnixNano())/1e9, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to record provenance: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, hash string) (Record, bool, error) {
	var (
		rec     Record
		source  sql.NullString
		sens    sql.NullString
		ts      sql.NullFloat64
		version sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT hash, source, sensitivity, timestamp, version FROM provenance WHERE hash = ?`, hash,
	).Scan(&rec.Hash, &source, &sens, &ts, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to query provenance: %w", err)
	}
	rec.Source = source.String
	rec.Sensitivity = sens.String
	rec.Version = version.String
	if ts.Valid {
		whole := int64(ts.Float64)
		rec.Timestamp = time.Unix(whole, int64((ts.Float64-float64(whole))*1e9))
	}
	return rec, true, nil
}
