package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements RecordStore using SQLite.
// It uses the pure Go modernc.org/sqlite driver.
//
// The table is per-key underneath, but Load and Save keep the whole-snapshot
// contract: Save runs inside one transaction that clears the table and
// reinserts every record, so a failed Save rolls back to the previous
// snapshot.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite record store.
// The database file is created if it doesn't exist.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS location_records (
		user_id   TEXT PRIMARY KEY,
		latitude  REAL,
		longitude REAL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: failed to create schema: %w", err)
	}
	return nil
}

// Load returns every record in the table.
func (s *SQLiteStore) Load() (map[string]Record, error) {
	rows, err := s.db.Query("SELECT user_id, latitude, longitude FROM location_records")
	if err != nil {
		return nil, fmt.Errorf("sqlite: query records: %w: %w", ErrStorageRead, err)
	}
	defer rows.Close()

	records := make(map[string]Record)
	for rows.Next() {
		var (
			userID   string
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&userID, &lat, &lng); err != nil {
			return nil, fmt.Errorf("sqlite: scan record: %w: %w", ErrStorageRead, err)
		}

		rec := Record{UserID: userID}
		if lat.Valid && lng.Valid {
			rec.Latitude = &lat.Float64
			rec.Longitude = &lng.Float64
		}
		records[userID] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate records: %w: %w", ErrStorageRead, err)
	}
	return records, nil
}

// Save replaces the table contents with the given records in one transaction.
func (s *SQLiteStore) Save(records map[string]Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin snapshot save: %w: %w", ErrStorageWrite, err)
	}

	if _, err := tx.Exec("DELETE FROM location_records"); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: clear records: %w: %w", ErrStorageWrite, err)
	}

	for _, rec := range records {
		_, err := tx.Exec(
			"INSERT INTO location_records (user_id, latitude, longitude) VALUES (?, ?, ?)",
			rec.UserID, nullable(rec.Latitude), nullable(rec.Longitude),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: insert record: %w: %w", ErrStorageWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit snapshot: %w: %w", ErrStorageWrite, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable converts an optional float into a driver-level NULL when absent.
func nullable(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
