package store

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements RecordStore using MySQL.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQL creates a new MySQL record store on an existing connection.
func NewMySQL(db *sql.DB) (*MySQLStore, error) {
	if err := createMySQLSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

// NewMySQLFromDSN creates a new MySQL record store from a DSN.
// The DSN format is: user:password@tcp(host:port)/database
func NewMySQLFromDSN(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: failed to connect: %w", err)
	}

	return NewMySQL(db)
}

func createMySQLSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS location_records (
		user_id   VARCHAR(255) PRIMARY KEY,
		latitude  DOUBLE NULL,
		longitude DOUBLE NULL
	)
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("mysql: failed to create schema: %w", err)
	}
	return nil
}

// Load returns every record in the table.
func (s *MySQLStore) Load() (map[string]Record, error) {
	rows, err := s.db.Query("SELECT user_id, latitude, longitude FROM location_records")
	if err != nil {
		return nil, fmt.Errorf("mysql: query records: %w: %w", ErrStorageRead, err)
	}
	defer rows.Close()

	records := make(map[string]Record)
	for rows.Next() {
		var (
			userID   string
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&userID, &lat, &lng); err != nil {
			return nil, fmt.Errorf("mysql: scan record: %w: %w", ErrStorageRead, err)
		}

		rec := Record{UserID: userID}
		if lat.Valid && lng.Valid {
			rec.Latitude = &lat.Float64
			rec.Longitude = &lng.Float64
		}
		records[userID] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: iterate records: %w: %w", ErrStorageRead, err)
	}
	return records, nil
}

// Save replaces the table contents with the given records in one transaction.
func (s *MySQLStore) Save(records map[string]Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("mysql: begin snapshot save: %w: %w", ErrStorageWrite, err)
	}

	if _, err := tx.Exec("DELETE FROM location_records"); err != nil {
		tx.Rollback()
		return fmt.Errorf("mysql: clear records: %w: %w", ErrStorageWrite, err)
	}

	for _, rec := range records {
		_, err := tx.Exec(
			"INSERT INTO location_records (user_id, latitude, longitude) VALUES (?, ?, ?)",
			rec.UserID, nullable(rec.Latitude), nullable(rec.Longitude),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("mysql: insert record: %w: %w", ErrStorageWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit snapshot: %w: %w", ErrStorageWrite, err)
	}
	return nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
