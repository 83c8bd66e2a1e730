// Package database implements the case tracker on SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yckf-go/internal/database/migrations"
	"yckf-go/internal/safebox"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the CaseDatabase interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// Exported for tests that need a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to ":memory:" would see its own empty database,
	// so pin the pool to a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is at the latest version.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// CreateCase inserts a new case row.
func (s *SQLiteDatabase) CreateCase(ctx context.Context, c *safebox.Case) error {
	query := `INSERT INTO cases (code, title, crime_type, status, priority, reported_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		c.Code, c.Title, c.CrimeType, string(c.Status), c.Priority, c.ReportedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert case: %w", err)
	}
	return nil
}

// FindCase returns the case with the given code, or nil if unknown.
func (s *SQLiteDatabase) FindCase(ctx context.Context, code string) (*safebox.Case, error) {
	query := `SELECT code, title, crime_type, status, priority, reported_at, updated_at
		FROM cases WHERE code = ?`
	row := s.db.QueryRowContext(ctx, query, code)

	c := &safebox.Case{}
	var status string
	err := row.Scan(&c.Code, &c.Title, &c.CrimeType, &status, &c.Priority, &c.ReportedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding case by code: %w", err)
	}
	c.Status = safebox.CaseStatus(status)
	return c, nil
}

// ListCases returns all cases, most recently reported first.
func (s *SQLiteDatabase) ListCases(ctx context.Context) ([]*safebox.Case, error) {
	query := `SELECT code, title, crime_type, status, priority, reported_at, updated_at
		FROM cases ORDER BY reported_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select cases: %w", err)
	}
	defer rows.Close()

	var result []*safebox.Case
	for rows.Next() {
		c := &safebox.Case{}
		var status string
		if err := rows.Scan(&c.Code, &c.Title, &c.CrimeType, &status, &c.Priority, &c.ReportedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Status = safebox.CaseStatus(status)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddUpdate appends a timeline entry and moves the case to its status.
// Both writes happen in one transaction so the timeline and the case row
// cannot disagree.
func (s *SQLiteDatabase) AddUpdate(ctx context.Context, update *safebox.CaseUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO case_updates (id, case_code, status, message, updated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert,
		update.ID, update.CaseCode, string(update.Status), update.Message, update.UpdatedBy, update.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert case update: %w", err)
	}

	bump := `UPDATE cases SET status = ?, updated_at = ? WHERE code = ?`
	result, err := tx.ExecContext(ctx, bump, string(update.Status), update.CreatedAt, update.CaseCode)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("no case with code %s", update.CaseCode)
	}

	return tx.Commit()
}

// ListUpdates returns a case's timeline, oldest first.
func (s *SQLiteDatabase) ListUpdates(ctx context.Context, code string) ([]*safebox.CaseUpdate, error) {
	query := `SELECT id, case_code, status, message, updated_by, created_at
		FROM case_updates WHERE case_code = ? ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to select case updates: %w", err)
	}
	defer rows.Close()

	var result []*safebox.CaseUpdate
	for rows.Next() {
		u := &safebox.CaseUpdate{}
		var status string
		if err := rows.Scan(&u.ID, &u.CaseCode, &status, &u.Message, &u.UpdatedBy, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Status = safebox.CaseStatus(status)
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements the CaseDatabase interface
var _ safebox.CaseDatabase = (*SQLiteDatabase)(nil)
