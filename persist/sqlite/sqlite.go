/*
Package sqlite provides a SQLite-backed statement archive.

PURPOSE:
  Implements the engine's StatementWriter against SQLite so every
  generated statement lands in a queryable, append-only archive instead
  of (or alongside) loose text files.

APPEND-ONLY ENFORCEMENT:
  The archive never updates or deletes statements. A statement, once
  written, is the permanent record handed to the customer.

KEY TABLES:
  statements: append-only archive of generated statement texts

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the single writer.

USAGE:
  archive, err := sqlite.New("./data/statements.db")
  if err != nil {
      log.Fatal(err)
  }
  defer archive.Close()

  eng := engine.New(archive, codec, dir, logger)
*/
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gustavoponcell/Barbearia/model"
)

// Archive implements engine.StatementWriter using SQLite.
type Archive struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a statement archive at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	archive := &Archive{db: db}
	if err := archive.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return archive, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// migrate creates the database schema.
func (a *Archive) migrate() error {
	schema := `
	-- Statements (append-only archive)
	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		customer_id TEXT,
		customer_name TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_statements_customer
		ON statements(customer_id) WHERE customer_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_statements_created_at
		ON statements(created_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

// SaveStatement archives the statement text and returns its reference,
// the row id prefixed with "sqlite:". A nil customer archives as a
// walk-in. The dir parameter is ignored; the archive is the directory.
func (a *Archive) SaveStatement(customer *model.Customer, text string, dir string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.New().String()
	var customerID sql.NullString
	name := "walk-in"
	if customer != nil {
		customerID = sql.NullString{String: customer.ID.String(), Valid: true}
		name = customer.Name
	}

	_, err := a.db.Exec(
		"INSERT INTO statements (id, customer_id, customer_name, body, created_at) VALUES (?, ?, ?, ?, ?)",
		id, customerID, name, text,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to archive statement: %w", err)
	}

	return "sqlite:" + id, nil
}

// StatementRecord is one archived statement.
type StatementRecord struct {
	ID           string
	CustomerID   string
	CustomerName string
	Body         string
	CreatedAt    time.Time
}

// GetStatement retrieves an archived statement by reference.
func (a *Archive) GetStatement(ref string) (*StatementRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	id := ref
	if len(ref) > 7 && ref[:7] == "sqlite:" {
		id = ref[7:]
	}

	var rec StatementRecord
	var customerID sql.NullString
	var createdAt string
	err := a.db.QueryRow(
		"SELECT id, customer_id, customer_name, body, created_at FROM statements WHERE id = ?",
		id,
	).Scan(&rec.ID, &customerID, &rec.CustomerName, &rec.Body, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CustomerID = customerID.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListByCustomer returns a customer's archived statements, oldest first.
func (a *Archive) ListByCustomer(customerID string) ([]StatementRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(
		"SELECT id, customer_id, customer_name, body, created_at FROM statements WHERE customer_id = ? ORDER BY created_at ASC",
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StatementRecord
	for rows.Next() {
		var rec StatementRecord
		var cid sql.NullString
		var createdAt string
		if err := rows.Scan(&rec.ID, &cid, &rec.CustomerName, &rec.Body, &createdAt); err != nil {
			return nil, err
		}
		rec.CustomerID = cid.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of archived statements.
func (a *Archive) Count() (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM statements").Scan(&count)
	return count, err
}
