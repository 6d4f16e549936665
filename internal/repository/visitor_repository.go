// Package repository provides data access implementations
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/abelzeko/treehouse/internal/entities"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
)

// InMemoryDSN keeps the visitor list inside the process; nothing is written to disk
const InMemoryDSN = "file::memory:"

// VisitorRepository defines the interface for visitor list operations
type VisitorRepository interface {
	AddVisitor(ctx context.Context, visitor entities.Visitor) (entities.Visitor, error)
	FindVisitorByName(ctx context.Context, name string) (entities.Visitor, bool, error)
	ListVisitors(ctx context.Context) ([]entities.Visitor, error)
	Close() error
}

// SQLiteVisitorRepository implements VisitorRepository using SQLite
type SQLiteVisitorRepository struct {
	db       *sql.DB
	insertSt *sql.Stmt
	DSN      string
}

// NewSQLiteVisitorRepository creates and initializes a new SQLite repository
func NewSQLiteVisitorRepository(dsn string) (*SQLiteVisitorRepository, error) {
	if dsn == "" {
		dsn = InMemoryDSN
	}

	log.Printf("Opening visitor list at %s", dsn)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		greeting TEXT NOT NULL,
		action TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		age INTEGER NOT NULL CHECK (age BETWEEN -128 AND 127)
	);
	CREATE INDEX IF NOT EXISTS idx_visitor_name ON visitors(name);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	insertSt, err := db.Prepare(`
		INSERT INTO visitors(name, greeting, action, note, age)
		VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	return &SQLiteVisitorRepository{
		db:       db,
		insertSt: insertSt,
		DSN:      dsn,
	}, nil
}

// Close releases the prepared statement and the database connection
func (r *SQLiteVisitorRepository) Close() error {
	var err error
	if r.insertSt != nil {
		err = multierr.Append(err, r.insertSt.Close())
	}
	if r.db != nil {
		err = multierr.Append(err, r.db.Close())
	}
	return err
}

// AddVisitor appends a visitor to the end of the list and returns it with its ID set
func (r *SQLiteVisitorRepository) AddVisitor(ctx context.Context, visitor entities.Visitor) (entities.Visitor, error) {
	res, err := r.insertSt.ExecContext(ctx,
		visitor.Name,
		visitor.Greeting,
		visitor.Action.Kind.String(),
		visitor.Action.Note,
		visitor.Age,
	)
	if err != nil {
		return entities.Visitor{}, fmt.Errorf("failed to insert visitor %s: %w", visitor.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entities.Visitor{}, fmt.Errorf("failed to read id for visitor %s: %w", visitor.Name, err)
	}
	visitor.ID = id

	log.Printf("Added visitor %s as %s", visitor.Name, visitor.Action.Kind)
	return visitor, nil
}

// FindVisitorByName returns the earliest visitor whose name matches exactly.
// The boolean is false when nobody on the list has that name.
func (r *SQLiteVisitorRepository) FindVisitorByName(ctx context.Context, name string) (entities.Visitor, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, greeting, action, note, age
		FROM visitors
		WHERE name = ?
		ORDER BY id
		LIMIT 1`, name)

	visitor, err := scanVisitor(row)
	if err == sql.ErrNoRows {
		return entities.Visitor{}, false, nil
	}
	if err != nil {
		return entities.Visitor{}, false, fmt.Errorf("failed to look up visitor %s: %w", name, err)
	}
	return visitor, true, nil
}

// ListVisitors returns every visitor in the order they were added
func (r *SQLiteVisitorRepository) ListVisitors(ctx context.Context) ([]entities.Visitor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, greeting, action, note, age
		FROM visitors
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitors: %w", err)
	}
	defer rows.Close()

	var result []entities.Visitor
	for rows.Next() {
		visitor, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, visitor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(s rowScanner) (entities.Visitor, error) {
	var (
		v      entities.Visitor
		action string
	)
	if err := s.Scan(&v.ID, &v.Name, &v.Greeting, &action, &v.Action.Note, &v.Age); err != nil {
		return entities.Visitor{}, err
	}

	kind, err := entities.ParseActionKind(action)
	if err != nil {
		return entities.Visitor{}, err
	}
	v.Action.Kind = kind
	return v, nil
}
