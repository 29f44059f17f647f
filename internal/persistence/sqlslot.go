package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// createTable creates the table holding the slots. REPLACE INTO is understood by MySQL and SQLite
// alike, so the same statements serve both drivers.
const createTable = `
	CREATE TABLE IF NOT EXISTS contact_slots (
		slot_key VARCHAR(64) PRIMARY KEY,
		slot_value LONGTEXT NOT NULL
	)`

// SQLSlot keeps the slots in a database table.
type SQLSlot struct {
	db *sqlx.DB

	// selectValue is a prepared statement for reading the value of a key.
	selectValue *sqlx.Stmt

	// replaceValue is a prepared statement for inserting or overwriting the value of a key.
	replaceValue *sqlx.Stmt
}

var _ Slot = (*SQLSlot)(nil)

// MySQLDSN builds the data source name of a MySQL database.
func MySQLDSN(user string, password string, host string, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, password, host, database)
}

// OpenSQLSlot connects to a database, creates the slot table if necessary and prepares all
// statements. Supported drivers are "mysql" and "sqlite".
func OpenSQLSlot(ctx context.Context, driver string, dsn string) (*SQLSlot, error) {
	if driver != "mysql" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported slot driver %q", driver)
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}
	if _, err := sqlDB.ExecContext(ctx, createTable); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create slot table: %w", err)
	}
	slot, err := NewSQLSlot(sqlDB, driver)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return slot, nil
}

// NewSQLSlot wraps an open database and prepares all statements. The database can be a real
// database or a mock database within unit tests. The table must already exist.
func NewSQLSlot(sqlDB *sql.DB, driver string) (*SQLSlot, error) {
	// sqlx only needs the driver name to pick the placeholder style, and both use '?'.
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	s := &SQLSlot{db: sqlx.NewDb(sqlDB, driver)}

	var err error
	s.selectValue, err = s.db.Preparex(`
		SELECT slot_value FROM contact_slots WHERE slot_key = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	s.replaceValue, err = s.db.Preparex(`
		REPLACE INTO contact_slots (slot_key, slot_value) VALUES (?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare replace: %w", err)
	}
	return s, nil
}

// Get reads the value of key.
func (s *SQLSlot) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.selectValue.GetContext(ctx, &value, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the value of key.
func (s *SQLSlot) Set(ctx context.Context, key string, value string) error {
	_, err := s.replaceValue.ExecContext(ctx, key, value)
	return err
}

// Close closes the prepared statements and the database.
func (s *SQLSlot) Close() error {
	s.selectValue.Close()
	s.replaceValue.Close()
	return s.db.Close()
}
