// Package sqldb implements the domain repositories on a SQL database.
// PostgreSQL and SQLite are supported; the driver is chosen at Open time and
// queries are written once with ? bindvars and rebound per driver.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamevault/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// DB wraps a *sqlx.DB and implements the domain repository interfaces.
type DB struct {
	sql    *sqlx.DB
	driver string
}

// Open connects to the database, pings, and runs migrations. driver must be
// "postgres" or "sqlite3".
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	s, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
		s.SetMaxOpenConns(1)
	} else {
		s.SetMaxOpenConns(10)
		s.SetMaxIdleConns(5)
		s.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s, driver: driver}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	serial := "BIGSERIAL PRIMARY KEY"
	ref := "BIGINT"
	ts := "TIMESTAMPTZ"
	if d.driver == "sqlite3" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
		ref = "INTEGER"
		ts = "TIMESTAMP"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			handle TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at %s NOT NULL
		);`, serial, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at %s NOT NULL,
			created_at %s NOT NULL
		);`, ref, ts, ts),
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS games (
			id %s,
			owner_id %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			created_at %s NOT NULL
		);`, serial, ref, ts),
		`CREATE INDEX IF NOT EXISTS idx_games_owner_id ON games(owner_id);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS loadouts (
			id %s,
			owner_id %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_id %s NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			weapons TEXT NOT NULL DEFAULT '',
			abilities TEXT NOT NULL DEFAULT '',
			stats TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		);`, serial, ref, ref, ts, ts),
		`CREATE INDEX IF NOT EXISTS idx_loadouts_owner_id ON loadouts(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_loadouts_game_id ON loadouts(game_id);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// insertID runs an INSERT and returns the generated id, using RETURNING on
// PostgreSQL and LastInsertId on SQLite.
func (d *DB) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.driver == "postgres" {
		var id int64
		err := d.sql.QueryRowContext(ctx, d.sql.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := d.sql.ExecContext(ctx, d.sql.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// storeErr tags a driver failure as Unavailable so callers up the stack never
// see raw database errors.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
