package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"antiquites/internal/domain"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// OpenDB opens the SQLite database and brings its schema up to date.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One shared connection: keeps PRAGMAs in force and lets ":memory:" behave as a single database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  name TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

-- Announcements
CREATE TABLE IF NOT EXISTS announcements(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  phone TEXT,
  image_path TEXT,               -- JSON array of filenames, or a bare filename on old rows
  price NUMERIC,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL,
  validated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_announcements_user      ON announcements(user_id);
CREATE INDEX IF NOT EXISTS idx_announcements_status    ON announcements(status, created_at);
CREATE INDEX IF NOT EXISTS idx_announcements_validated ON announcements(validated_at);

-- Sessions
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// migrate applies additive changes for databases created by older releases.
func migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`ALTER TABLE announcements ADD COLUMN phone TEXT`); err != nil {
		if !strings.Contains(err.Error(), "duplicate column name") {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the administrator account if no user holds that email yet.
func SeedAdmin(ctx context.Context, db *sqlx.DB, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users(email, password, name, is_admin, created_at)
		VALUES(?, ?, 'Administrateur', 1, ?)
	`, strings.ToLower(email), string(h), formatTime(time.Now()))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("seeded administrator account", zap.String("email", email))
	}
	return nil
}

// classify turns a driver error into the domain taxonomy.
func classify(op, field string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &domain.ConstraintError{Field: field, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &domain.ConstraintError{Field: "user_id", Err: err}
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConstraintError{Field: field, Err: err}
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return &domain.ConstraintError{Field: "user_id", Err: err}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
