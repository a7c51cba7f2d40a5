package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"antiquites/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,password,name,is_admin,created_at`

// Create inserts a regular (non-admin) user and returns its id.
func (r *UserRepo) Create(ctx context.Context, email, hash, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users(email,password,name,is_admin,created_at)
		VALUES(?,?,?,0,?)`, strings.ToLower(strings.TrimSpace(email)), hash, name, formatTime(time.Now()))
	if err != nil {
		return 0, classify("create user", "email", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "create user", Err: err}
	}
	return id, nil
}

// ByEmail returns nil when no user matches.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user by email", Err: err}
	}
	return &u, nil
}

// ByID returns nil when no user matches.
func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "user by id", Err: err}
	}
	return &u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, &domain.PersistenceError{Op: "count users", Err: err}
	}
	return n, nil
}

func (r *UserRepo) BindSession(ctx context.Context, sid string, userID int64) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	if err != nil {
		return &domain.PersistenceError{Op: "bind session", Err: err}
	}
	return nil
}

// SessionUser returns the user bound to sid, or nil for anonymous sessions.
func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `
      SELECT u.id,u.email,u.password,u.name,u.is_admin,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "session user", Err: err}
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	if err != nil {
		return &domain.PersistenceError{Op: "unbind session", Err: err}
	}
	return nil
}
