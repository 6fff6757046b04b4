package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user. Returns domain.ErrUsernameTaken on a duplicate
// username instead of surfacing the constraint error.
func (r *UserRepo) Create(username, passwordHash string, balance domain.Cents) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO users(username, password_hash, balance_cents)
		VALUES(?, ?, ?)
		ON CONFLICT(username) DO NOTHING
	`, username, passwordHash, balance)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
	}
	return res.LastInsertId()
}

func (r *UserRepo) ByUsername(username string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
		SELECT id, username, password_hash, balance_cents, created_at
		FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	return u, err
}

func (r *UserRepo) ByID(id int64) (domain.User, error) {
	return r.Lookup(r.db, id)
}

// Lookup runs against the given executor so callers can join an open
// transaction.
func (r *UserRepo) Lookup(e sqlx.Ext, id int64) (domain.User, error) {
	var u domain.User
	err := sqlx.Get(e, &u, `
		SELECT id, username, password_hash, balance_cents, created_at
		FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return u, err
}
