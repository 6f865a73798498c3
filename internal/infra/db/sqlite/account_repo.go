package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Save(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO users (id, username, nickname, password_hash, created_at, last_login)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  username=excluded.username, nickname=excluded.nickname,
  password_hash=excluded.password_hash, last_login=excluded.last_login;`

	var lastLogin any
	if !a.LastLogin.IsZero() {
		lastLogin = a.LastLogin
	}
	_, err := r.db.ExecContext(ctx, q, a.ID, a.Username, a.Nickname, a.PasswordHash, a.CreatedAt, lastLogin)
	return err
}

func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	const q = `
SELECT id, username, nickname, password_hash, created_at, last_login
FROM users WHERE username = ?;`

	var (
		a         model.Account
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, username).
		Scan(&a.ID, &a.Username, &a.Nickname, &a.PasswordHash, &a.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = lastLogin.Time
	}
	return &a, nil
}

func (r *AccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login = ? WHERE id = ?;`
	res, err := r.db.ExecContext(ctx, q, at, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
