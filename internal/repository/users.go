package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/tamis/internal/models"
)

const upsertUser = `
	INSERT INTO users (id, email, password, role, is_active, last_login)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (email) DO UPDATE SET
		password = excluded.password,
		role = excluded.role,
		is_active = excluded.is_active`

// UpsertUsers is keyed by email. A stored user keeps its id and last_login when a
// later snapshot names it with a different id.
func (s *DB) UpsertUsers(ctx context.Context, users []models.User) error {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u.ID, u.Email, u.Password, string(u.Role), u.IsActive, encodeTime(u.LastLogin)})
	}
	return s.upsertAll(ctx, upsertUser, rows)
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		u         models.User
		role      string
		lastLogin sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, email, password, role, is_active, last_login
		FROM users WHERE email = ?`), strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.Password, &role, &u.IsActive, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	u.Role = models.ParseRole(role)
	if u.LastLogin, err = decodeTime(lastLogin); err != nil {
		return nil, fmt.Errorf("error decoding last_login for %s: %w", u.ID, err)
	}
	return &u, nil
}

func (s *DB) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE users SET last_login = ? WHERE id = ?`), encodeTime(&at), id)
	if err != nil {
		return fmt.Errorf("error updating last_login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
