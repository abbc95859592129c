package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// CreateUser adds a user. Names are unique regardless of case.
func (s *Store) CreateUser(ctx context.Context, name string) (model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, fmt.Errorf("user name is empty")
	}
	user := model.User{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE name_key = ?`, nameKey(name)).Scan(&existing)
		if err == nil {
			return ErrNameExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`,
			user.ID, user.Name, nameKey(name), formatTime(user.CreatedAt))
		return err
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ListUsers returns all users in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM users ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var users []model.User
	for rows.Next() {
		var u model.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &createdAt); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// FindUserByName looks a user up by case-insensitive name.
func (s *Store) FindUserByName(ctx context.Context, name string) (model.User, error) {
	var u model.User
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE name_key = ?`, nameKey(name)).
		Scan(&u.ID, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// EnsureUser returns the named user, creating it when missing.
func (s *Store) EnsureUser(ctx context.Context, name string) (model.User, error) {
	u, err := s.FindUserByName(ctx, name)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	return s.CreateUser(ctx, name)
}

// DeleteUser removes a user with their error counts and review history.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM word_errors WHERE user_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE user_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res)
	})
}
