package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

const userColumns = `id, email, role, display_name, photo_url, created_at`

func (s *Store) GetUser(ctx context.Context, id string) (models.UserProfile, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, storage.ErrNotFound
	}
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, role, display_name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at`,
		profile.ID, profile.Email, string(profile.Role), nullString(profile.DisplayName), nullString(profile.PhotoURL),
	).Scan(&profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, storage.ErrAlreadyExists
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create user %s: %w", profile.ID, err)
	}
	return profile, nil
}

func (s *Store) SetUserRole(ctx context.Context, id string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = $1 WHERE id = $2", string(role), id)
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (models.UserProfile, error) {
	var (
		u                     models.UserProfile
		role                  string
		displayName, photoURL sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &role, &displayName, &photoURL, &u.CreatedAt); err != nil {
		return models.UserProfile{}, err
	}
	u.Role = models.Role(role)
	if displayName.Valid {
		u.DisplayName = &displayName.String
	}
	if photoURL.Valid {
		u.PhotoURL = &photoURL.String
	}
	return u, nil
}
