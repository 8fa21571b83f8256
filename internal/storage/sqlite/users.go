package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

func (s *Store) GetUser(ctx context.Context, id string) (models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, role, display_name, photo_url, created_at
		FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, storage.ErrNotFound
	}
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	createdAt := s.timestamp()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, role, display_name, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		profile.ID, profile.Email, string(profile.Role), nullString(profile.DisplayName), nullString(profile.PhotoURL), createdAt,
	)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create user %s: %w", profile.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.UserProfile{}, storage.ErrAlreadyExists
	}

	profile.CreatedAt, _ = parseTime(createdAt)
	return profile, nil
}

func (s *Store) SetUserRole(ctx context.Context, id string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", string(role), id)
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, role, display_name, photo_url, created_at
		FROM users ORDER BY created_at ASC, id ASC`)
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
		u           models.UserProfile
		role        string
		displayName sql.NullString
		photoURL    sql.NullString
		createdAt   string
	)
	if err := row.Scan(&u.ID, &u.Email, &role, &displayName, &photoURL, &createdAt); err != nil {
		return models.UserProfile{}, err
	}
	u.Role = models.Role(role)
	if displayName.Valid {
		u.DisplayName = &displayName.String
	}
	if photoURL.Valid {
		u.PhotoURL = &photoURL.String
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.UserProfile{}, err
	}
	u.CreatedAt = t
	return u, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
