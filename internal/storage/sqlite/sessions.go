package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (provider, subject, user_id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, subject) DO NOTHING`,
		string(identity.Provider), identity.Subject, identity.UserID, identity.Email, identity.PasswordHash, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrAlreadyExists
	}
	return nil
}

func (s *Store) GetIdentity(ctx context.Context, provider models.IdentityProvider, subject string) (models.Identity, error) {
	var (
		id        models.Identity
		prov      string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT provider, subject, user_id, email, password_hash, created_at
		FROM identities WHERE provider = ? AND subject = ?`, string(provider), subject,
	).Scan(&prov, &id.Subject, &id.UserID, &id.Email, &id.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Identity{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Identity{}, err
	}
	id.Provider = models.IdentityProvider(prov)
	if id.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

func (s *Store) CreateSession(ctx context.Context, session models.SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, email, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.TokenHash, session.UserID, session.Email, s.timestamp(), formatTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, tokenHash string) (models.SessionRecord, error) {
	var (
		rec                  models.SessionRecord
		createdAt, expiresAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, email, created_at, expires_at
		FROM sessions WHERE token_hash = ?`, tokenHash,
	).Scan(&rec.TokenHash, &rec.UserID, &rec.Email, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return models.SessionRecord{}, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.SessionRecord{}, err
	}
	if rec.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return models.SessionRecord{}, err
	}
	return rec, nil
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash)
	return err
}
