package postgres

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
		INSERT INTO identities (provider, subject, user_id, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, subject) DO NOTHING`,
		string(identity.Provider), identity.Subject, identity.UserID, identity.Email, identity.PasswordHash,
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
		id   models.Identity
		prov string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT provider, subject, user_id, email, password_hash, created_at
		FROM identities WHERE provider = $1 AND subject = $2`, string(provider), subject,
	).Scan(&prov, &id.Subject, &id.UserID, &id.Email, &id.PasswordHash, &id.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Identity{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Identity{}, err
	}
	id.Provider = models.IdentityProvider(prov)
	return id, nil
}

func (s *Store) CreateSession(ctx context.Context, session models.SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, email, expires_at)
		VALUES ($1, $2, $3, $4)`,
		session.TokenHash, session.UserID, session.Email, session.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, tokenHash string) (models.SessionRecord, error) {
	var rec models.SessionRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, email, created_at, expires_at
		FROM sessions WHERE token_hash = $1`, tokenHash,
	).Scan(&rec.TokenHash, &rec.UserID, &rec.Email, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionRecord{}, storage.ErrNotFound
	}
	return rec, err
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = $1", tokenHash)
	return err
}
