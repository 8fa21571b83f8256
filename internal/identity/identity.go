// Package identity authenticates people and tracks the signed-in account.
//
// Password accounts are verified against bcrypt hashes; Google accounts go
// through an OAuth loopback flow. A successful sign-in creates a session
// whose opaque token is kept client side in a SessionStore, so the sign-in
// survives across invocations until SignOut or expiry.
package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/taskboard/internal/constants"
	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

// MinPasswordLength is the shortest password CreateAccount accepts.
const MinPasswordLength = 6

// User is the signed-in account as the identity layer sees it. Role is
// not part of it; roles live on the profile record.
type User struct {
	ID          string
	Email       string
	Provider    models.IdentityProvider
	DisplayName *string
	PhotoURL    *string
}

// Listener receives the signed-in user, or nil after sign-out.
type Listener func(user *User)

// Provider is the identity surface the rest of taskboard depends on.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignInFederated(ctx context.Context) (*User, error)
	SignOut(ctx context.Context) error
	Restore(ctx context.Context) (*User, error)
	Current() *User
	Subscribe(fn Listener) (unsubscribe func())
}

// Store is the persistence the identity layer needs.
type Store interface {
	CreateIdentity(ctx context.Context, identity models.Identity) error
	GetIdentity(ctx context.Context, provider models.IdentityProvider, subject string) (models.Identity, error)
	CreateSession(ctx context.Context, session models.SessionRecord) error
	GetSession(ctx context.Context, tokenHash string) (models.SessionRecord, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// Service implements Provider on top of a Store.
type Service struct {
	store     Store
	sessions  SessionStore
	federated FederatedExchanger
	now       func() time.Time
	ttl       time.Duration

	mu        sync.Mutex
	current   *User
	token     string
	listeners map[int]Listener
	nextID    int
}

var _ Provider = (*Service)(nil)

type Option func(*Service)

// WithFederated enables SignInFederated.
func WithFederated(f FederatedExchanger) Option {
	return func(s *Service) { s.federated = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func NewService(store Store, sessions SessionStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		sessions:  sessions,
		now:       time.Now,
		ttl:       constants.SessionTTL,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount registers a password account and signs it in.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.Invalid("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := models.Identity{
		UserID:       uuid.New().String(),
		Provider:     models.ProviderPassword,
		Subject:      email,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, apperrors.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.startSession(ctx, &User{ID: identity.UserID, Email: email, Provider: models.ProviderPassword})
}

// SignIn verifies an email and password. Unknown accounts and wrong
// passwords fail the same way.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	identity, err := s.store.GetIdentity(ctx, models.ProviderPassword, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.startSession(ctx, &User{ID: identity.UserID, Email: identity.Email, Provider: models.ProviderPassword})
}

// SignInFederated runs the configured federated flow. The first sign-in
// of a federated subject links it to a fresh user id.
func (s *Service) SignInFederated(ctx context.Context) (*User, error) {
	if s.federated == nil {
		return nil, fmt.Errorf("federated sign-in is not configured")
	}

	account, err := s.federated.Exchange(ctx)
	if err != nil {
		return nil, fmt.Errorf("federated sign-in failed: %w", err)
	}
	if account.Subject == "" {
		return nil, fmt.Errorf("federated sign-in returned no subject")
	}

	identity, err := s.store.GetIdentity(ctx, models.ProviderGoogle, account.Subject)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		identity = models.Identity{
			UserID:   uuid.New().String(),
			Provider: models.ProviderGoogle,
			Subject:  account.Subject,
			Email:    strings.ToLower(account.Email),
		}
		if err := s.store.CreateIdentity(ctx, identity); err != nil {
			return nil, fmt.Errorf("failed to link federated account: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up federated account: %w", err)
	}

	return s.startSession(ctx, &User{
		ID:          identity.UserID,
		Email:       identity.Email,
		Provider:    models.ProviderGoogle,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
	})
}

// SignOut ends the current session. Signing out while signed out is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.store.DeleteSession(ctx, hashToken(token)); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
	}
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}

	s.setCurrent(nil, "")
	return nil
}

// Restore re-establishes the session persisted by an earlier sign-in.
// A missing, unknown or expired session leaves the caller signed out and
// is not an error.
func (s *Service) Restore(ctx context.Context) (*User, error) {
	stored, err := s.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read stored session: %w", err)
	}
	if stored == nil {
		s.setCurrent(nil, "")
		return nil, nil
	}

	hash := hashToken(stored.Token)
	rec, err := s.store.GetSession(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("Stored session no longer exists", "user", stored.UserID)
		_ = s.sessions.Clear()
		s.setCurrent(nil, "")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if !s.now().Before(rec.ExpiresAt) {
		logger.Info("Session expired", "user", rec.UserID, "expired_at", rec.ExpiresAt)
		_ = s.store.DeleteSession(ctx, hash)
		_ = s.sessions.Clear()
		s.setCurrent(nil, "")
		return nil, nil
	}

	user := &User{ID: rec.UserID, Email: rec.Email, Provider: stored.Provider}
	s.setCurrent(user, stored.Token)
	return user, nil
}

// Current returns the signed-in user, or nil.
func (s *Service) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for sign-in state changes and immediately calls
// it with the current state.
func (s *Service) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) startSession(ctx context.Context, user *User) (*User, error) {
	s.mu.Lock()
	previous := s.token
	s.mu.Unlock()
	if previous != "" {
		if err := s.store.DeleteSession(ctx, hashToken(previous)); err != nil {
			logger.Warn("Failed to end previous session", "error", err)
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := models.SessionRecord{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	stored := StoredSession{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Provider:  user.Provider,
		ExpiresAt: rec.ExpiresAt.Unix(),
	}
	if err := s.sessions.Save(stored); err != nil {
		// The session works for this process; it just won't outlive it.
		logger.Warn("Failed to persist session", "error", err)
	}

	s.setCurrent(user, token)
	return user, nil
}

func (s *Service) setCurrent(user *User, token string) {
	s.mu.Lock()
	s.current = user
	s.token = token
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.Invalid("invalid email address %q", email)
	}
	return email, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
