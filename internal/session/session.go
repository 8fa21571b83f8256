package session

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

// Session is the signed-in principal with its resolved role. A nil
// *Session means nobody is signed in.
type Session struct {
	Principal models.Principal
}

// ProfileReader reads users/{uid} records.
type ProfileReader interface {
	GetUser(ctx context.Context, id string) (models.UserProfile, error)
}

// ResolveRole returns the stored role for id. It never fails: a missing
// profile, a read error or an unrecognized role all resolve to RoleUser.
func ResolveRole(ctx context.Context, profiles ProfileReader, id string) models.Role {
	profile, err := profiles.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("profile missing", "user", id)
		return models.RoleUser
	}
	if err != nil {
		logger.Warn("profile read failed", "user", id, "error", err)
		return models.RoleUser
	}
	if !profile.Role.Valid() {
		return models.RoleUser
	}
	return profile.Role
}

// Manager follows the identity provider and keeps the current Session.
type Manager struct {
	profiles ProfileReader

	mu          sync.RWMutex
	current     *Session
	unsubscribe func()
}

func NewManager(profiles ProfileReader) *Manager {
	return &Manager{profiles: profiles}
}

// Attach subscribes to the provider's sign-in changes. Calling it again
// is a no-op; the manager holds at most one subscription.
func (m *Manager) Attach(ctx context.Context, provider identity.Provider) {
	m.mu.Lock()
	if m.unsubscribe != nil {
		m.mu.Unlock()
		return
	}
	// Reserve the slot before subscribing; Subscribe delivers synchronously.
	m.unsubscribe = func() {}
	m.mu.Unlock()

	// Later sign-in changes outlive the caller's deadline.
	ctx = context.WithoutCancel(ctx)

	unsubscribe := provider.Subscribe(func(user *identity.User) {
		m.update(ctx, user)
	})

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

// Detach drops the subscription and forgets the session.
func (m *Manager) Detach() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.current = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Current returns the live session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) update(ctx context.Context, user *identity.User) {
	var next *Session
	if user != nil {
		next = &Session{Principal: models.Principal{
			ID:    user.ID,
			Email: user.Email,
			Role:  ResolveRole(ctx, m.profiles, user.ID),
		}}
	}

	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
}
