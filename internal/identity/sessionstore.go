package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/julianstephens/taskboard/internal/keyring"
	"github.com/julianstephens/taskboard/internal/models"
)

// StoredSession is the client-side half of a session.
type StoredSession struct {
	Token     string                  `cbor:"token"`
	UserID    string                  `cbor:"user_id"`
	Email     string                  `cbor:"email"`
	Provider  models.IdentityProvider `cbor:"provider"`
	ExpiresAt int64                   `cbor:"expires_at"` // unix seconds
}

// SessionStore persists the client-side session between invocations.
// Load returns nil, nil when nothing is stored.
type SessionStore interface {
	Load() (*StoredSession, error)
	Save(session StoredSession) error
	Clear() error
}

var sessionEncMode cbor.EncMode

func init() {
	var err error
	sessionEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("identity: CBOR encoder initialization failed: " + err.Error())
	}
}

// KeyringSessionStore keeps the session CBOR-encoded in the OS keyring.
type KeyringSessionStore struct{}

func (KeyringSessionStore) Load() (*StoredSession, error) {
	data, err := keyring.GetBlob(keyring.EntrySession)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s StoredSession
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return &s, nil
}

func (KeyringSessionStore) Save(session StoredSession) error {
	data, err := sessionEncMode.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return keyring.SetBlob(keyring.EntrySession, data)
}

func (KeyringSessionStore) Clear() error {
	if err := keyring.Delete(keyring.EntrySession); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// MemorySessionStore keeps the session for the life of the process.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *StoredSession
}

func (m *MemorySessionStore) Load() (*StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MemorySessionStore) Save(session StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
