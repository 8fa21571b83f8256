package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

type fakeProfiles struct {
	profiles map[string]models.UserProfile
	err      error
	calls    int
}

func (f *fakeProfiles) GetUser(_ context.Context, id string) (models.UserProfile, error) {
	f.calls++
	if f.err != nil {
		return models.UserProfile{}, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return models.UserProfile{}, storage.ErrNotFound
	}
	return p, nil
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Logger
	logger.NewWriterLogger(&buf, log.DebugLevel)
	t.Cleanup(func() { logger.Logger = prev })
	return &buf
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeProfiles
		want    models.Role
		wantLog string
	}{
		{
			name:  "admin profile",
			store: &fakeProfiles{profiles: map[string]models.UserProfile{"u1": {ID: "u1", Role: models.RoleAdmin}}},
			want:  models.RoleAdmin,
		},
		{
			name:  "user profile",
			store: &fakeProfiles{profiles: map[string]models.UserProfile{"u1": {ID: "u1", Role: models.RoleUser}}},
			want:  models.RoleUser,
		},
		{
			name:  "empty stored role",
			store: &fakeProfiles{profiles: map[string]models.UserProfile{"u1": {ID: "u1"}}},
			want:  models.RoleUser,
		},
		{
			name:  "unknown stored role",
			store: &fakeProfiles{profiles: map[string]models.UserProfile{"u1": {ID: "u1", Role: "superuser"}}},
			want:  models.RoleUser,
		},
		{
			name:    "missing profile",
			store:   &fakeProfiles{profiles: map[string]models.UserProfile{}},
			want:    models.RoleUser,
			wantLog: "profile missing",
		},
		{
			name:    "read failure",
			store:   &fakeProfiles{err: errors.New("permission denied")},
			want:    models.RoleUser,
			wantLog: "profile read failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			if got := ResolveRole(context.Background(), tt.store, "u1"); got != tt.want {
				t.Errorf("ResolveRole() = %q, want %q", got, tt.want)
			}
			if tt.wantLog != "" && !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log output %q does not mention %q", buf.String(), tt.wantLog)
			}
		})
	}
}

// fakeProvider implements identity.Provider with an in-memory listener list.
type fakeProvider struct {
	identity.Provider
	current     *identity.User
	listeners   []identity.Listener
	subscribers int
}

func (f *fakeProvider) Subscribe(fn identity.Listener) func() {
	f.subscribers++
	f.listeners = append(f.listeners, fn)
	fn(f.current)
	return func() { f.subscribers-- }
}

func (f *fakeProvider) emit(u *identity.User) {
	f.current = u
	for _, fn := range f.listeners {
		fn(u)
	}
}

func TestManagerFollowsProvider(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]models.UserProfile{
		"admin": {ID: "admin", Role: models.RoleAdmin},
		"u1":    {ID: "u1", Role: models.RoleUser},
	}}
	provider := &fakeProvider{}
	m := NewManager(profiles)
	ctx := context.Background()

	m.Attach(ctx, provider)
	m.Attach(ctx, provider)
	if provider.subscribers != 1 {
		t.Fatalf("Attach() subscribed %d times, want 1", provider.subscribers)
	}
	if m.Current() != nil {
		t.Error("signed-out provider should yield a nil session")
	}

	provider.emit(&identity.User{ID: "admin", Email: "root@example.com"})
	sess := m.Current()
	if sess == nil || sess.Principal.Role != models.RoleAdmin || sess.Principal.Email != "root@example.com" {
		t.Fatalf("session after admin sign-in = %+v", sess)
	}

	provider.emit(&identity.User{ID: "u1", Email: "u1@example.com"})
	if sess := m.Current(); sess == nil || sess.Principal.ID != "u1" || sess.Principal.Role != models.RoleUser {
		t.Errorf("session after switching user = %+v", sess)
	}

	provider.emit(nil)
	if m.Current() != nil {
		t.Error("sign-out should clear the session")
	}

	m.Detach()
	if provider.subscribers != 0 {
		t.Errorf("Detach() left %d subscriptions", provider.subscribers)
	}
}

// ctxProfiles fails lookups on a cancelled context, like a real store.
type ctxProfiles struct {
	fakeProfiles
}

func (c *ctxProfiles) GetUser(ctx context.Context, id string) (models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.UserProfile{}, err
	}
	return c.fakeProfiles.GetUser(ctx, id)
}

func TestManagerOutlivesAttachDeadline(t *testing.T) {
	profiles := &ctxProfiles{fakeProfiles{profiles: map[string]models.UserProfile{
		"admin": {ID: "admin", Role: models.RoleAdmin},
	}}}
	provider := &fakeProvider{}
	m := NewManager(profiles)

	ctx, cancel := context.WithCancel(context.Background())
	m.Attach(ctx, provider)
	cancel()

	provider.emit(&identity.User{ID: "admin", Email: "root@example.com"})
	if sess := m.Current(); sess == nil || sess.Principal.Role != models.RoleAdmin {
		t.Errorf("role resolved after the attach deadline = %+v, want admin", sess)
	}
}
