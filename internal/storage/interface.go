package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/taskboard/internal/models"
)

// ErrNotFound is returned by Get* lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned by Create* calls when the key is taken.
var ErrAlreadyExists = errors.New("record already exists")

// Provider is the persistent store behind taskboard: user profiles,
// identity-provider accounts, sessions, tasks and the task change feed.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// User profiles (users/{uid})
	GetUser(ctx context.Context, id string) (models.UserProfile, error)
	// CreateUser inserts the profile and assigns CreatedAt. It fails if a
	// profile already exists for the id.
	CreateUser(ctx context.Context, profile models.UserProfile) (models.UserProfile, error)
	SetUserRole(ctx context.Context, id string, role models.Role) error
	ListUsers(ctx context.Context) ([]models.UserProfile, error)

	// Identity-provider accounts
	CreateIdentity(ctx context.Context, identity models.Identity) error
	GetIdentity(ctx context.Context, provider models.IdentityProvider, subject string) (models.Identity, error)

	// Sessions
	CreateSession(ctx context.Context, session models.SessionRecord) error
	GetSession(ctx context.Context, tokenHash string) (models.SessionRecord, error)
	DeleteSession(ctx context.Context, tokenHash string) error

	// Tasks
	// AddTask inserts a task and assigns CreatedAt and UpdatedAt. The
	// stored record is returned.
	AddTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	QueryTasks(ctx context.Context, query TaskQuery) ([]models.Task, error)
	// UpdateTask writes the mutable fields of task and refreshes UpdatedAt.
	// OwnerID and CreatedAt are never written.
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Task change feed
	// ClaimTaskEvents removes and returns up to limit of the oldest
	// pending events. A claimed event is never returned again.
	ClaimTaskEvents(ctx context.Context, limit int) ([]models.TaskEvent, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by stores with versioned schemas.
type Migrator interface {
	Migrate(ctx context.Context) (int, error)
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}
