package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/julianstephens/taskboard/internal/auth"
	"github.com/julianstephens/taskboard/internal/config"
	"github.com/julianstephens/taskboard/internal/constants"
	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/session"
	"github.com/julianstephens/taskboard/internal/storage"
	"github.com/julianstephens/taskboard/internal/tasks"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Identity *identity.Service
	Auth     *auth.Bridge
	Sessions *session.Manager
	Tasks    *tasks.Service
	Prompt   Prompter
	Out      io.Writer
	Timeout  time.Duration
}

// NewContext wires the services on top of store. federated may be nil when
// Google sign-in is not configured.
func NewContext(store storage.Provider, cfg *config.Config, sessions identity.SessionStore, federated identity.FederatedExchanger) *Context {
	var opts []identity.Option
	if federated != nil {
		opts = append(opts, identity.WithFederated(federated))
	}
	if cfg == nil {
		cfg = config.Default()
	}

	ids := identity.NewService(store, sessions, opts...)
	return &Context{
		Store:    store,
		Config:   cfg,
		Identity: ids,
		Auth:     auth.NewBridge(ids, store),
		Sessions: session.NewManager(store),
		Tasks:    tasks.NewService(store),
		Prompt:   HuhPrompter{},
		Out:      os.Stdout,
		Timeout:  constants.DefaultCommandTimeout,
	}
}

// Deadline returns a context bounded by the command timeout.
func (c *Context) Deadline() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// Session restores the persisted sign-in and returns the live session.
// It returns ErrUnauthenticated when nobody is signed in.
func (c *Context) Session(ctx context.Context) (*session.Session, error) {
	if c.Identity.Current() == nil {
		if _, err := c.Identity.Restore(ctx); err != nil {
			return nil, err
		}
	}
	c.Sessions.Attach(ctx, c.Identity)

	sess := c.Sessions.Current()
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return sess, nil
}

// Writer returns the signed-in user's write access.
func (c *Context) Writer(ctx context.Context) (tasks.Writer, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	return c.Tasks.Writer(sess)
}

// Reader returns read access for whoever is signed in.
func (c *Context) Reader(ctx context.Context) (tasks.Reader, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	return c.Tasks.Authorize(sess)
}

// Board returns a view of every task the signed-in user owns. Writes made
// through it refresh the view.
func (c *Context) Board(ctx context.Context) (*tasks.View, tasks.Writer, error) {
	w, err := c.Writer(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tasks.NewView(w, models.FilterAll, models.SortDefault), w, nil
}
