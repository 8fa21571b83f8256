// Package admin holds operator commands. They act on the database
// directly, the way roles are assigned outside the app itself, and need
// no sign-in.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

type SetRoleCmd struct {
	User string `arg:"" help:"User ID or email."`
	Role string `arg:"" help:"Role to assign (user|admin)." enum:"user,admin"`
}

func (c *SetRoleCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	profile, err := findUser(dctx, ctx.Store, c.User)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetUserRole(dctx, profile.ID, models.Role(c.Role)); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	fmt.Fprintf(ctx.Out, "✓ %s is now %s\n", profile.Email, c.Role)
	return nil
}

type UsersCmd struct{}

func (c *UsersCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	users, err := ctx.Store.ListUsers(dctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(ctx.Out, "No users found")
		return nil
	}

	fmt.Fprintln(ctx.Out, "Users:")
	for _, u := range users {
		name := ""
		if u.DisplayName != nil {
			name = " (" + *u.DisplayName + ")"
		}
		fmt.Fprintf(ctx.Out, "  %-6s %s%s  %s\n", u.Role, u.Email, name, u.ID)
	}
	return nil
}

func findUser(ctx context.Context, store storage.Provider, ref string) (models.UserProfile, error) {
	profile, err := store.GetUser(ctx, ref)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.UserProfile{}, fmt.Errorf("failed to read user: %w", err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, ref) {
			return u, nil
		}
	}
	return models.UserProfile{}, fmt.Errorf("no user with ID or email %q", ref)
}
