// Package account holds the sign-in commands.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/constants"
	apperrors "github.com/julianstephens/taskboard/internal/errors"
)

type RegisterCmd struct {
	Email    string `arg:"" help:"Email address for the new account."`
	Password string `help:"Account password. Prompted for when unset." env:"TASKBOARD_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	password, err := passwordFor(ctx, c.Password, "Choose a password")
	if err != nil {
		return err
	}

	dctx, cancel := ctx.Deadline()
	defer cancel()

	profile, err := ctx.Auth.Register(dctx, c.Email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "✓ Account created for %s (role %s)\n", profile.Email, profile.Role)
	fmt.Fprintln(ctx.Out, "  Sign in with 'taskboard login'")
	return nil
}

type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Account email. Omit with --google."`
	Password string `help:"Account password. Prompted for when unset." env:"TASKBOARD_PASSWORD"`
	Google   bool   `help:"Sign in with Google in the browser."`
}

func (c *LoginCmd) Validate() error {
	if c.Google && c.Email != "" {
		return errors.New("--google does not take an email")
	}
	if !c.Google && c.Email == "" {
		return errors.New("email is required unless --google is set")
	}
	return nil
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Google {
		// The browser round trip is bounded by the exchanger, not the command timeout.
		gctx, cancel := context.WithTimeout(context.Background(), constants.OAuthLoginTimeout+ctx.Timeout)
		defer cancel()
		user, err := ctx.Auth.LoginWithGoogle(gctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "✓ Signed in as %s\n", user.Email)
		return nil
	}

	password, err := passwordFor(ctx, c.Password, "Password")
	if err != nil {
		return err
	}

	dctx, cancel := ctx.Deadline()
	defer cancel()
	user, err := ctx.Auth.Login(dctx, c.Email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Signed in as %s\n", user.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	user, err := ctx.Identity.Restore(dctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Fprintln(ctx.Out, "Not signed in")
		return nil
	}
	if err := ctx.Auth.Logout(dctx); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Signed out %s\n", user.Email)
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	sess, err := ctx.Session(dctx)
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		fmt.Fprintln(ctx.Out, "Not signed in")
		return nil
	}
	if err != nil {
		return err
	}

	p := sess.Principal
	fmt.Fprintf(ctx.Out, "Email: %s\n", p.Email)
	fmt.Fprintf(ctx.Out, "ID:    %s\n", p.ID)
	fmt.Fprintf(ctx.Out, "Role:  %s\n", p.Role)
	if p.IsAdmin() {
		fmt.Fprintln(ctx.Out, "       (read-only: tasks can be viewed but not changed)")
	}
	return nil
}

func passwordFor(ctx *cli.Context, given, title string) (string, error) {
	if given != "" {
		return given, nil
	}
	password, err := ctx.Prompt.Password(title)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}
