package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/keyring"
	"github.com/julianstephens/taskboard/internal/storage/postgres"
)

// SetConnectionCmd stores a PostgreSQL connection string in the OS keyring.
type SetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") &&
		!strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// Passwords are allowed in the keyring.
		fmt.Fprintln(ctx.Out, "⚠️  Connection string contains embedded credentials; storing it in the OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Fprintln(ctx.Out, "✓ Connection string stored successfully in OS keyring")
	fmt.Fprintln(ctx.Out, "  It is used whenever --config is left at its default")
	return nil
}

type ShowConnectionCmd struct{}

func (cmd *ShowConnectionCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'taskboard config set-connection' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Fprintln(ctx.Out, maskPassword(connStr))
	return nil
}

type ClearConnectionCmd struct{}

func (cmd *ClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Fprintln(ctx.Out, "✓ Connection string deleted from OS keyring")
	return nil
}

var secretEntries = map[string]string{
	"smtp-password":        keyring.EntrySMTPPassword,
	"webhook-secret":       keyring.EntryWebhookSecret,
	"google-client-secret": keyring.EntryGoogleSecret,
}

// SetSecretCmd stores a notifier or sign-in secret in the OS keyring.
type SetSecretCmd struct {
	Name string `arg:"" help:"Secret to store." enum:"smtp-password,webhook-secret,google-client-secret"`
}

func (cmd *SetSecretCmd) Run(ctx *cli.Context) error {
	entry, ok := secretEntries[cmd.Name]
	if !ok {
		return fmt.Errorf("unknown secret %q", cmd.Name)
	}

	value, err := ctx.Prompt.Password(cmd.Name)
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	if err := keyring.Set(entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", cmd.Name, err)
	}

	fmt.Fprintf(ctx.Out, "✓ %s stored in OS keyring\n", cmd.Name)
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host.
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
