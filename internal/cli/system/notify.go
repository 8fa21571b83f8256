package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/config"
	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/notifier"
)

// NotifyRunCmd drains the task change feed and delivers notifications.
type NotifyRunCmd struct {
	Once bool `help:"Deliver one batch and exit instead of polling."`
}

// NewSender builds the transport named by the notifier config.
func NewSender(cfg *config.Config) (notifier.Sender, error) {
	switch cfg.Notifier.Transport {
	case constants.TransportSMTP:
		return notifier.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTPPassword(), cfg.Notifier.From), nil
	case constants.TransportWebhook:
		return notifier.NewWebhookSender(cfg.Webhook.URL, cfg.WebhookSecret(), cfg.WebhookTimeout()), nil
	case constants.TransportLog, "":
		return notifier.LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier transport %q", cfg.Notifier.Transport)
	}
}

func (c *NotifyRunCmd) Run(ctx *cli.Context) error {
	if err := ctx.Config.Validate(); err != nil {
		return fmt.Errorf("invalid notifier config: %w", err)
	}
	sender, err := NewSender(ctx.Config)
	if err != nil {
		return err
	}

	worker := notifier.NewWorker(ctx.Store, sender, ctx.Config.PollInterval(), ctx.Config.Notifier.BatchSize, ctx.Config.Notifier.FallbackRecipient)

	if c.Once {
		dctx, cancel := ctx.Deadline()
		defer cancel()
		stats, err := worker.RunOnce(dctx)
		if err != nil {
			return fmt.Errorf("failed to claim task events: %w", err)
		}
		fmt.Fprintf(ctx.Out, "Claimed %d event(s): %d sent, %d failed, %d skipped\n", stats.Claimed, stats.Sent, stats.Failed, stats.Skipped)
		return nil
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Notifier started", "transport", sender.Name(), "interval", ctx.Config.PollInterval())
	fmt.Fprintf(ctx.Out, "Delivering notifications via %s. Press Ctrl+C to stop.\n", sender.Name())
	err = worker.Run(sctx)
	logger.Info("Notifier stopped")
	return err
}

// ConfigExampleCmd prints a commented config.toml.
type ConfigExampleCmd struct{}

func (c *ConfigExampleCmd) Run(ctx *cli.Context) error {
	fmt.Fprint(ctx.Out, config.Example())
	return nil
}
