// Package config loads taskboard's optional TOML settings file.
//
// Sources apply in order: defaults, the config file, then TASKBOARD_*
// environment variables. Command-line flags are handled by kong and win
// over all of these. Secrets are never read from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/keyring"
	"github.com/julianstephens/taskboard/internal/logger"
)

type Config struct {
	Notifier NotifierConfig `toml:"notifier"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Webhook  WebhookConfig  `toml:"webhook"`
	Google   GoogleConfig   `toml:"google"`
	Backup   BackupConfig   `toml:"backup"`
}

type NotifierConfig struct {
	Transport           string `toml:"transport"` // smtp, webhook or log
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	BatchSize           int    `toml:"batch_size"`
	From                string `toml:"from"`
	// FallbackRecipient receives mail for owners with no known address.
	FallbackRecipient string `toml:"fallback_recipient"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
}

type WebhookConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	RedirectPort int    `toml:"redirect_port"`
}

type BackupConfig struct {
	// Keep is how many SQLite backups survive rotation.
	Keep int `toml:"keep"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Notifier: NotifierConfig{
			Transport:           constants.DefaultNotifierTransport,
			PollIntervalSeconds: constants.DefaultPollIntervalSeconds,
			BatchSize:           constants.DefaultNotifyBatchSize,
			From:                constants.DefaultMailFrom,
		},
		SMTP: SMTPConfig{
			Port: constants.DefaultSMTPPort,
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: constants.DefaultWebhookTimeoutSec,
		},
		Google: GoogleConfig{
			RedirectPort: constants.DefaultOAuthRedirectPort,
		},
		Backup: BackupConfig{
			Keep: constants.DefaultBackupKeep,
		},
	}
}

// DefaultPath is config.toml next to the default database.
func DefaultPath() string {
	return filepath.Join(filepath.Dir(expandHome(constants.DefaultConfigPath)), constants.ConfigFileName)
}

// Load reads path (a missing file is fine), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		path = expandHome(path)
		if _, err := os.Stat(path); err == nil {
			md, err := toml.DecodeFile(path, cfg)
			if err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
			for _, key := range md.Undecoded() {
				logger.Warn("Unknown config key", "file", path, "key", key.String())
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	setInt := func(name string, dst *int) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", name, v)
		}
		*dst = n
		return nil
	}
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString("TASKBOARD_NOTIFY_TRANSPORT", &cfg.Notifier.Transport)
	setString("TASKBOARD_NOTIFY_FROM", &cfg.Notifier.From)
	setString("TASKBOARD_NOTIFY_FALLBACK", &cfg.Notifier.FallbackRecipient)
	setString("TASKBOARD_SMTP_HOST", &cfg.SMTP.Host)
	setString("TASKBOARD_SMTP_USERNAME", &cfg.SMTP.Username)
	setString("TASKBOARD_WEBHOOK_URL", &cfg.Webhook.URL)
	setString("TASKBOARD_GOOGLE_CLIENT_ID", &cfg.Google.ClientID)

	for name, dst := range map[string]*int{
		"TASKBOARD_NOTIFY_POLL_SECONDS": &cfg.Notifier.PollIntervalSeconds,
		"TASKBOARD_NOTIFY_BATCH_SIZE":   &cfg.Notifier.BatchSize,
		"TASKBOARD_SMTP_PORT":           &cfg.SMTP.Port,
		"TASKBOARD_BACKUP_KEEP":         &cfg.Backup.Keep,
	} {
		if err := setInt(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the settings that the notifier and Google sign-in rely on.
func (c *Config) Validate() error {
	switch c.Notifier.Transport {
	case constants.TransportLog, constants.TransportSMTP, constants.TransportWebhook:
	default:
		return fmt.Errorf("notifier.transport must be one of %s, %s, %s (got %q)",
			constants.TransportLog, constants.TransportSMTP, constants.TransportWebhook, c.Notifier.Transport)
	}
	if c.Notifier.PollIntervalSeconds < 1 {
		return fmt.Errorf("notifier.poll_interval_seconds must be at least 1")
	}
	if c.Notifier.BatchSize < 1 {
		return fmt.Errorf("notifier.batch_size must be at least 1")
	}
	if c.Notifier.Transport == constants.TransportSMTP && c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required for the smtp transport")
	}
	if c.Notifier.Transport == constants.TransportWebhook && c.Webhook.URL == "" {
		return fmt.Errorf("webhook.url is required for the webhook transport")
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port out of range: %d", c.SMTP.Port)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup.keep must be at least 1")
	}
	if c.Google.RedirectPort < 0 || c.Google.RedirectPort > 65535 {
		return fmt.Errorf("google.redirect_port out of range: %d", c.Google.RedirectPort)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Notifier.PollIntervalSeconds) * time.Second
}

func (c *Config) WebhookTimeout() time.Duration {
	if c.Webhook.TimeoutSeconds <= 0 {
		return constants.DefaultWebhookTimeoutSec * time.Second
	}
	return time.Duration(c.Webhook.TimeoutSeconds) * time.Second
}

// Secret resolves a credential from the environment, then the keyring.
// It returns "" when neither has it.
func Secret(envName, keyringEntry string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	v, err := keyring.Get(keyringEntry)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "entry", keyringEntry, "error", err)
		}
		return ""
	}
	return v
}

func (c *Config) SMTPPassword() string {
	return Secret(constants.EnvSMTPPassword, keyring.EntrySMTPPassword)
}

func (c *Config) WebhookSecret() string {
	return Secret(constants.EnvWebhookSecret, keyring.EntryWebhookSecret)
}

func (c *Config) GoogleClientSecret() string {
	return Secret(constants.EnvGoogleClientSecret, keyring.EntryGoogleSecret)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
