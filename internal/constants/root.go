package constants

const (
	AppName            = "taskboard"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	DefaultConfigPath  = "~/.config/taskboard/taskboard.db"
	ConfigFileName     = "config.toml"
	LogFileName        = "taskboard.log"
	Version            = "v0.1.0"

	// EnvDBConnection supplies a PostgreSQL connection string (with password)
	// without placing it on the command line.
	EnvDBConnection = "TASKBOARD_DB_CONNECTION"
	// EnvSMTPPassword supplies the SMTP password for the mail notifier.
	EnvSMTPPassword = "TASKBOARD_SMTP_PASSWORD"
	// EnvGoogleClientSecret supplies the OAuth client secret for Google sign-in.
	EnvGoogleClientSecret = "TASKBOARD_GOOGLE_CLIENT_SECRET"
	// EnvWebhookSecret is sent with every webhook notification.
	EnvWebhookSecret = "TASKBOARD_WEBHOOK_SECRET"

	// Notification constants
	UntitledTaskTitle = "Untitled Task"
	NoDueDateLabel    = "No due date"
	NoDescription     = "None"
	WebhookSecretHdr  = "X-Taskboard-Secret"
)
