package constants

const (
	// Notifier transports
	TransportSMTP    = "smtp"
	TransportWebhook = "webhook"
	TransportLog     = "log"

	// Default configuration values
	DefaultNotifierTransport   = TransportLog
	DefaultPollIntervalSeconds = 5
	DefaultNotifyBatchSize     = 50
	DefaultMailFrom            = "Task Manager <no-reply@taskboard.local>"
	DefaultSMTPPort            = 587
	DefaultOAuthRedirectPort   = 6789
	DefaultWebhookTimeoutSec   = 10
	DefaultBackupKeep          = 14
)
