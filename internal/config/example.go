package config

// Example returns a commented config.toml showing every option.
func Example() string {
	return `# taskboard configuration
# Secrets are read from the environment or the OS keyring, never this file:
#   TASKBOARD_SMTP_PASSWORD, TASKBOARD_WEBHOOK_SECRET, TASKBOARD_GOOGLE_CLIENT_SECRET

[notifier]
# smtp, webhook or log
transport = "log"
poll_interval_seconds = 5
batch_size = 50
from = "Task Manager <no-reply@taskboard.local>"
# fallback_recipient = "ops@example.com"

[smtp]
# host = "smtp.example.com"
port = 587
# username = "taskboard"

[webhook]
# url = "https://hooks.example.com/taskboard"
timeout_seconds = 10

[google]
# client_id = "1234.apps.googleusercontent.com"
redirect_port = 6789

[backup]
# SQLite backups kept by "taskboard backup create" and "init --force"
keep = 14
`
}
