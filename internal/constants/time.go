package constants

import "time"

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is the fixed-width UTC layout the SQLite store writes.
	// Fixed width keeps lexical and chronological order identical.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z"

	// DefaultCommandTimeout bounds every store round trip issued by a CLI command.
	DefaultCommandTimeout = 30 * time.Second

	// SessionTTL is how long a sign-in stays valid without being refreshed.
	SessionTTL = 30 * 24 * time.Hour

	// OAuthLoginTimeout bounds the wait for the browser redirect during Google sign-in.
	OAuthLoginTimeout = 5 * time.Minute
)

// TimeSlots is the fixed, ordered set of hour-long scheduling slots a task
// may occupy. The empty string means unscheduled.
var TimeSlots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
	"17:00-18:00",
}
