package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/taskboard/internal/logger"
)

var (
	// ErrUnauthenticated is returned when an operation requires a signed-in principal.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrForbidden is returned when the principal's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrNotFound is returned when a record does not exist or is not visible to the principal.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every validation failure on caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSlotOccupied is returned when a time slot is already held by another visible task.
	ErrSlotOccupied = errors.New("time slot is already occupied")
	// ErrInvalidCredentials is returned by the identity provider for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists is returned when registering an email that already has an account.
	ErrAccountExists = errors.New("an account with this email already exists")
)

// Invalid wraps ErrInvalidInput with a formatted reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
