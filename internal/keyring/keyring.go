package keyring

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/taskboard/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entries stored under the taskboard service name.
const (
	EntryConnection    = constants.DefaultKeyringUser
	EntrySession       = constants.SessionKeyringUser
	EntrySMTPPassword  = "smtp-password"
	EntryGoogleSecret  = "google-client-secret"
	EntryWebhookSecret = "webhook-secret"
)

// Get reads a secret entry. Returns ErrNotFound if nothing is stored.
func Get(entry string) (string, error) {
	v, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func Set(entry, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", entry)
	}
	if err := keyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

func Delete(entry string) error {
	if err := keyring.Delete(constants.AppName, entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetBlob reads binary data stored with SetBlob.
func GetBlob(entry string) ([]byte, error) {
	v, err := Get(entry)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("corrupt keyring entry %s: %w", entry, err)
	}
	return data, nil
}

// SetBlob stores binary data base64-encoded, since OS keyrings hold text.
func SetBlob(entry string, data []byte) error {
	return Set(entry, base64.StdEncoding.EncodeToString(data))
}

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return Get(EntryConnection)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	return Set(EntryConnection, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(EntryConnection)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered.
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
