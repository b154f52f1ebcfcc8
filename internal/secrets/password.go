package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "recruitpipe"

	adminAccount = "recruitpipe:admin"
)

// GetAdminPassword reads the bootstrap recruiter credential from the OS
// keychain. It is never persisted in the sqlite store or the config file.
func GetAdminPassword() (string, error) {
	pw, err := keyring.Get(KeyringService, adminAccount)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("admin password not found (set it via the local secrets endpoint)")
	}
	return pw, nil
}

func SetAdminPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, adminAccount, password)
}

func DeleteAdminPassword() error {
	return keyring.Delete(KeyringService, adminAccount)
}
