// Package secrets keeps credentials in the OS keychain; nothing sensitive
// ever lives in the YAML config.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "easyapply"
)

// GetAccountPassword looks up the site login password for the given keyring
// account.
func GetAccountPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil {
		return "", fmt.Errorf("account password not found in keychain: %w", err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("account password in keychain is empty")
	}
	return pw, nil
}

func SetAccountPassword(keyringAccount, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteAccountPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// AccountKey names the site login entry for a username.
func AccountKey(username string) string {
	return fmt.Sprintf("easyapply:login:%s", username)
}

// IMAPKey names the mailbox app-password entry used for verification-code
// fetching.
func IMAPKey(username, host string) string {
	return fmt.Sprintf("easyapply:imap:%s@%s", username, host)
}

// GetIMAPPassword looks up the mailbox app password.
func GetIMAPPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil {
		return "", fmt.Errorf("IMAP password not found in keychain: %w", err)
	}
	return pw, nil
}

func SetIMAPPassword(keyringAccount, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}
