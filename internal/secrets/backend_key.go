package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"kiralet-engine/internal/config"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "kiralet"

// GetBackendKey fetches the hosted backend's service API key from the OS
// keychain. The engine never writes the key to disk.
func GetBackendKey(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	key, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("backend API key not found in keychain")
	}
	return key, nil
}

func SetBackendKey(account, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteBackendKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// BackendKeyringAccount derives a stable keychain account name from config
// when none is set explicitly.
func BackendKeyringAccount(cfg config.Config) string {
	if cfg.Backend.APIKeyAccount != "" {
		return cfg.Backend.APIKeyAccount
	}
	return fmt.Sprintf("kiralet:backend:%s", cfg.Backend.BaseURL)
}
