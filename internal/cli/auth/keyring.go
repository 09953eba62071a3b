package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keychain service name items are stored under
const KeyringService = "tripjournal"

// KeyringStorage persists items in the OS keychain/credential manager
type KeyringStorage struct {
	service string
}

// NewKeyringStorage creates a keychain-backed storage for the given service
func NewKeyringStorage(service string) *KeyringStorage {
	return &KeyringStorage{service: service}
}

func (k *KeyringStorage) GetItem(key string) (string, bool, error) {
	v, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return v, true, nil
}

func (k *KeyringStorage) SetItem(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStorage) RemoveItem(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
