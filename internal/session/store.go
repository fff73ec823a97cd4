package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// TokenStore persists the raw token between runs.
type TokenStore interface {
	// Load returns ErrNoSession when nothing is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore creates a keychain-backed store.
func NewKeyringStore(service, account string) *KeyringStore {
	return &KeyringStore{service: service, account: account}
}

func (k *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(k.service, k.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read token from keychain: %w", err)
	}
	return token, nil
}

func (k *KeyringStore) Save(token string) error {
	if err := keyring.Set(k.service, k.account, token); err != nil {
		return fmt.Errorf("store token in keychain: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.service, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete token from keychain: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoSession
	}
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
