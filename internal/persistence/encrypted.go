package persistence

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/hope/apps/backend/internal/security"
)

// EncryptedAdapter seals values before handing them to the wrapped adapter.
// The key is bound as associated data, so a value copied under another key
// does not decrypt.
type EncryptedAdapter struct {
	next      Adapter
	encryptor *security.Encryptor
}

// NewEncryptedAdapter wraps next with AES-GCM encryption
func NewEncryptedAdapter(next Adapter, encryptor *security.Encryptor) *EncryptedAdapter {
	return &EncryptedAdapter{next: next, encryptor: encryptor}
}

// Get fetches and decrypts the value stored under key
func (a *EncryptedAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := a.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plaintext, err := a.encryptor.Decrypt(sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt persisted value: %w", err)
	}
	return plaintext, nil
}

// Set encrypts value and stores it under key
func (a *EncryptedAdapter) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := a.encryptor.Encrypt(value, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to encrypt persisted value: %w", err)
	}
	return a.next.Set(ctx, key, sealed)
}

// Delete removes the value stored under key
func (a *EncryptedAdapter) Delete(ctx context.Context, key string) error {
	return a.next.Delete(ctx, key)
}
