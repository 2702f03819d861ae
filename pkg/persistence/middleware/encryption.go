package middleware

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

// envelopeHeader marks a stored value as encrypted. Values without it
// are returned as-is, so encryption can be enabled over an existing
// store without re-saving every schema. A plaintext schema starting
// with this exact comment line would be misread; don't write one.
var envelopeHeader = []byte("#oneconfig:aes256gcm\n")

// EncryptionConfig holds the keys for the encryption middleware.
// ActiveKey encrypts new saves. FallbackKeys are tried on load, oldest
// last, so keys can rotate without re-encrypting the whole store in
// one pass.
type EncryptionConfig struct {
	ActiveKey    []byte
	FallbackKeys [][]byte
}

// NewEncryptionMiddleware returns a Middleware that encrypts schema
// sources with AES-256-GCM before they reach the underlying store.
// It panics if any key is not 32 bytes; a truncated key is a
// deployment error, not a runtime condition.
func NewEncryptionMiddleware(cfg EncryptionConfig) Middleware {
	if len(cfg.ActiveKey) != 32 {
		panic("middleware: active key must be 32 bytes (AES-256)")
	}
	for i, key := range cfg.FallbackKeys {
		if len(key) != 32 {
			panic(fmt.Sprintf("middleware: fallback key %d must be 32 bytes (AES-256)", i))
		}
	}
	return func(next ports.SchemaStore) ports.SchemaStore {
		return &encryptionStore{next: next, cfg: cfg}
	}
}

type encryptionStore struct {
	next ports.SchemaStore
	cfg  EncryptionConfig
}

func (s *encryptionStore) Save(ctx context.Context, name string, src []byte) error {
	sealed, err := encrypt(s.cfg.ActiveKey, src)
	if err != nil {
		return fmt.Errorf("failed to encrypt schema %q: %w", name, err)
	}
	body := append([]byte(nil), envelopeHeader...)
	body = append(body, base64.StdEncoding.EncodeToString(sealed)...)
	body = append(body, '\n')
	return s.next.Save(ctx, name, body)
}

func (s *encryptionStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, envelopeHeader) {
		// Written before encryption was enabled.
		return data, nil
	}
	encoded := bytes.TrimSpace(data[len(envelopeHeader):])
	sealed := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(sealed, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypted schema %q: %w", name, err)
	}
	plain, err := s.decryptWithRotation(sealed[:n])
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt schema %q: %w", name, err)
	}
	return plain, nil
}

func (s *encryptionStore) Delete(ctx context.Context, name string) error {
	return s.next.Delete(ctx, name)
}

func (s *encryptionStore) List(ctx context.Context) ([]string, error) {
	return s.next.List(ctx)
}

func (s *encryptionStore) decryptWithRotation(sealed []byte) ([]byte, error) {
	keys := make([][]byte, 0, 1+len(s.cfg.FallbackKeys))
	keys = append(keys, s.cfg.ActiveKey)
	keys = append(keys, s.cfg.FallbackKeys...)
	for _, key := range keys {
		plain, err := decrypt(key, sealed)
		if err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	// The nonce is prepended to the ciphertext so load needs no
	// bookkeeping beyond the key.
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
