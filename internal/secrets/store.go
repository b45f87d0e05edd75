// Package secrets is the local key-value secret store the session token and
// serialized user live in between launches. One encrypted JSON document per
// store file; AES-GCM with a key derived from the caller's master secret.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/hkdf"
)

const keyInfo = "parkledger/secrets/v1"

// Store is a file-backed key-value store. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	key    []byte
	values map[string]string
}

// Open loads (or initializes) the store at path, deriving the encryption key
// from master. A missing file is an empty store; a file that fails to
// decrypt is an error, not an empty store.
func Open(path string, master []byte) (*Store, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("master secret must not be empty")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, master, nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("deriving store key: %w", err)
	}

	s := &Store{path: path, key: key, values: make(map[string]string)}

	blob, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secret store: %w", err)
	}
	plain, err := decrypt(key, blob)
	if err != nil {
		return nil, fmt.Errorf("decrypting secret store: %w", err)
	}
	if err := json.Unmarshal(plain, &s.values); err != nil {
		return nil, fmt.Errorf("parsing secret store: %w", err)
	}
	return s, nil
}

// GetItem returns the stored value for key.
func (s *Store) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// SetItem stores a value and persists the file.
func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.persistLocked()
}

// DeleteItem removes a value and persists the file. Deleting a missing key
// is not an error.
func (s *Store) DeleteItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	plain, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding secret store: %w", err)
	}
	blob, err := encrypt(s.key, plain)
	if err != nil {
		return fmt.Errorf("encrypting secret store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating secret store dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, blob, 0600); err != nil {
		return fmt.Errorf("writing secret store: %w", err)
	}
	return nil
}

// encrypt seals plaintext with AES-GCM, nonce prefixed.
func encrypt(key, plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(blob) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
