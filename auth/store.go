package auth

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// Store is the persistent key/value storage the session lives in.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// FileStore keeps keys in a JSON file readable only by the owner. With a
// passphrase the file is sealed with secretbox under an scrypt-derived key.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string

	// salt and derived hold the scrypt key for the file's salt; guarded by mu.
	salt        []byte
	derived     *[keySize]byte
	derivations int
}

func NewFileStore(path, passphrase string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if f.passphrase != "" {
		if raw, err = f.open(raw); err != nil {
			return nil, err
		}
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	return data, nil
}

func (f *FileStore) save(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if f.passphrase != "" {
		if raw, err = f.seal(raw); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) key(salt []byte) (*[keySize]byte, error) {
	if f.derived != nil && bytes.Equal(salt, f.salt) {
		return f.derived, nil
	}
	k, err := scrypt.Key([]byte(f.passphrase), salt, 1<<15, 8, 1, keySize)
	if err != nil {
		return nil, err
	}
	f.derivations++
	var key [keySize]byte
	copy(key[:], k)
	f.salt = append([]byte(nil), salt...)
	f.derived = &key
	return f.derived, nil
}

// seal lays the file out as salt | nonce | box.
func (f *FileStore) seal(plain []byte) ([]byte, error) {
	// The nonce is fresh per save, so the salt can stay with the file.
	salt := f.salt
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	key, err := f.key(salt)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, key), nil
}

func (f *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize+secretbox.Overhead {
		return nil, errors.New("store is corrupt or not sealed")
	}
	key, err := f.key(sealed[:saltSize])
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, sealed[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, errors.New("store passphrase is wrong")
	}
	return plain, nil
}
