package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"spores/internal/shared"
)

// CacheFileName is the token cache's file name inside the config directory.
const CacheFileName = "token_cache.json"

// TokenStore reads and writes the token cache file.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the cache file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the cached credential. A missing file returns (nil, nil): not
// an error, it means interactive authorization is required. Any other read
// or parse failure is an error pointing at the file.
func (s *TokenStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: %s is corrupt: %v", shared.ErrCacheIO, s.path, err)
	}
	return &cred, nil
}

// Save writes the credential atomically: a temp file in the cache directory
// is renamed over the previous cache, so a crash mid-write cannot leave a
// truncated file behind.
func (s *TokenStore) Save(cred *Credential) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}

	tmp, err := os.CreateTemp(dir, CacheFileName+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	return nil
}
