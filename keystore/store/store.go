// Package store implements the on-disk secret store: a cache of decrypted
// secrets keyed by UUID, backed by one keystore v3 JSON file per key under
// a keys directory. Mutating operations and cache-populating reads are not
// internally synchronized — the caller must serialize access, matching the
// surrounding system's single-writer convention for this kind of state.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ethkeys/keyvault/keystore/codec"
	"github.com/ethkeys/keyvault/keystore/uuid"
	rawbytes "github.com/ethkeys/keyvault/primitives/bytes"
)

// writeVersion is the version field this store writes to new keystore
// files. The format is version 3; the reader accepts 2 or 3 for
// compatibility with older stores, but every file this package writes
// carries 3.
const writeVersion = 3

// fileMode is the permission mode for written keystore files: owner
// read/write only, since they contain (encrypted) key material.
const fileMode = 0600

// ErrSecretNotFound reports an unknown UUID. No Store method returns it:
// Secret returns nil and Kill does nothing for an unknown UUID.
var ErrSecretNotFound = errors.New("store: unknown uuid")

// keyFile is the on-disk shape of a <uuid>.json keystore entry.
type keyFile struct {
	Crypto  json.RawMessage `json:"crypto"`
	ID      string          `json:"id"`
	Version int             `json:"version"`
}

// storedKey is a loaded-but-not-necessarily-decrypted keystore entry.
type storedKey struct {
	encryptedJSON json.RawMessage
	backingPath   string
}

// Store is the secret store: an in-memory index of known keys plus a
// plaintext cache, backed by keystore v3 files under a directory.
type Store struct {
	keysPath string
	log      *logrus.Logger

	keys  map[uuid.UUID]storedKey
	cache map[uuid.UUID][]byte
}

// DefaultKeysDir returns the default keystore directory, $HOME/.ethkeys/keystore.
func DefaultKeysDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ethkeys", "keystore"), nil
}

// New opens the store at the default keys directory.
func New(log *logrus.Logger) (*Store, error) {
	dir, err := DefaultKeysDir()
	if err != nil {
		return nil, err
	}
	return NewAt(dir, log)
}

// NewAt opens the store at keysPath, loading any existing entries. A nil
// logger defaults to logrus.StandardLogger().
func NewAt(keysPath string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{
		keysPath: keysPath,
		log:      log,
		keys:     make(map[uuid.UUID]storedKey),
		cache:    make(map[uuid.UUID][]byte),
	}
	if err := s.Load(keysPath); err != nil {
		return nil, err
	}
	return s, nil
}

// ImportSecret encrypts secret under passphrase, assigns it a fresh UUID,
// caches the plaintext, and persists it under the store's keys directory.
func (s *Store) ImportSecret(secret []byte, passphrase string) (uuid.UUID, error) {
	id, err := uuid.New()
	if err != nil {
		return uuid.Nil, err
	}

	s.cache[id] = rawbytes.Copy(secret)

	encrypted, err := codec.Encrypt(secret, passphrase)
	if err != nil {
		return uuid.Nil, err
	}
	s.keys[id] = storedKey{encryptedJSON: encrypted, backingPath: ""}

	if err := s.Save(s.keysPath); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// Secret returns the plaintext secret for id. On a cache miss it decrypts
// the backing file using the passphrase returned by passphraseProvider,
// caching the result on success. Returns nil if id is unknown or the
// passphrase is wrong — callers may retry with a different passphrase.
func (s *Store) Secret(id uuid.UUID, passphraseProvider func() string) []byte {
	if cached, ok := s.cache[id]; ok {
		return rawbytes.Copy(cached)
	}

	entry, ok := s.keys[id]
	if !ok {
		return nil
	}

	plaintext, err := codec.Decrypt(entry.encryptedJSON, passphraseProvider())
	if err != nil {
		return nil
	}

	s.cache[id] = rawbytes.Copy(plaintext)

	return plaintext
}

// Kill irreversibly removes id: it is dropped from the cache, its backing
// file is deleted, and its entry is removed from the store's index.
func (s *Store) Kill(id uuid.UUID) {
	if cached, ok := s.cache[id]; ok {
		rawbytes.Zero(cached)
		delete(s.cache, id)
	}
	if entry, ok := s.keys[id]; ok {
		if entry.backingPath != "" {
			if err := os.Remove(entry.backingPath); err != nil && !os.IsNotExist(err) {
				s.log.WithError(err).WithField("uuid", id.String()).Warn("failed to remove keystore file")
			}
		}
		delete(s.keys, id)
	}
}

// ClearCache zeroizes and drops every cached plaintext secret, without
// touching the on-disk entries.
func (s *Store) ClearCache() {
	for id, cached := range s.cache {
		rawbytes.Zero(cached)
		delete(s.cache, id)
	}
}

// Save writes every known key to keysPath as one <uuid>.json file each,
// using an atomic temp-file-then-rename so a crash mid-write can never
// leave a half-written keystore file on disk.
func (s *Store) Save(keysPath string) error {
	if err := os.MkdirAll(keysPath, 0700); err != nil {
		return err
	}

	for id, entry := range s.keys {
		path := filepath.Join(keysPath, id.String()+".json")

		out := keyFile{
			Crypto:  entry.encryptedJSON,
			ID:      id.String(),
			Version: writeVersion,
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}

		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, fileMode); err != nil {
			return err
		}
		if err := os.Rename(tmp, path); err != nil {
			return err
		}

		if entry.backingPath != "" && entry.backingPath != path {
			if err := os.Remove(entry.backingPath); err != nil && !os.IsNotExist(err) {
				s.log.WithError(err).WithField("uuid", id.String()).Warn("failed to remove stale keystore file")
			}
		}
		entry.backingPath = path
		s.keys[id] = entry
	}

	return nil
}

// Load reads every <uuid>.json file under keysPath into the store's index.
// The directory is created if absent. Version 2 and 3 are both accepted,
// case-insensitively, under either a Version or version JSON key (version
// 2 files are the pre-standardization shape some early clients wrote).
// Malformed entries are logged and skipped, never fatal — a directory
// full of keys should not fail to load because one file is corrupt.
func (s *Store) Load(keysPath string) error {
	if err := os.MkdirAll(keysPath, 0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(keysPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(keysPath, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.log.WithError(err).WithField("file", entry.Name()).Warn("skipping unreadable keystore file")
			continue
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			s.log.WithError(err).WithField("file", entry.Name()).Warn("skipping malformed keystore file")
			continue
		}

		version, ok := readVersion(raw)
		if !ok || (version != 2 && version != 3) {
			s.log.WithField("file", entry.Name()).WithField("version", version).Warn("skipping keystore file with unsupported version")
			continue
		}

		idRaw, ok := raw["id"]
		if !ok {
			s.log.WithField("file", entry.Name()).Warn("skipping keystore file with no id")
			continue
		}
		var idStr string
		if err := json.Unmarshal(idRaw, &idStr); err != nil {
			s.log.WithError(err).WithField("file", entry.Name()).Warn("skipping keystore file with malformed id")
			continue
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			s.log.WithError(err).WithField("file", entry.Name()).Warn("skipping keystore file with malformed uuid")
			continue
		}

		cryptoRaw, ok := raw["crypto"]
		if !ok {
			s.log.WithField("file", entry.Name()).Warn("skipping keystore file with no crypto section")
			continue
		}

		s.keys[id] = storedKey{encryptedJSON: cryptoRaw, backingPath: path}
	}

	return nil
}

// readVersion reads a "version" or "Version" integer field.
func readVersion(raw map[string]json.RawMessage) (int, bool) {
	for _, key := range []string{"version", "Version"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
