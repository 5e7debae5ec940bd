// Package credfile persists WebUntis credentials in a TOML file.
// The file maps tenant-user identifiers to credential entries and lives in
// ~/.config/untisgo/credentials.toml by default.
//
// All operations degrade gracefully: a missing or unreadable file behaves
// like an empty store and failures report false instead of returning errors,
// matching the best-effort contract of the session's credential store.
package credfile

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	untisgo "github.com/PythonTilk/untisgo"
	"github.com/PythonTilk/untisgo/untis"
)

const defaultPath = "~/.config/untisgo/credentials.toml"

// Ensure Store satisfies the session's collaborator interface.
var _ untisgo.CredentialStore = (*Store)(nil)

// DefaultPath returns the default credential file location.
func DefaultPath() string {
	return defaultPath
}

// Store reads and writes one TOML credential file. It is safe for concurrent
// use within a process; the whole file is rewritten on every change.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by path, or the default location when path is
// empty.
func New(path string) *Store {
	return &Store{path: path}
}

type credFile struct {
	Credentials map[string]untis.Credentials `toml:"credentials"`
}

// Load returns the saved credentials for id.
func (s *Store) Load(id string) (untis.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.read()
	if !ok {
		return untis.Credentials{}, false
	}
	creds, ok := f.Credentials[id]
	if !ok || !creds.Valid() {
		return untis.Credentials{}, false
	}
	return creds, true
}

// Save writes the credentials for id, keeping other entries intact. Invalid
// credentials are rejected.
func (s *Store) Save(id string, creds untis.Credentials) bool {
	if !creds.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, _ := s.read()
	if f.Credentials == nil {
		f.Credentials = map[string]untis.Credentials{}
	}
	f.Credentials[id] = creds
	return s.write(f)
}

// Delete removes the entry for id. A missing entry or file already counts as
// deleted.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.read()
	if !ok {
		return true
	}
	if _, exists := f.Credentials[id]; !exists {
		return true
	}
	delete(f.Credentials, id)
	return s.write(f)
}

func (s *Store) read() (credFile, bool) {
	var f credFile
	path, err := s.resolved()
	if err != nil {
		return f, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, false
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return credFile{}, false
	}
	return f, true
}

func (s *Store) write(f credFile) bool {
	path, err := s.resolved()
	if err != nil {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return false
	}
	// The file holds login secrets; keep it owner-only.
	return os.WriteFile(path, data, 0o600) == nil
}

func (s *Store) resolved() (string, error) {
	path := strings.TrimSpace(s.path)
	if path == "" {
		path = defaultPath
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
