package credfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PythonTilk/untisgo/untis"
)

var sampleCreds = untis.Credentials{
	User:        "alice",
	Key:         "SECRET234567",
	ElementID:   42,
	ElementType: "student",
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	s := New(path)

	const id = "neilo.webuntis.com/demo school/alice"
	if !s.Save(id, sampleCreds) {
		t.Fatalf("Save returned false")
	}

	got, ok := s.Load(id)
	if !ok {
		t.Fatalf("Load reports a miss after Save")
	}
	if got != sampleCreds {
		t.Fatalf("Load = %+v, want %+v", got, sampleCreds)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}

func TestStore_KeepsOtherEntries(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.toml"))

	other := sampleCreds
	other.User = "bob"
	other.Key = "OTHERSECRET"

	if !s.Save("school/alice", sampleCreds) || !s.Save("school/bob", other) {
		t.Fatalf("Save returned false")
	}
	if !s.Delete("school/alice") {
		t.Fatalf("Delete returned false")
	}

	if _, ok := s.Load("school/alice"); ok {
		t.Fatalf("deleted entry still loads")
	}
	got, ok := s.Load("school/bob")
	if !ok || got.Key != "OTHERSECRET" {
		t.Fatalf("surviving entry = %+v, %v, want bob's credentials", got, ok)
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.toml"))

	if _, ok := s.Load("anything"); ok {
		t.Fatalf("Load reports a hit on a missing file")
	}
	if !s.Delete("anything") {
		t.Fatalf("Delete on a missing file = false, want true")
	}
}

func TestStore_CorruptFileDegradesGracefully(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(path)
	if _, ok := s.Load("anything"); ok {
		t.Fatalf("Load reports a hit on a corrupt file")
	}

	// Saving replaces the corrupt file with a fresh one.
	if !s.Save("school/alice", sampleCreds) {
		t.Fatalf("Save returned false on a corrupt file")
	}
	if got, ok := s.Load("school/alice"); !ok || got != sampleCreds {
		t.Fatalf("Load after repair = %+v, %v", got, ok)
	}
}

func TestStore_RejectsInvalidCredentials(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.toml"))

	if s.Save("school/alice", untis.Credentials{User: "alice"}) {
		t.Fatalf("Save accepted credentials without a key")
	}
}

func TestStore_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "credentials.toml")
	s := New(path)

	if !s.Save("school/alice", sampleCreds) {
		t.Fatalf("Save returned false")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("credential file missing: %v", err)
	}
}

func TestStore_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := New("")
	if !s.Save("school/alice", sampleCreds) {
		t.Fatalf("Save returned false")
	}

	want := filepath.Join(home, ".config", "untisgo", "credentials.toml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("credential file not at default path: %v", err)
	}
}
