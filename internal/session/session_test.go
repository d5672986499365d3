package session

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreWithPath(filepath.Join(t.TempDir(), "credential.json"))
}

func TestStoreRoundTrip(t *testing.T) {
	store := tempStore(t)

	if got := store.Load(); got != "" {
		t.Errorf("empty store Load() = %q", got)
	}

	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := store.Load(); got != "tok-abc" {
		t.Errorf("Load() = %q, want tok-abc", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := store.Load(); got != "" {
		t.Errorf("Load() after Clear = %q", got)
	}
	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestStoreIgnoresCorruptFile(t *testing.T) {
	store := tempStore(t)
	if err := os.WriteFile(store.path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := store.Load(); got != "" {
		t.Errorf("Load() = %q, want empty for corrupt file", got)
	}
}

func TestManagerStartsDisconnectedWithoutCredential(t *testing.T) {
	m := NewManager(tempStore(t))

	if m.Connected() {
		t.Error("fresh manager reports connected")
	}
	if m.HasToken() {
		t.Error("fresh manager reports a token")
	}
	if cur := m.Current(); cur.Profile != nil {
		t.Errorf("fresh session has a profile: %+v", cur.Profile)
	}
}

func TestManagerOptimisticallyConnectedFromStoredToken(t *testing.T) {
	store := tempStore(t)
	if err := store.Save("tok-saved"); err != nil {
		t.Fatal(err)
	}

	m := NewManager(store)
	if !m.Connected() {
		t.Error("stored token should mark the session connected")
	}
	if !m.HasToken() {
		t.Error("stored token not loaded")
	}
}

func TestConnectPersistsAndSetsAtomically(t *testing.T) {
	store := tempStore(t)
	m := NewManager(store)

	p := Profile{Username: "octo", Email: "octo@example.com"}
	if err := m.Connect("tok-new", p); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	cur := m.Current()
	if !cur.Connected || cur.Profile == nil {
		t.Fatalf("session = %+v, want connected with profile", cur)
	}
	if cur.Profile.Username != "octo" {
		t.Errorf("username = %q", cur.Profile.Username)
	}
	if got := store.Load(); got != "tok-new" {
		t.Errorf("persisted token = %q", got)
	}

	tok, err := m.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "tok-new" {
		t.Errorf("token source = %q", tok.AccessToken)
	}
}

func TestMarkUnauthenticatedClearsEverything(t *testing.T) {
	store := tempStore(t)
	m := NewManager(store)
	if err := m.Connect("tok", Profile{Username: "octo"}); err != nil {
		t.Fatal(err)
	}

	m.MarkUnauthenticated()

	if m.Connected() {
		t.Error("still connected after MarkUnauthenticated")
	}
	if m.HasToken() {
		t.Error("token survived MarkUnauthenticated")
	}
	if got := store.Load(); got != "" {
		t.Errorf("persisted token survived: %q", got)
	}
	if cur := m.Current(); cur.Profile != nil {
		t.Errorf("profile survived: %+v", cur.Profile)
	}
}

func TestMarkVerifiedAttachesProfile(t *testing.T) {
	store := tempStore(t)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}
	m := NewManager(store)

	// Optimistic state has no profile yet.
	if cur := m.Current(); cur.Profile != nil {
		t.Fatalf("profile before verification: %+v", cur.Profile)
	}

	m.MarkVerified(Profile{Username: "octo"})
	cur := m.Current()
	if !cur.Connected || cur.Profile == nil || cur.Profile.Username != "octo" {
		t.Errorf("session = %+v", cur)
	}
}
