package session

import (
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/hubdeck/hubdeck/internal/log"
)

// Profile is the integration metadata the backend reports for a connected
// account.
type Profile struct {
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	UserID          string    `json:"userId"`
	IntegrationDate time.Time `json:"integrationDate"`
	LastSyncAt      time.Time `json:"lastSyncAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Session is the current authentication state. Connected and Profile are
// always set together, never partially.
type Session struct {
	Connected bool
	Profile   *Profile
}

// Manager owns the session. All mutation goes through its methods; readers
// get snapshots. The auth flow is the only writer by convention, so reads
// vastly outnumber writes.
type Manager struct {
	mu    sync.RWMutex
	cur   Session
	token string
	store *Store
}

// NewManager initializes the session from the persisted credential. A
// stored token marks the session connected optimistically; verification
// against the backend settles it.
func NewManager(store *Store) *Manager {
	m := &Manager{store: store}
	if token := store.Load(); token != "" {
		m.token = token
		m.cur = Session{Connected: true}
	}
	return m
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Connected reports whether the session is authenticated. Grid sources
// use this as their gate before issuing window requests.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Connected
}

// HasToken reports whether a bearer credential is held, verified or not.
func (m *Manager) HasToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Connect records a successful callback exchange: the token is persisted
// and the session becomes connected with the returned profile, atomically.
func (m *Manager) Connect(token string, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(token); err != nil {
		return err
	}
	m.token = token
	m.cur = Session{Connected: true, Profile: &p}
	log.Info("session connected", "username", p.Username)
	return nil
}

// MarkVerified records a successful token verification.
func (m *Manager) MarkVerified(p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = Session{Connected: true, Profile: &p}
}

// MarkUnauthenticated handles a failed verification: the persisted
// credential and the in-memory flag are cleared together.
func (m *Manager) MarkUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		log.Warn("could not clear credential", "error", err)
	}
	m.token = ""
	m.cur = Session{}
}

// Disconnect tears the session down after an integration removal. The
// local credential is cleared regardless of what the backend answered.
func (m *Manager) Disconnect() {
	m.MarkUnauthenticated()
	log.Info("session disconnected")
}

// Token returns the current bearer token, implementing oauth2.TokenSource
// so the HTTP client can attach it to outgoing requests.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &oauth2.Token{AccessToken: m.token}, nil
}

var _ oauth2.TokenSource = (*Manager)(nil)
