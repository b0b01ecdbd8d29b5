package auth

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/avolkau/daybook/internal/config"
)

// Session data keys
const (
	SessionKeyUnlocked   = "unlocked"
	SessionKeyUnlockedAt = "unlocked_at"
)

// SessionManager wraps scs.SessionManager with unlock-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager persisting sessions
// in the journal's SQLite database. The sqlDB parameter should be the
// underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Unlock marks the session as unlocked after successful PIN verification.
// The token is renewed first to prevent session fixation.
func (sm *SessionManager) Unlock(r *http.Request) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyUnlocked, true)
	sm.Put(r.Context(), SessionKeyUnlockedAt, time.Now().Unix())
	return nil
}

// Lock destroys the session, returning the client to the locked state.
func (sm *SessionManager) Lock(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsUnlocked reports whether the session has passed PIN verification.
func (sm *SessionManager) IsUnlocked(ctx context.Context) bool {
	return sm.GetBool(ctx, SessionKeyUnlocked)
}
