package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"webbase/internal/model"
	"webbase/internal/repository"
)

// InactivityWindow is the sliding session expiry horizon. A session that saw
// no confirmed use for this long no longer resolves to an identity,
// regardless of whether the row was already reaped.
const InactivityWindow = 30 * 24 * time.Hour

const tokenBytes = 32

// Manager binds opaque session tokens to serialized identity snapshots.
// Expiry is computed at resolution time, so correctness does not depend on
// the periodic reaper ever running.
type Manager struct {
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewManager creates a session manager over the given store.
func NewManager(sessions repository.SessionRepository) *Manager {
	return &Manager{sessions: sessions, now: time.Now}
}

// Create generates an unguessable token and stores a new session record
// carrying the serialized identity.
func (m *Manager) Create(ctx context.Context, identity *model.Identity) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("serialize identity: %w", err)
	}

	now := m.now()
	session := &model.Session{
		Token:        token,
		Payload:      payload,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve returns the identity bound to token, or nil when the token is
// unknown or the session sat idle past the inactivity window. Resolution
// never refreshes activity; Touch is the explicit refresh path so that
// "inactivity" tracks real use.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}

	session, err := m.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if m.now().Sub(session.LastActivity) > InactivityWindow {
		// Lazy reap; losing the delete is harmless, the session stays
		// unresolvable either way.
		if err := m.sessions.DeleteByToken(ctx, token); err != nil {
			log.Printf("delete expired session: %v", err)
		}
		return nil, nil
	}

	var identity model.Identity
	if err := json.Unmarshal(session.Payload, &identity); err != nil {
		log.Printf("corrupt session payload, dropping session: %v", err)
		if err := m.sessions.DeleteByToken(ctx, token); err != nil {
			log.Printf("delete corrupt session: %v", err)
		}
		return nil, nil
	}
	return &identity, nil
}

// Touch records a confirmed use of the session, sliding its expiry horizon.
func (m *Manager) Touch(ctx context.Context, token string) error {
	if err := m.sessions.UpdateLastActivity(ctx, token, m.now()); err != nil {
		return fmt.Errorf("refresh session activity: %w", err)
	}
	return nil
}

// RefreshIdentity replaces the stored identity snapshot in place, keeping
// the token stable. Every mutation of profile data visible in the session
// must come through here, or the snapshot goes stale.
func (m *Manager) RefreshIdentity(ctx context.Context, token string, identity *model.Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("serialize identity: %w", err)
	}
	if err := m.sessions.UpdatePayload(ctx, token, payload); err != nil {
		return fmt.Errorf("update session payload: %w", err)
	}
	return nil
}

// Destroy deletes the session. Destroying an absent token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Reap removes sessions idle past the inactivity window. An efficiency aid
// only; Resolve enforces expiry on its own.
func (m *Manager) Reap(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpiredBefore(ctx, m.now().Add(-InactivityWindow))
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
