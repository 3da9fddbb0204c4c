// Package session holds the per-user session context. A Session exclusively
// owns the authenticated User; the user is only ever replaced as a whole, and
// readers always get a copy.
package session

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
)

type Session struct {
	ID string

	mu       sync.RWMutex
	user     *models.User
	device   *models.Device
	lastSeen time.Time

	// pushMu serializes pushes: one in-flight push per session.
	pushMu sync.Mutex
}

// New creates a session owning user. The caller must not keep using user.
func New(user *models.User, device *models.Device) *Session {
	return &Session{
		ID:       ulid.Make().String(),
		user:     user,
		device:   device,
		lastSeen: time.Now(),
	}
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *models.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// UserID returns 0 when no user is attached.
func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

func (s *Session) Email() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Email
}

// ReplaceUser installs u and wipes the previous user.
func (s *Session) ReplaceUser(u *models.User) {
	s.mu.Lock()
	old := s.user
	s.user = u
	s.mu.Unlock()

	if old != nil && old != u {
		old.Wipe()
	}
}

func (s *Session) Device() *models.Device {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.device == nil {
		return nil
	}
	d := *s.device
	return &d
}

func (s *Session) SetDevice(d *models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = d
}

// LockPush blocks until no other push is in flight and returns the unlock func.
func (s *Session) LockPush() (unlock func()) {
	s.pushMu.Lock()
	return s.pushMu.Unlock
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Close wipes the user. The session is unusable afterwards.
func (s *Session) Close() {
	s.ReplaceUser(nil)
}
