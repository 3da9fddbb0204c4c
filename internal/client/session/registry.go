package session

import (
	"context"
	"sync"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

// Registry indexes live sessions by id and drops the ones left idle for
// longer than the configured expiration.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	expiration time.Duration
	log        logging.Logger
}

func NewRegistry(expiration time.Duration, logger logging.Logger) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		expiration: expiration,
		log:        logging.Component(logger, "sessions"),
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrNoSession
	}
	return s, nil
}

// FindByEmail returns the live session of email, if any.
func (r *Registry) FindByEmail(email string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.Email() == email {
			return s, true
		}
	}
	return nil, false
}

// Remove closes and forgets the session. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Touch refreshes the activity time of a session.
func (r *Registry) Touch(id string, now time.Time) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	s.Touch(now)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// InvalidateExpired removes the sessions idle since before now-expiration and
// returns how many were dropped. A zero expiration disables expiry.
func (r *Registry) InvalidateExpired(ctx context.Context, now time.Time) int {
	if r.expiration <= 0 {
		return 0
	}

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.LastSeen()) > r.expiration {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.log.Info(ctx, "session expired", "session", s.ID)
		s.Close()
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.InvalidateExpired(ctx, now)
		}
	}
}
