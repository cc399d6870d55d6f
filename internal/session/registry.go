// Package session tracks logged-in callers. Sessions live in memory only and
// are lost when the process restarts.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry maps opaque bearer tokens to user ids.
type Registry interface {
	Issue(userID int) (string, error)
	Resolve(token string) (int, error)
	Revoke(token string)
	RevokeUser(userID int)
}

type entry struct {
	userID    int
	createdAt time.Time
}

type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*MemoryRegistry)

// WithTTL makes sessions expire ttl after issue. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(r *MemoryRegistry) { r.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(r *MemoryRegistry) { r.now = now }
}

func NewMemoryRegistry(opts ...Option) *MemoryRegistry {
	r := &MemoryRegistry{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryRegistry) Issue(userID int) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	token := id.String()

	r.mu.Lock()
	r.sessions[token] = entry{userID: userID, createdAt: r.now()}
	r.mu.Unlock()
	return token, nil
}

func (r *MemoryRegistry) Resolve(token string) (int, error) {
	r.mu.RLock()
	e, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return 0, ErrSessionNotFound
	}
	if r.expired(e) {
		r.Revoke(token)
		return 0, ErrSessionNotFound
	}
	return e.userID, nil
}

func (r *MemoryRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

func (r *MemoryRegistry) RevokeUser(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, e := range r.sessions {
		if e.userID == userID {
			delete(r.sessions, token)
		}
	}
}

// Len returns the number of tracked sessions, expired ones included.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *MemoryRegistry) expired(e entry) bool {
	return r.ttl > 0 && r.now().Sub(e.createdAt) >= r.ttl
}
