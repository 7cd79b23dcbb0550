package core

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// Default session limits, used when the store is built with zero values.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 500
)

// Session is one uploaded dataset and the choices made on it. Tables are
// never mutated in place, so a Session value returned by the store is a
// consistent snapshot.
type Session struct {
	ID       string
	FileName string

	// Original is the table as loaded; Working is Original projected onto
	// Selected.
	Original *dataset.Table
	Working  *dataset.Table
	Selected []string

	// LastChart is the most recent successful render, nil until one exists.
	LastChart   *chart.Result
	LastRequest chart.Request
	ChartAt     time.Time

	CreatedAt  time.Time
	AccessedAt time.Time
}

// SessionStore keeps sessions in memory. Entries expire after ttl without
// access and the least recently used entry is evicted when max is reached.
type SessionStore struct {
	ttl time.Duration
	max int

	mu    sync.Mutex
	order *list.List // front is most recently used
	items map[string]*list.Element

	now   func() time.Time
	newID func() string
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &SessionStore{
		ttl:   ttl,
		max:   maxSessions,
		order: list.New(),
		items: make(map[string]*list.Element),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create stores a new session and returns it, evicting the least recently
// used sessions if the store is full.
func (s *SessionStore) Create(fileName string, original, working *dataset.Table, selected []string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:         s.newID(),
		FileName:   fileName,
		Original:   original,
		Working:    working,
		Selected:   selected,
		CreatedAt:  now,
		AccessedAt: now,
	}

	for s.order.Len() >= s.max {
		s.removeElement(s.order.Back())
	}
	s.items[sess.ID] = s.order.PushFront(sess)
	return *sess
}

// Get returns the session and marks it used.
func (s *SessionStore) Get(id string) (Session, error) {
	return s.Update(id, nil)
}

// Update applies fn to the stored session under the store lock and returns
// the result. If fn fails the session is left as it was.
func (s *SessionStore) Update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	sess := el.Value.(*Session)

	now := s.now()
	if now.Sub(sess.AccessedAt) > s.ttl {
		s.removeElement(el)
		return Session{}, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}

	if fn != nil {
		next := *sess
		if err := fn(&next); err != nil {
			return *sess, err
		}
		*sess = next
	}

	sess.AccessedAt = now
	s.order.MoveToFront(el)
	return *sess, nil
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if ok {
		s.removeElement(el)
	}
	return ok
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	// Idle time grows toward the back, so stop at the first live entry.
	for el := s.order.Back(); el != nil; {
		sess := el.Value.(*Session)
		if now.Sub(sess.AccessedAt) <= s.ttl {
			break
		}
		prev := el.Prev()
		s.removeElement(el)
		removed++
		el = prev
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *SessionStore) removeElement(el *list.Element) {
	sess := s.order.Remove(el).(*Session)
	delete(s.items, sess.ID)
}
