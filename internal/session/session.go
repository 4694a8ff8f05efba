// Package session holds per-user conversation state in memory: the ordered
// turns, the answered-query counter and the current scope selection.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/16880444c/V4/internal/model"
)

// ErrBusy is returned when a session already has a question in flight.
var ErrBusy = errors.New("session has a query in progress")

// Session is one conversation. All methods are safe for concurrent use, but a
// caller asking a question should hold the session with TryAcquire so turns
// are recorded in submission order.
type Session struct {
	ID        string
	CreatedAt time.Time

	inflight sync.Mutex

	mu      sync.Mutex
	turns   []model.Turn
	queries int
	scope   string
	style   string
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now().UTC()}
}

// TryAcquire claims the session for one question. It returns ErrBusy when
// another question is still being answered.
func (s *Session) TryAcquire() error {
	if !s.inflight.TryLock() {
		return ErrBusy
	}
	return nil
}

// Release ends the claim taken by TryAcquire.
func (s *Session) Release() {
	s.inflight.Unlock()
}

// Turns returns a copy of the conversation so far.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Record appends turns to the conversation in the order given.
func (s *Session) Record(turns ...model.Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turns...)
	s.mu.Unlock()
}

// Exchanges returns the number of questions asked, answered or not.
func (s *Session) Exchanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.turns {
		if t.Role == model.RoleUser {
			n++
		}
	}
	return n
}

// Queries returns the number of successfully answered questions.
func (s *Session) Queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// IncrementQueries adds one answered question and returns the new count.
func (s *Session) IncrementQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	return s.queries
}

// Select records the scope and style of the latest question.
func (s *Session) Select(scope, style string) {
	s.mu.Lock()
	s.scope, s.style = scope, style
	s.mu.Unlock()
}

// Selection returns the scope and style of the latest question.
func (s *Session) Selection() (scope, style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope, s.style
}

// Reset clears the conversation, the counter and the selection.
func (s *Session) Reset() {
	s.mu.Lock()
	s.turns = nil
	s.queries = 0
	s.scope, s.style = "", ""
	s.mu.Unlock()
}

// Info returns a snapshot of the session for API responses.
func (s *Session) Info() model.SessionInfo {
	turns := s.Turns()
	exchanges := 0
	for _, t := range turns {
		if t.Role == model.RoleUser {
			exchanges++
		}
	}
	scope, style := s.Selection()
	return model.SessionInfo{
		ID:         s.ID,
		Scope:      scope,
		Style:      style,
		QueryCount: s.Queries(),
		Exchanges:  exchanges,
		Turns:      turns,
		CreatedAt:  s.CreatedAt,
	}
}
