// Package session keeps per-operator state between requests: the view mode and
// the conversation with the data assistant.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement/models"
)

var ErrNotFound = errors.New("session not found")

// State is one session's mutable state. Methods are safe for concurrent use.
type State struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	mode    models.ViewMode
	history []models.ConversationTurn
}

func (s *State) ViewMode() models.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetViewMode switches to mode, or toggles when mode is empty, and returns the new mode.
func (s *State) SetViewMode(mode models.ViewMode) models.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == "" {
		mode = s.mode.Toggle()
	}
	s.mode = mode
	return s.mode
}

// Toggle flips between the sales report and the purchase schedule.
func (s *State) Toggle() models.ViewMode {
	return s.SetViewMode("")
}

// Append adds turns to the conversation in the given order.
func (s *State) Append(turns ...models.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turns...)
}

// History returns a copy of the whole conversation, oldest first.
func (s *State) History() []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ConversationTurn(nil), s.history...)
}

// Last returns a copy of at most n of the most recent turns, oldest first.
func (s *State) Last(n int) []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history
	if n >= 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]models.ConversationTurn(nil), h...)
}

func (s *State) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Store holds every live session by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*State), now: time.Now}
}

// Create starts a session in the sales report view.
func (st *Store) Create() *State {
	s := &State{
		ID:        uuid.NewString(),
		CreatedAt: st.now(),
		mode:      models.ViewSalesReport,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*State, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, creating it under that id when it is
// unknown, for example after a restart while the operator's token is still valid.
func (st *Store) GetOrCreate(id string) *State {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := &State{ID: id, CreatedAt: st.now(), mode: models.ViewSalesReport}
	st.sessions[id] = s
	return s
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
