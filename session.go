package x

import "sync"

// Session owns the modal subsystem's shared state: the transition lock
// and the ordered stack of open modal ids. The lock serializes every
// open/close sequence system-wide; a call arriving while a transition
// is in flight is dropped, not queued.
//
// The stack is explicit rather than derived from class names, so each
// modal's z-order is the position it was assigned when opened and
// closing out of order releases the right layer.
type Session struct {
	mu     sync.Mutex
	locked bool
	stack  []string
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// TryBegin attempts to start a transition. It returns false, changing
// nothing, when another transition holds the lock.
func (s *Session) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return false
	}
	s.locked = true
	return true
}

// End releases the transition lock. Must be deferred by whoever won
// TryBegin so the lock is never left held, whatever the transition did.
func (s *Session) End() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// Locked reports whether a transition is in flight.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Push records id as the most recently opened modal and returns its
// assigned z position (stack depth, 1-based).
func (s *Session) Push(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = append(s.stack, id)
	return len(s.stack)
}

// Remove takes id out of the stack wherever it sits and returns the
// remaining depth.
func (s *Session) Remove(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, openID := range s.stack {
		if openID == id {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			break
		}
	}
	return len(s.stack)
}

// Depth returns the number of open modals.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// IsOpen reports whether id is on the stack.
func (s *Session) IsOpen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, openID := range s.stack {
		if openID == id {
			return true
		}
	}
	return false
}

// Open returns the open modal ids, oldest first.
func (s *Session) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.stack))
	copy(out, s.stack)
	return out
}

// Top returns the most recently opened modal id, or "".
func (s *Session) Top() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}
