// Package hub keeps track of the game sessions served by one process and
// lets the process tell them about a shutdown.
package hub

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrFull is returned by Register when the session limit is reached.
var ErrFull = errors.New("hub: session limit reached")

// EventType identifies the type of a session event.
type EventType int

const (
	// EventServerShutdown asks the session to show a notice and disconnect.
	EventServerShutdown EventType = iota
)

// Event is sent from the hub to a session.
type Event struct {
	Type EventType
}

// Handle is a session's registration with the hub.
type Handle struct {
	ID     int
	User   string
	Events chan Event // Closed by Unregister
}

// Hub is a registry of live sessions. It is safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	sessions    map[int]*Handle
	nextID      int
	maxSessions int
	logger      *log.Logger
	pollEvery   time.Duration
}

// New creates a hub admitting up to maxSessions sessions; zero or less means
// no limit. A nil logger discards output.
func New(maxSessions int, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions:    make(map[int]*Handle),
		nextID:      1,
		maxSessions: maxSessions,
		logger:      logger,
		pollEvery:   200 * time.Millisecond,
	}
}

// Register admits a session for user.
func (h *Hub) Register(user string) (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxSessions > 0 && len(h.sessions) >= h.maxSessions {
		h.logger.Warn("session refused", "user", user, "active", len(h.sessions))
		return nil, ErrFull
	}

	handle := &Handle{
		ID:     h.nextID,
		User:   user,
		Events: make(chan Event, 16),
	}
	h.nextID++
	h.sessions[handle.ID] = handle
	h.logger.Debug("session registered", "id", handle.ID, "user", user, "active", len(h.sessions))
	return handle, nil
}

// Unregister removes the session and closes its event channel. Unknown ids
// are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.sessions[id]
	if !ok {
		return
	}
	close(handle.Events)
	delete(h.sessions, id)
	h.logger.Debug("session unregistered", "id", id, "user", handle.User, "active", len(h.sessions))
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown notifies every session and waits until all have unregistered or
// timeout passes. Returns the number of sessions still live.
func (h *Hub) Shutdown(timeout time.Duration) int {
	h.mu.RLock()
	for _, handle := range h.sessions {
		select {
		case handle.Events <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(h.pollEvery)
	defer ticker.Stop()

	for {
		if remaining := h.Count(); remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			return h.Count()
		case <-ticker.C:
		}
	}
}
