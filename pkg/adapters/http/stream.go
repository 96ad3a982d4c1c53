package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans graph events out to the connected SSE clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty stream manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client. The returned function unregisters it and closes
// the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Len returns the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every client without blocking. Slow clients miss messages.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}
