package sessionkit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// EventType defines a public type used by sessionkit APIs.
//
// EventType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventType string

const (
	// EventLoggedIn is an exported constant or variable used by the session engine.
	EventLoggedIn EventType = "logged_in"
	// EventLoggedOut is an exported constant or variable used by the session engine.
	EventLoggedOut EventType = "logged_out"
	// EventLoginRejected is an exported constant or variable used by the session engine.
	EventLoginRejected EventType = "login_rejected"
	// EventTokenRefreshed is an exported constant or variable used by the session engine.
	EventTokenRefreshed EventType = "token_refreshed"
	// EventSessionRestored is an exported constant or variable used by the session engine.
	EventSessionRestored EventType = "session_restored"
	// EventSessionExpired is an exported constant or variable used by the session engine.
	EventSessionExpired EventType = "session_expired"
	// EventSessionPurged is an exported constant or variable used by the session engine.
	EventSessionPurged EventType = "session_purged"
	// EventProfileUpdated is an exported constant or variable used by the session engine.
	EventProfileUpdated EventType = "profile_updated"
)

// Event is a typed session lifecycle notification. Components that must react
// to "login happened, refetch your data" subscribe to these instead of a
// global event name string.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      EventType         `json:"type"`
	Domain    Domain            `json:"domain"`
	UserID    string            `json:"user_id,omitempty"`
	Email     string            `json:"email,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EventSink receives session lifecycle events from the engine's dispatcher.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink defines a public type used by sessionkit APIs.
//
// NoOpSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
//
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink defines a public type used by sessionkit APIs.
//
// ChannelSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
//
// NewChannelSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

// Emit describes the emit operation and its observable behavior.
//
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events describes the events operation and its observable behavior.
//
// Events does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink defines a public type used by sessionkit APIs.
//
// JSONWriterSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
//
// NewJSONWriterSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit describes the emit operation and its observable behavior.
//
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
