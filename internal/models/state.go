package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedEvent marks an event frame whose payload could not be decoded
var ErrMalformedEvent = errors.New("malformed event")

// CommandResult is one entry of a RUN_COMMAND reply
type CommandResult struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SubscribeReply is the reply to SUBSCRIBE
type SubscribeReply struct {
	Success bool `json:"success"`
}

// Version is the reply to GET_VERSION
type Version struct {
	HumanReadable string `json:"human_readable"`
	Major         int    `json:"major"`
	Minor         int    `json:"minor"`
	Patch         int    `json:"patch"`
}

// Container is the subset of a sway tree node carried by window events
type Container struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	AppID string `json:"app_id,omitempty"`
	PID   int    `json:"pid,omitempty"`
}

// Window event changes
const (
	WindowNew   = "new"
	WindowClose = "close"
	WindowFocus = "focus"
)

// WindowEvent is pushed when a window changes
type WindowEvent struct {
	Change    string    `json:"change"`
	Container Container `json:"container"`
}

// ShutdownEvent is pushed when the window manager exits or restarts
type ShutdownEvent struct {
	Change string `json:"change"`
}

// Event is a decoded event frame. Exactly one of Window and Shutdown is set
// for known types; other types only carry Type.
type Event struct {
	Type     MessageType
	Window   *WindowEvent
	Shutdown *ShutdownEvent
}

// IsNewWindow reports whether the event announces a new window
func (e *Event) IsNewWindow() bool {
	return e.Window != nil && e.Window.Change == WindowNew
}

// DecodeEvent decodes an event frame. Payload errors wrap ErrMalformedEvent.
func DecodeEvent(m *Message) (*Event, error) {
	if !m.Type.IsEvent() {
		return nil, fmt.Errorf("%w: %s is not an event", ErrMalformedEvent, m.Type)
	}

	ev := &Event{Type: m.Type}
	switch m.Type {
	case EventWindow:
		var w WindowEvent
		if err := json.Unmarshal(m.Payload, &w); err != nil {
			return nil, fmt.Errorf("%w: window: %v", ErrMalformedEvent, err)
		}
		ev.Window = &w
	case EventShutdown:
		var s ShutdownEvent
		if err := json.Unmarshal(m.Payload, &s); err != nil {
			return nil, fmt.Errorf("%w: shutdown: %v", ErrMalformedEvent, err)
		}
		ev.Shutdown = &s
	}
	return ev, nil
}

// EventNames maps subscribable event types to their SUBSCRIBE names
var EventNames = map[MessageType]string{
	EventWindow:   "window",
	EventShutdown: "shutdown",
}
