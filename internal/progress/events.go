package progress

import (
	"encoding/json"
	"fmt"
)

// EventType names a server-sent progress event.
type EventType string

const (
	EventGenerationStarted   EventType = "generation_started"
	EventStepStart           EventType = "step_start"
	EventStepComplete        EventType = "step_complete"
	EventStepSkipped         EventType = "step_skipped"
	EventStepError           EventType = "step_error"
	EventGenerationComplete  EventType = "generation_complete"
	EventGenerationCancelled EventType = "generation_cancelled"
)

// Known reports whether the type is part of the consumed event catalogue.
// The backend also emits heartbeat/ping frames, which are not folded.
func (t EventType) Known() bool {
	switch t {
	case EventGenerationStarted, EventStepStart, EventStepComplete,
		EventStepSkipped, EventStepError, EventGenerationComplete,
		EventGenerationCancelled:
		return true
	}
	return false
}

// Terminal reports whether the event ends the generation's stream.
func (t EventType) Terminal() bool {
	return t == EventGenerationComplete || t == EventGenerationCancelled
}

// ManifestEntry is one step declaration from the backend's step manifest.
type ManifestEntry struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// Event is a typed progress event decoded from the wire.
type Event struct {
	Type      EventType
	Step      string
	Progress  int
	Message   string
	Timestamp string

	// Payload extras, populated per event type.
	Steps        []ManifestEntry // generation_started
	ItemsCount   *int            // step_complete
	Error        string          // step_error
	GhostPostURL string          // generation_complete
}

// wireEvent matches the backend's JSON envelope:
// {"type","step","progress","message","data":{...},"timestamp"}.
type wireEvent struct {
	Type      string   `json:"type"`
	Step      string   `json:"step"`
	Progress  int      `json:"progress"`
	Message   string   `json:"message"`
	Data      wireData `json:"data"`
	Timestamp string   `json:"timestamp"`
}

type wireData struct {
	Steps        []ManifestEntry `json:"steps,omitempty"`
	ItemsCount   *int            `json:"items_count,omitempty"`
	Error        string          `json:"error,omitempty"`
	GhostPostURL string          `json:"ghost_post_url,omitempty"`
}

// ParseEvent decodes a named SSE event payload into an Event.
//
// The SSE event name takes precedence over the type embedded in the payload;
// the payload type is used when the frame carried no name.
func ParseEvent(name string, payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("failed to decode event payload: %w", err)
	}

	t := EventType(name)
	if name == "" {
		t = EventType(w.Type)
	}

	return Event{
		Type:         t,
		Step:         w.Step,
		Progress:     w.Progress,
		Message:      w.Message,
		Timestamp:    w.Timestamp,
		Steps:        w.Data.Steps,
		ItemsCount:   w.Data.ItemsCount,
		Error:        w.Data.Error,
		GhostPostURL: w.Data.GhostPostURL,
	}, nil
}
