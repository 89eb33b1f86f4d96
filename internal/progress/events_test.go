package progress

import "testing"

func TestParseEvent(t *testing.T) {
	t.Run("decodes the backend envelope", func(t *testing.T) {
		payload := []byte(`{
			"type": "step_complete",
			"step": "fetch_tautulli",
			"progress": 11,
			"message": "Fetched 42 items",
			"data": {"items_count": 42},
			"timestamp": "2026-08-31T10:00:00Z"
		}`)

		event, err := ParseEvent("step_complete", payload)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.Type != EventStepComplete {
			t.Errorf("expected step_complete, got %s", event.Type)
		}
		if event.Step != "fetch_tautulli" {
			t.Errorf("expected step fetch_tautulli, got %s", event.Step)
		}
		if event.Progress != 11 {
			t.Errorf("expected progress 11, got %d", event.Progress)
		}
		if event.ItemsCount == nil || *event.ItemsCount != 42 {
			t.Errorf("expected items count 42, got %v", event.ItemsCount)
		}
	})

	t.Run("the SSE event name wins over the payload type", func(t *testing.T) {
		event, err := ParseEvent("step_error", []byte(`{"type": "step_start", "step": "publish_ghost"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.Type != EventStepError {
			t.Errorf("expected step_error, got %s", event.Type)
		}
	})

	t.Run("falls back to the payload type for unnamed frames", func(t *testing.T) {
		event, err := ParseEvent("", []byte(`{"type": "generation_cancelled"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.Type != EventGenerationCancelled {
			t.Errorf("expected generation_cancelled, got %s", event.Type)
		}
	})

	t.Run("decodes the step manifest", func(t *testing.T) {
		payload := []byte(`{
			"type": "generation_started",
			"data": {"steps": [
				{"step": "fetch_tautulli", "message": "Fetching media from Tautulli"},
				{"step": "publish_ghost", "message": "Publishing to Ghost"}
			]}
		}`)

		event, err := ParseEvent("generation_started", payload)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(event.Steps) != 2 {
			t.Fatalf("expected 2 manifest entries, got %d", len(event.Steps))
		}
		if event.Steps[1].Step != "publish_ghost" {
			t.Errorf("expected publish_ghost, got %s", event.Steps[1].Step)
		}
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		if _, err := ParseEvent("step_start", []byte(`{"progress": `)); err == nil {
			t.Fatal("expected a decode error")
		}
	})

	t.Run("decodes completion extras", func(t *testing.T) {
		payload := []byte(`{
			"type": "generation_complete",
			"progress": 100,
			"data": {"ghost_post_url": "https://blog.example.com/p/august"}
		}`)

		event, err := ParseEvent("generation_complete", payload)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.GhostPostURL != "https://blog.example.com/p/august" {
			t.Errorf("expected post URL, got %q", event.GhostPostURL)
		}
	})
}

func TestEventType(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		if EventType("heartbeat").Known() {
			t.Error("expected heartbeat to be unknown")
		}
		if !EventStepSkipped.Known() {
			t.Error("expected step_skipped to be known")
		}
	})

	t.Run("Terminal", func(t *testing.T) {
		if EventStepError.Terminal() {
			t.Error("expected step_error to be non-terminal")
		}
		if !EventGenerationComplete.Terminal() || !EventGenerationCancelled.Terminal() {
			t.Error("expected completion and cancellation to be terminal")
		}
	})
}
