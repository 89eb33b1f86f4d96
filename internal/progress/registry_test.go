package progress

import (
	"testing"
	"time"

	"github.com/ghostarr/ghostarr/internal/models"
)

func intPtr(n int) *int {
	return &n
}

func TestRegistry(t *testing.T) {
	t.Run("StartGeneration", func(t *testing.T) {
		t.Run("seeds the default manifest when none is given", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)

			gen := r.Active()
			if gen == nil {
				t.Fatal("expected an active generation")
			}
			if gen.ID != "gen-1" {
				t.Errorf("expected id gen-1, got %s", gen.ID)
			}
			if len(gen.Steps) != len(DefaultManifest()) {
				t.Fatalf("expected %d seeded steps, got %d", len(DefaultManifest()), len(gen.Steps))
			}
			for _, step := range gen.Steps {
				if step.Status != models.StepPending {
					t.Errorf("expected step %s to be pending, got %s", step.Step, step.Status)
				}
			}
		})

		t.Run("ignores an empty id", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("", nil)
			if r.ActiveID() != "" {
				t.Errorf("expected no active generation, got %s", r.ActiveID())
			}
		})

		t.Run("overwrites an existing record for the same id", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_tautulli", Progress: 10})

			r.StartGeneration("gen-1", nil)
			gen := r.Generation("gen-1")
			if gen.Progress != 0 {
				t.Errorf("expected progress reset to 0, got %d", gen.Progress)
			}
			if gen.Steps[0].Status != models.StepPending {
				t.Errorf("expected first step reset to pending, got %s", gen.Steps[0].Status)
			}
		})
	})

	t.Run("UpdateProgress", func(t *testing.T) {
		t.Run("drops events when nothing is active", func(t *testing.T) {
			r := NewRegistry()
			if r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_tautulli"}) {
				t.Error("expected event to be dropped")
			}
		})

		t.Run("reconciles steps from generation_started", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)

			manifest := []ManifestEntry{
				{Step: "fetch_tautulli", Message: "Fetching media from Tautulli"},
				{Step: "render_template", Message: "Rendering template"},
				{Step: "publish_ghost", Message: "Publishing to Ghost"},
			}
			if !r.UpdateProgress(Event{Type: EventGenerationStarted, Steps: manifest}) {
				t.Fatal("expected event to be applied")
			}

			gen := r.Generation("gen-1")
			if len(gen.Steps) != 3 {
				t.Fatalf("expected 3 steps after reconcile, got %d", len(gen.Steps))
			}
			if gen.Steps[1].Step != "render_template" {
				t.Errorf("expected second step render_template, got %s", gen.Steps[1].Step)
			}
		})

		t.Run("keeps the seeded steps when generation_started carries none", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventGenerationStarted})

			if got := len(r.Generation("gen-1").Steps); got != len(DefaultManifest()) {
				t.Errorf("expected seeded steps untouched, got %d", got)
			}
		})

		t.Run("marks a step running and records the current step", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{
				Type:      EventStepStart,
				Step:      "enrich_tmdb",
				Progress:  15,
				Message:   "Enriching with TMDB metadata",
				Timestamp: "2026-08-31T10:00:00Z",
			})

			gen := r.Generation("gen-1")
			step := gen.FindStep("enrich_tmdb")
			if step.Status != models.StepRunning {
				t.Errorf("expected running, got %s", step.Status)
			}
			if step.StartedAt != "2026-08-31T10:00:00Z" {
				t.Errorf("expected started_at recorded, got %q", step.StartedAt)
			}
			if gen.CurrentStep != "enrich_tmdb" {
				t.Errorf("expected current step enrich_tmdb, got %s", gen.CurrentStep)
			}
			if gen.Progress != 15 {
				t.Errorf("expected progress 15, got %d", gen.Progress)
			}
		})

		t.Run("records items count on step_complete", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_tautulli", Progress: 5})
			r.UpdateProgress(Event{
				Type:       EventStepComplete,
				Step:       "fetch_tautulli",
				Progress:   11,
				ItemsCount: intPtr(42),
			})

			step := r.Generation("gen-1").FindStep("fetch_tautulli")
			if step.Status != models.StepSuccess {
				t.Errorf("expected success, got %s", step.Status)
			}
			if step.ItemsCount == nil || *step.ItemsCount != 42 {
				t.Errorf("expected items count 42, got %v", step.ItemsCount)
			}
		})

		t.Run("never moves a finished step backwards", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepComplete, Step: "fetch_romm", Progress: 33})
			r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_romm", Progress: 35})

			step := r.Generation("gen-1").FindStep("fetch_romm")
			if step.Status != models.StepSuccess {
				t.Errorf("expected step to stay success, got %s", step.Status)
			}
		})

		t.Run("skipped steps stay skipped", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepSkipped, Step: "fetch_komga", Progress: 40, Message: "Komga disabled"})
			r.UpdateProgress(Event{Type: EventStepComplete, Step: "fetch_komga", Progress: 44})

			step := r.Generation("gen-1").FindStep("fetch_komga")
			if step.Status != models.StepSkipped {
				t.Errorf("expected step to stay skipped, got %s", step.Status)
			}
		})

		t.Run("records step and generation errors on step_error", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{
				Type:     EventStepError,
				Step:     "publish_ghost",
				Progress: 95,
				Error:    "ghost returned 502",
			})

			gen := r.Generation("gen-1")
			step := gen.FindStep("publish_ghost")
			if step.Status != models.StepFailed {
				t.Errorf("expected failed, got %s", step.Status)
			}
			if step.Error != "ghost returned 502" {
				t.Errorf("expected step error recorded, got %q", step.Error)
			}
			if gen.Error != "ghost returned 502" {
				t.Errorf("expected generation error recorded, got %q", gen.Error)
			}
		})

		t.Run("ignores events for unknown steps", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			if !r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_lidarr", Progress: 7}) {
				t.Fatal("expected event to still advance overall progress")
			}
			if got := r.Generation("gen-1").Progress; got != 7 {
				t.Errorf("expected progress 7, got %d", got)
			}
		})

		t.Run("completion forces progress to 100 and records the post URL", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepStart, Step: "publish_ghost", Progress: 90})
			r.UpdateProgress(Event{
				Type:         EventGenerationComplete,
				Progress:     97,
				GhostPostURL: "https://blog.example.com/p/august",
			})

			gen := r.Generation("gen-1")
			if !gen.IsComplete {
				t.Error("expected generation to be complete")
			}
			if gen.Progress != 100 {
				t.Errorf("expected progress forced to 100, got %d", gen.Progress)
			}
			if gen.GhostPostURL != "https://blog.example.com/p/august" {
				t.Errorf("expected post URL recorded, got %q", gen.GhostPostURL)
			}
		})

		t.Run("a cancelled generation cannot also complete", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventGenerationCancelled})
			if r.UpdateProgress(Event{Type: EventGenerationComplete, Progress: 100}) {
				t.Error("expected completion to be rejected")
			}

			gen := r.Generation("gen-1")
			if gen.IsComplete {
				t.Error("expected IsComplete to stay false")
			}
			if !gen.IsCancelled {
				t.Error("expected IsCancelled to stay true")
			}
		})

		t.Run("a completed generation cannot be cancelled by an event", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventGenerationComplete})
			if r.UpdateProgress(Event{Type: EventGenerationCancelled}) {
				t.Error("expected cancellation to be rejected")
			}
			if r.Generation("gen-1").IsCancelled {
				t.Error("expected IsCancelled to stay false")
			}
		})

		t.Run("drops unknown event types", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_tautulli", Progress: 10})
			if r.UpdateProgress(Event{Type: "heartbeat", Progress: 99}) {
				t.Error("expected heartbeat to be dropped")
			}
			if got := r.Generation("gen-1").Progress; got != 10 {
				t.Errorf("expected progress untouched at 10, got %d", got)
			}
		})

		t.Run("drops events after the generation is cleared", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.ClearGeneration("gen-1")
			if r.UpdateProgress(Event{Type: EventStepStart, Step: "fetch_tautulli"}) {
				t.Error("expected event to be dropped after clear")
			}
		})
	})

	t.Run("CancelGeneration", func(t *testing.T) {
		t.Run("marks the record cancelled", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.CancelGeneration("gen-1")
			if !r.Generation("gen-1").IsCancelled {
				t.Error("expected record to be cancelled")
			}
		})

		t.Run("leaves a completed record alone", func(t *testing.T) {
			r := NewRegistry()
			r.StartGeneration("gen-1", nil)
			r.CompleteGeneration("gen-1", "")
			r.CancelGeneration("gen-1")
			if r.Generation("gen-1").IsCancelled {
				t.Error("expected completed record to stay complete")
			}
		})
	})

	t.Run("ClearGeneration", func(t *testing.T) {
		r := NewRegistry()
		r.StartGeneration("gen-1", nil)
		r.ClearGeneration("gen-1")

		if r.Generation("gen-1") != nil {
			t.Error("expected record to be gone")
		}
		if r.ActiveID() != "" {
			t.Errorf("expected no active generation, got %s", r.ActiveID())
		}
	})

	t.Run("ClearAllGenerations", func(t *testing.T) {
		r := NewRegistry()
		r.StartGeneration("gen-1", nil)
		r.StartGeneration("gen-2", nil)
		r.ClearAllGenerations()

		if r.Generation("gen-1") != nil || r.Generation("gen-2") != nil {
			t.Error("expected all records to be gone")
		}
		if r.ActiveID() != "" {
			t.Errorf("expected no active generation, got %s", r.ActiveID())
		}
	})

	t.Run("snapshots are isolated from the store", func(t *testing.T) {
		r := NewRegistry()
		r.StartGeneration("gen-1", nil)

		snapshot := r.Generation("gen-1")
		snapshot.Steps[0].Status = models.StepFailed
		snapshot.Progress = 77

		gen := r.Generation("gen-1")
		if gen.Steps[0].Status != models.StepPending {
			t.Error("expected store untouched by snapshot mutation")
		}
		if gen.Progress != 0 {
			t.Errorf("expected store progress 0, got %d", gen.Progress)
		}
	})

	t.Run("Elapsed uses the injected clock", func(t *testing.T) {
		r := NewRegistry()
		base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
		r.now = func() time.Time { return base }
		r.StartGeneration("gen-1", nil)

		gen := r.Generation("gen-1")
		if got := gen.Elapsed(base.Add(90 * time.Second)); got != 90*time.Second {
			t.Errorf("expected 90s elapsed, got %s", got)
		}
	})
}
