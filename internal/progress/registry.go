package progress

import (
	"sync"
	"time"

	"github.com/ghostarr/ghostarr/internal/models"
)

// Registry is the single source of truth for generation progress state.
//
// It maps generation ids to records and tracks which id is currently being
// streamed against. All mutation goes through its named operations; reads
// return snapshots so concurrent consumers never observe a record mid-fold.
// Every operation is a safe no-op on a missing id, since events can race
// with a clear.
type Registry struct {
	mu          sync.Mutex
	generations map[string]*models.GenerationProgress
	activeID    string

	now func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		generations: make(map[string]*models.GenerationProgress),
		now:         time.Now,
	}
}

// StartGeneration creates a fresh record for the given id and marks it
// active. When manifest is empty, the record is seeded with the default
// manifest; the generation_started event later replaces it with the
// server's authoritative step list. An existing record under the same id
// is overwritten.
func (r *Registry) StartGeneration(id string, manifest []ManifestEntry) {
	if id == "" {
		return
	}
	if len(manifest) == 0 {
		manifest = DefaultManifest()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations[id] = &models.GenerationProgress{
		ID:        id,
		Steps:     seedSteps(manifest),
		StartedAt: r.now(),
	}
	r.activeID = id
}

// UpdateProgress folds an event into the currently active record.
//
// Events do not carry a generation id; they are assumed to pertain to the
// active generation. Events arriving with no active record are dropped.
// A record that is cancelled but not cleared keeps folding events, since
// cancellation is advisory until the backend confirms termination.
// Reports whether the event changed the record.
func (r *Registry) UpdateProgress(event Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen, ok := r.generations[r.activeID]
	if !ok {
		return false
	}

	switch event.Type {
	case EventGenerationStarted:
		// Reconcile the seeded guess with the server's enabled-step list.
		if len(event.Steps) > 0 {
			gen.Steps = seedSteps(event.Steps)
		}
		return true

	case EventGenerationComplete:
		if gen.IsCancelled {
			return false
		}
		gen.Progress = 100
		gen.IsComplete = true
		if event.GhostPostURL != "" {
			gen.GhostPostURL = event.GhostPostURL
		}
		return true

	case EventGenerationCancelled:
		if gen.IsComplete {
			return false
		}
		gen.IsCancelled = true
		return true

	case EventStepStart:
		if step := gen.FindStep(event.Step); step != nil && !step.Status.Terminal() {
			step.Status = models.StepRunning
			step.Message = event.Message
			if step.StartedAt == "" {
				step.StartedAt = event.Timestamp
			}
		}
		gen.CurrentStep = event.Step

	case EventStepComplete:
		if step := gen.FindStep(event.Step); step != nil && !step.Status.Terminal() {
			step.Status = models.StepSuccess
			step.Message = event.Message
			if step.CompletedAt == "" {
				step.CompletedAt = event.Timestamp
			}
			if event.ItemsCount != nil {
				n := *event.ItemsCount
				step.ItemsCount = &n
			}
		}

	case EventStepSkipped:
		if step := gen.FindStep(event.Step); step != nil && !step.Status.Terminal() {
			step.Status = models.StepSkipped
			step.Message = event.Message
			if step.CompletedAt == "" {
				step.CompletedAt = event.Timestamp
			}
		}

	case EventStepError:
		if step := gen.FindStep(event.Step); step != nil && !step.Status.Terminal() {
			step.Status = models.StepFailed
			step.Message = event.Message
			if step.CompletedAt == "" {
				step.CompletedAt = event.Timestamp
			}
			step.Error = event.Error
		}
		gen.Error = event.Error

	default:
		// Unknown event types are ignored for forward compatibility.
		return false
	}

	// Step-level events carry the overall percentage.
	gen.Progress = event.Progress
	return true
}

// CancelGeneration marks a record cancelled. Completed records stay
// completed; both flags are terminal and mutually exclusive.
func (r *Registry) CancelGeneration(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generations[id]; ok && !gen.IsComplete {
		gen.IsCancelled = true
	}
}

// CompleteGeneration marks a record complete out-of-band, forcing progress
// to 100 and recording the published post URL when present.
func (r *Registry) CompleteGeneration(id, ghostPostURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generations[id]; ok && !gen.IsCancelled {
		gen.Progress = 100
		gen.IsComplete = true
		if ghostPostURL != "" {
			gen.GhostPostURL = ghostPostURL
		}
	}
}

// FailGeneration records a top-level error for a run, for failures observed
// outside the event stream.
func (r *Registry) FailGeneration(id, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generations[id]; ok {
		gen.Error = errMsg
	}
}

// ClearGeneration removes a record. Clearing the active id resets it.
func (r *Registry) ClearGeneration(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.generations, id)
	if r.activeID == id {
		r.activeID = ""
	}
}

// ClearAllGenerations resets the registry.
func (r *Registry) ClearAllGenerations() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations = make(map[string]*models.GenerationProgress)
	r.activeID = ""
}

// Generation returns a snapshot of the record for id, or nil.
func (r *Registry) Generation(id string) *models.GenerationProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generations[id]; ok {
		return gen.Clone()
	}
	return nil
}

// ActiveID returns the id currently being streamed against, or "".
func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// Active returns a snapshot of the active record, or nil.
func (r *Registry) Active() *models.GenerationProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generations[r.activeID]; ok {
		return gen.Clone()
	}
	return nil
}
