package models

import "time"

// StepStatus enumerates the lifecycle states of a generation step.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Terminal reports whether the status is final for a step.
func (s StepStatus) Terminal() bool {
	switch s {
	case StepSuccess, StepFailed, StepSkipped:
		return true
	}
	return false
}

// Step is one unit of backend work within a generation run.
//
// The step identifier is unique within a generation; order follows the
// backend's step manifest, not event arrival order.
type Step struct {
	Step        string     `json:"step"`
	Status      StepStatus `json:"status"`
	Message     string     `json:"message"`
	StartedAt   string     `json:"started_at,omitempty"`
	CompletedAt string     `json:"completed_at,omitempty"`
	DurationMS  int64      `json:"duration_ms,omitempty"`
	ItemsCount  *int       `json:"items_count,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// GenerationProgress is the tracked state of one generation run.
type GenerationProgress struct {
	ID           string    `json:"id"`
	Progress     int       `json:"progress"`
	CurrentStep  string    `json:"current_step,omitempty"`
	Steps        []Step    `json:"steps"`
	IsComplete   bool      `json:"is_complete"`
	IsCancelled  bool      `json:"is_cancelled"`
	Error        string    `json:"error,omitempty"`
	GhostPostURL string    `json:"ghost_post_url,omitempty"`
	StartedAt    time.Time `json:"started_at"`
}

// Terminal reports whether the run reached a final state.
func (g *GenerationProgress) Terminal() bool {
	return g.IsComplete || g.IsCancelled
}

// FindStep returns the step with the given identifier, or nil.
func (g *GenerationProgress) FindStep(id string) *Step {
	for i := range g.Steps {
		if g.Steps[i].Step == id {
			return &g.Steps[i]
		}
	}
	return nil
}

// Elapsed returns the locally measured time since the run was started.
func (g *GenerationProgress) Elapsed(now time.Time) time.Duration {
	if g.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(g.StartedAt)
}

// Clone returns a deep copy safe for concurrent readers.
func (g *GenerationProgress) Clone() *GenerationProgress {
	out := *g
	out.Steps = make([]Step, len(g.Steps))
	copy(out.Steps, g.Steps)
	for i := range g.Steps {
		if g.Steps[i].ItemsCount != nil {
			n := *g.Steps[i].ItemsCount
			out.Steps[i].ItemsCount = &n
		}
	}
	return &out
}
