package progress

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// GenerationAPI is the backend surface the Tracker needs: starting a
// generation and requesting its cancellation.
type GenerationAPI interface {
	CreateGeneration(ctx context.Context, config models.GenerationConfig) (*models.HistoryRecord, error)
	CancelGeneration(ctx context.Context, id string) error
}

// UpdateKind discriminates tracker updates.
type UpdateKind string

const (
	UpdateProgress     UpdateKind = "progress"
	UpdateConnected    UpdateKind = "connected"
	UpdateDisconnected UpdateKind = "disconnected"
	UpdateError        UpdateKind = "error"
)

// Update is pushed on the tracker's channel whenever the tracked
// generation or its stream changes. Progress is a snapshot and safe to
// retain.
type Update struct {
	Kind     UpdateKind
	Progress *models.GenerationProgress
	Err      error
}

// Tracker orchestrates a generation run: it asks the backend to start,
// subscribes to the progress stream, folds events into the registry, and
// publishes snapshots on a channel for the UI.
//
// At most one generation is tracked at a time and in-flight start/cancel
// requests are not re-entered.
type Tracker struct {
	api      GenerationAPI
	registry *Registry
	stream   *StreamClient
	logger   *log.Logger

	starting   atomic.Bool
	cancelling atomic.Bool

	updates chan Update
}

// NewTracker wires a Tracker around the given API. The stream client is
// built internally so its callbacks feed the registry.
func NewTracker(api GenerationAPI, baseURL string, client *http.Client, logger *log.Logger, opts StreamOptions) *Tracker {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	t := &Tracker{
		api:      api,
		registry: NewRegistry(),
		logger:   logger,
		updates:  make(chan Update, 50),
	}
	t.stream = NewStreamClient(baseURL, client, logger, opts, StreamCallbacks{
		OnEvent:      t.handleEvent,
		OnConnect:    func() { t.send(Update{Kind: UpdateConnected, Progress: t.registry.Active()}) },
		OnDisconnect: func() { t.send(Update{Kind: UpdateDisconnected, Progress: t.registry.Active()}) },
		OnError:      func(err error) { t.send(Update{Kind: UpdateError, Err: err, Progress: t.registry.Active()}) },
	})
	return t
}

// Updates returns the channel progress snapshots are published on.
// Sends never block; slow consumers miss intermediate snapshots, not the
// latest state, which is always available via Active.
func (t *Tracker) Updates() <-chan Update {
	return t.updates
}

// Registry exposes the underlying progress store for read access.
func (t *Tracker) Registry() *Registry {
	return t.registry
}

// Active returns a snapshot of the tracked generation, or nil.
func (t *Tracker) Active() *models.GenerationProgress {
	return t.registry.Active()
}

// ActiveID returns the tracked generation id, or "".
func (t *Tracker) ActiveID() string {
	return t.registry.ActiveID()
}

// IsStarting reports whether a start request is in flight.
func (t *Tracker) IsStarting() bool {
	return t.starting.Load()
}

// IsCancelling reports whether a cancel request is in flight.
func (t *Tracker) IsCancelling() bool {
	return t.cancelling.Load()
}

// Start asks the backend to begin a generation with config, seeds local
// progress with the default step manifest, and subscribes to the stream.
// Returns the new generation id.
func (t *Tracker) Start(ctx context.Context, config models.GenerationConfig) (string, error) {
	if !t.starting.CompareAndSwap(false, true) {
		return "", fmt.Errorf("%w: a start request is already in flight", shared.ErrGenerationActive)
	}
	defer t.starting.Store(false)

	if active := t.registry.Active(); active != nil && !active.Terminal() {
		return "", fmt.Errorf("%w: generation %s is still running", shared.ErrGenerationActive, active.ID)
	}

	record, err := t.api.CreateGeneration(ctx, config)
	if err != nil {
		return "", fmt.Errorf("failed to start generation: %w", err)
	}

	t.registry.StartGeneration(record.ID, DefaultManifest())
	t.stream.Connect(ctx, record.ID)
	t.logger.Info("generation started", "id", record.ID)
	t.send(Update{Kind: UpdateProgress, Progress: t.registry.Active()})

	return record.ID, nil
}

// Watch attaches to an already-running generation without starting one,
// seeding local state with the default manifest until the stream's opening
// event reconciles it.
func (t *Tracker) Watch(ctx context.Context, generationID string) error {
	if generationID == "" {
		return fmt.Errorf("%w: generation id is required", shared.ErrInvalidInput)
	}
	if active := t.registry.Active(); active != nil && !active.Terminal() && active.ID != generationID {
		return fmt.Errorf("%w: already tracking %s", shared.ErrGenerationActive, active.ID)
	}

	t.registry.StartGeneration(generationID, DefaultManifest())
	t.stream.Connect(ctx, generationID)
	t.send(Update{Kind: UpdateProgress, Progress: t.registry.Active()})
	return nil
}

// Cancel asks the backend to cancel the tracked generation. Local state is
// only marked cancelled once the backend accepts the request; a failed
// request leaves progress untouched so the stream keeps reporting.
func (t *Tracker) Cancel(ctx context.Context) error {
	if !t.cancelling.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: a cancel request is already in flight", shared.ErrInvalidInput)
	}
	defer t.cancelling.Store(false)

	id := t.registry.ActiveID()
	if id == "" {
		return shared.ErrNoActiveGeneration
	}

	if err := t.api.CancelGeneration(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel generation %s: %w", id, err)
	}

	t.registry.CancelGeneration(id)
	t.stream.Disconnect()
	t.logger.Info("generation cancelled", "id", id)
	t.send(Update{Kind: UpdateProgress, Progress: t.registry.Generation(id)})
	return nil
}

// Clear drops the tracked generation's local state and closes the stream.
// Events for a cleared id are discarded if they still arrive.
func (t *Tracker) Clear() {
	id := t.registry.ActiveID()
	t.stream.Disconnect()
	if id != "" {
		t.registry.ClearGeneration(id)
	}
}

// Close tears down the stream connection.
func (t *Tracker) Close() {
	t.stream.Disconnect()
}

func (t *Tracker) handleEvent(event Event) {
	if !t.registry.UpdateProgress(event) {
		return
	}
	t.send(Update{Kind: UpdateProgress, Progress: t.registry.Active()})
}

// send publishes without blocking; the channel is a best-effort signal and
// Active always holds the latest snapshot.
func (t *Tracker) send(update Update) {
	select {
	case t.updates <- update:
	default:
	}
}
