package progress

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// StreamCallbacks are invoked by the StreamClient as the connection and
// event flow evolve. All callbacks are optional and are called from the
// client's reader goroutine, in transport delivery order.
type StreamCallbacks struct {
	OnEvent      func(Event)
	OnConnect    func()
	OnDisconnect func()
	OnError      func(error)
}

// StreamOptions tunes reconnection behavior.
type StreamOptions struct {
	ReconnectAttempts int           // consecutive failures tolerated before giving up
	ReconnectDelay    time.Duration // base delay; attempt n waits n * delay
}

// StreamClient maintains at most one live SSE connection to the backend's
// progress stream for a generation id.
//
// A close triggered by Disconnect, a Connect for a different id, or a
// terminal event is recorded as intentional and never reconnects; only
// transport failures retry, with linear backoff bounded by
// ReconnectAttempts. When attempts are exhausted the client stays
// disconnected and the caller must notice via Connected.
type StreamClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	opts       StreamOptions
	callbacks  StreamCallbacks

	mu           sync.Mutex
	generationID string
	epoch        int // bumped on Connect; stale reader goroutines check it and exit
	cancel       context.CancelFunc
	timer        *time.Timer
	connected    bool
	intentional  bool
	attempts     int
}

// NewStreamClient creates a StreamClient for the given backend base URL.
func NewStreamClient(baseURL string, client *http.Client, logger *log.Logger, opts StreamOptions, callbacks StreamCallbacks) *StreamClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.ReconnectAttempts <= 0 {
		opts.ReconnectAttempts = 3
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 2 * time.Second
	}

	return &StreamClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
		opts:       opts,
		callbacks:  callbacks,
	}
}

// Connect subscribes to the progress stream for generationID, tearing down
// any previous connection first. An empty id only disconnects.
func (s *StreamClient) Connect(ctx context.Context, generationID string) {
	s.Disconnect()
	if generationID == "" {
		return
	}

	connCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.generationID = generationID
	s.intentional = false
	s.attempts = 0
	s.cancel = cancel
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	go s.run(connCtx, generationID, epoch)
}

// Disconnect intentionally closes the current connection, if any.
// No reconnect is attempted afterwards, even if the teardown surfaces a
// transport error.
func (s *StreamClient) Disconnect() {
	s.mu.Lock()
	s.intentional = true
	s.generationID = ""
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Connected reports whether a stream is currently open.
func (s *StreamClient) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// GenerationID returns the id currently subscribed to, or "".
func (s *StreamClient) GenerationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generationID
}

func (s *StreamClient) run(ctx context.Context, generationID string, epoch int) {
	url := fmt.Sprintf("%s/api/v1/progress/stream/%s", s.baseURL, generationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.handleFailure(ctx, generationID, epoch, fmt.Errorf("failed to create stream request: %w", err))
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.handleFailure(ctx, generationID, epoch, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.handleFailure(ctx, generationID, epoch, fmt.Errorf("%w: stream returned status %d", shared.ErrAPIRequest, resp.StatusCode))
		return
	}

	s.markConnected(epoch)
	err = s.readLoop(resp.Body, epoch)
	s.markDisconnected(epoch)

	if err == nil {
		return
	}
	s.handleFailure(ctx, generationID, epoch, err)
}

// readLoop parses SSE frames and dispatches known events until the stream
// ends. Returns nil after a terminal event; any other end of stream is a
// transport error.
func (s *StreamClient) readLoop(body io.Reader, epoch int) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			terminal := s.dispatch(eventName, data.String())
			eventName = ""
			data.Reset()
			if terminal {
				s.markIntentional(epoch)
				return nil
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive ping.
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
		// id: and retry: fields are not used by the backend.
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStreamClosed, err)
	}
	return fmt.Errorf("%w: stream ended before a terminal event", shared.ErrStreamClosed)
}

// dispatch decodes one frame and hands it to OnEvent. Malformed payloads
// are logged and dropped; unknown event names are ignored. Reports whether
// the event was terminal.
func (s *StreamClient) dispatch(name, payload string) bool {
	if name == "" && payload == "" {
		return false
	}

	// The backend double-wraps the JSON body in a data: prefix.
	payload = strings.TrimPrefix(payload, "data: ")

	event, err := ParseEvent(name, []byte(payload))
	if err != nil {
		s.logger.Warn("dropping malformed progress event", "event", name, "error", err)
		return false
	}
	if !event.Type.Known() {
		return false
	}

	if s.callbacks.OnEvent != nil {
		s.callbacks.OnEvent(event)
	}
	return event.Type.Terminal()
}

func (s *StreamClient) markConnected(epoch int) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	s.attempts = 0
	s.connected = true
	s.mu.Unlock()

	if s.callbacks.OnConnect != nil {
		s.callbacks.OnConnect()
	}
}

func (s *StreamClient) markDisconnected(epoch int) {
	s.mu.Lock()
	if epoch != s.epoch || !s.connected {
		s.mu.Unlock()
		return
	}
	s.connected = false
	s.mu.Unlock()

	if s.callbacks.OnDisconnect != nil {
		s.callbacks.OnDisconnect()
	}
}

// markIntentional records that the stream ended itself after a terminal
// event, so teardown is not treated as a transport failure.
func (s *StreamClient) markIntentional(epoch int) {
	s.mu.Lock()
	if epoch == s.epoch {
		s.intentional = true
	}
	s.mu.Unlock()
}

// handleFailure surfaces a transport error and schedules a linear-backoff
// reconnect while attempts remain. Intentional closes and superseded
// connections are ignored.
func (s *StreamClient) handleFailure(ctx context.Context, generationID string, epoch int, err error) {
	s.mu.Lock()
	if epoch != s.epoch || s.intentional || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}

	retry := s.attempts < s.opts.ReconnectAttempts
	if retry {
		s.attempts++
		delay := time.Duration(s.attempts) * s.opts.ReconnectDelay
		s.timer = time.AfterFunc(delay, func() {
			s.mu.Lock()
			stale := epoch != s.epoch || s.intentional
			s.mu.Unlock()
			if stale {
				return
			}
			s.run(ctx, generationID, epoch)
		})
	}
	attempts := s.attempts
	s.mu.Unlock()

	if !retry {
		err = fmt.Errorf("%w: %v", shared.ErrStreamExhausted, err)
	}
	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}
	if retry {
		s.logger.Warn("progress stream error, reconnecting", "generation", generationID, "attempt", attempts, "error", err)
	} else {
		s.logger.Warn("progress stream gave up after repeated failures", "generation", generationID, "attempts", attempts, "error", err)
	}
}
