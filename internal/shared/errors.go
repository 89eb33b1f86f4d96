package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and server errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServerUnavailable  = fmt.Errorf("server unavailable")
	ErrTemplateNotFound   = fmt.Errorf("template not found")
	ErrScheduleNotFound   = fmt.Errorf("schedule not found")
	ErrHistoryNotFound    = fmt.Errorf("history entry not found")
	ErrLabelNotFound      = fmt.Errorf("label not found")
	ErrGenerationNotFound = fmt.Errorf("generation not found")

	// Generation lifecycle errors
	ErrGenerationActive   = fmt.Errorf("generation already in progress")
	ErrNoActiveGeneration = fmt.Errorf("no active generation")
	ErrStreamClosed       = fmt.Errorf("progress stream closed")
	ErrStreamExhausted    = fmt.Errorf("progress stream reconnect attempts exhausted")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
