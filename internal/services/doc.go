// Package services contains the typed bindings for the Ghostarr backend's
// REST API.
//
// # Client
//
// [Client] wraps every /api/v1 resource the admin surface uses: newsletter
// generation, templates, schedules, history, labels, settings, and logs.
// All methods take a context and return decoded models from the models
// package.
//
// # Raw access
//
// [APIService] performs raw GET/POST/PUT/DELETE requests against arbitrary
// backend paths, used by the `api` passthrough command for debugging and
// endpoints without a typed binding yet.
//
// # Error Handling
//
// Failed requests decode the backend's {"detail": ...} envelope into an
// [APIError], which unwraps to [shared.ErrAPIRequest]. Resource getters
// translate 404s into the matching sentinel:
//   - [shared.ErrTemplateNotFound]
//   - [shared.ErrScheduleNotFound]
//   - [shared.ErrHistoryNotFound]
//   - [shared.ErrLabelNotFound]
//   - [shared.ErrGenerationNotFound]
//
// Connection failures wrap [shared.ErrServerUnavailable] so callers can
// distinguish "backend down" from "backend said no".
package services
