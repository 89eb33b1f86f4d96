// package models defines the data model for the Ghostarr admin CLI.
//
// Types mirror the backend's JSON schemas (history, templates, schedules,
// labels, settings, logs) plus the client-side generation progress model.
package models
