// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for newsletter generation:
//  1. [TemplateListView] : Browse and select a newsletter template
//  2. [ConfirmView] : Confirm the generation request
//  3. [ProgressView] : Monitor the live step list while the backend works
//  4. [ResultView] : Display the published post URL or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through the Tracker's channel, providing non-blocking status reporting while the stream is live.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, c, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
