// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for feed reconciliation:
//  1. [EntryListView] : Browse feed entries with parsed track counts
//  2. [ConfirmView] : Confirm the sync operation
//  3. [SyncView] : Monitor real-time progress updates
//  4. [ResultView] : Display per-entry outcomes
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the reconcile engine,
// providing non-blocking status reporting during a run.
//
// List navigation comes from the bubbles list widget; view transitions are
// bound in keyMap (enter, y/n, esc, r, q) with per-view help footers
// rendered via charmbracelet/bubbles/help.
package ui
