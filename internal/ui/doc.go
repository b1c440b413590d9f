// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for program discovery and outreach:
//  1. [ProgramListView] : Browse the program catalog, favorite and select programs
//  2. [DetailView] : Inspect one program and its coordinators
//  3. [FavoritesView] : Review saved favorites
//  4. [ConfirmView] : Confirm a bulk send to the selected programs
//  5. [SendView] : Monitor real-time send progress
//  6. [ResultView] : Display the delivery receipt
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the OutreachEngine, providing
// non-blocking status reporting during sends.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
