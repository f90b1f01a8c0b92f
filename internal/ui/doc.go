// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for building an artist playlist:
//  1. [SearchView] : Enter an artist name
//  2. [ArtistListView] : Pick from the search results (name + follower count)
//  3. [ConfirmView] : Confirm the build
//  4. [BuildView] : Monitor real-time progress updates
//  5. [ResultView] : Track count, playlist URL, and batch count
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the [tasks.Builder], providing non-blocking status reporting during builds.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
