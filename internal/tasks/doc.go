// Package tasks implements the per-artist playlist build with real-time
// progress reporting.
//
// # Core Operation
//
// [Builder.Build] runs the build state machine for one selected artist:
//
//  1. Fetch the artist's albums and singles (first page, limit 50)
//  2. Deduplicate album IDs via a set
//  3. Fetch each unique album's track listing, sequentially
//  4. Deduplicate tracks by name; the first occurrence in album order wins
//  5. Sort the remaining tracks by name with locale-aware collation
//  6. Create a public playlist named after the artist
//  7. Add track URIs in sequential batches of at most 100
//
// [Builder.Search] performs the preceding artist lookup (limit 5). Selection
// between the two steps belongs to the caller, so the CLI prompt and the TUI
// list can share one engine.
//
// # Sequencing
//
// Correctness depends on strict sequencing: album fetches, track fetches,
// and insertion batches are all awaited one at a time, and no batch is sent
// before the previous one has completed. Nothing in this package spawns
// goroutines.
//
// # Progress Reporting
//
// Operations emit [ProgressUpdate] values on a caller-supplied channel using
// select with default, so a slow or absent consumer never blocks the build.
//
// # Failure Semantics
//
// Any error aborts the current build and propagates to the caller; the
// session loop logs it and continues with the next artist. A failed batch
// leaves the playlist partially populated; there is no rollback.
package tasks
