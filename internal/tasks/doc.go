// Package tasks runs the logo matching pipeline with real-time progress reporting.
//
// # Pipeline
//
// [LogoEngine.Run] performs, in order:
//
//  1. Threshold validation, before any I/O
//  2. Listing fetch through a [services.Fetcher]
//  3. Candidate harvest; an empty harvest stops the run with [shared.ErrNoCandidates]
//  4. Playlist load
//  5. Matching of every channel against every candidate
//  6. Optional reachability check through a [services.Verifier]; unreachable logos are dropped
//  7. Annotation of the first entry of each matched channel
//  8. Atomic overwrite of the playlist unless the run is a dry run
//  9. History recording when a [Recorder] is configured
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # History
//
// The optional [Recorder] interface persists a [models.Run] per completed run
// (repositories.RunRepository). Recording failures are logged and do not fail the run,
// since the playlist has already been written by then.
package tasks
