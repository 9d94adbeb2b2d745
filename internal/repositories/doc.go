// Package repositories implements SQLite persistence for run history.
//
// [RunRepository] stores one row per matching run in runs and the selected logos in run_matches,
// keyed by run and match position so a stored run lists its matches in the order they were made.
// Deleting a run removes its matches through the foreign key cascade.
//
// Runs are numbered #1, #2, ... in insertion order. [NextSequence] bumps the counter row in
// runs_sequence inside the insert transaction, so a failed insert does not consume a number.
package repositories
