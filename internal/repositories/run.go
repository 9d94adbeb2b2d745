package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
)

var _ models.Repository[*models.Run] = (*RunRepository)(nil)

const runColumns = `id, sequence, listing_url, playlist_path, threshold, candidate_count, channel_count, dry_run, created_at, updated_at`

// RunRepository implements models.Repository[*models.Run] for run history.
//
// A run and its matches are written in one transaction; deleting a run cascades to its matches.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run and its matches with a new sequence. The run keeps its ID when one is already set.
func (r *RunRepository) Create(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if run.ID() == "" {
		run.SetID(shared.GenerateID())
	}

	query := `
		INSERT INTO runs (id, sequence, listing_url, playlist_path, threshold, candidate_count, channel_count, matched_count, dry_run, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		run.ID(),
		sequence,
		run.ListingURL(),
		run.PlaylistPath(),
		run.Threshold(),
		run.CandidateCount(),
		run.ChannelCount(),
		run.MatchedCount(),
		run.DryRun(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertMatches(tx, run.ID(), run.Matches()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.SetSequence(sequence)
	return nil
}

// Get retrieves a run and its matches by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, shared.ErrRunNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadMatches(run); err != nil {
		return nil, err
	}
	return run, nil
}

// Find retrieves a run by full ID or by an unambiguous ID prefix such as the short ID shown in listings
func (r *RunRepository) Find(idOrPrefix string) (*models.Run, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	run, err := r.Get(idOrPrefix)
	if err == nil || !errors.Is(err, shared.ErrRunNotFound) {
		return run, err
	}

	rows, err := r.db.Query(`SELECT id FROM runs WHERE id LIKE ? || '%' LIMIT 2`, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, idOrPrefix)
	case 1:
		return r.Get(ids[0])
	default:
		return nil, fmt.Errorf("%w: run id prefix %q is ambiguous", shared.ErrInvalidArgument, idOrPrefix)
	}
}

// Update replaces a run's matches and refreshes its updated_at timestamp
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE runs
		SET candidate_count = ?, channel_count = ?, matched_count = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := tx.Exec(query, run.CandidateCount(), run.ChannelCount(), run.MatchedCount(), now, run.ID())
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	if _, err := tx.Exec(`DELETE FROM run_matches WHERE run_id = ?`, run.ID()); err != nil {
		return fmt.Errorf("failed to clear run matches: %w", err)
	}
	if err := insertMatches(tx, run.ID(), run.Matches()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Delete removes a run and its matches by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// List retrieves runs newest first.
//
// Supported criteria: "playlist_path" (string) and "limit" (int, zero or less for all).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1 = 1`
	args := []any{}

	if path, ok := criteria["playlist_path"].(string); ok && path != "" {
		query += " AND playlist_path = ?"
		args = append(args, path)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	// matches are loaded after the cursor is closed; the pool may hold a single connection
	for _, run := range runs {
		if err := r.loadMatches(run); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (r *RunRepository) loadMatches(run *models.Run) error {
	rows, err := r.db.Query(`
		SELECT channel_name, reference, score
		FROM run_matches
		WHERE run_id = ?
		ORDER BY position ASC
	`, run.ID())
	if err != nil {
		return fmt.Errorf("failed to query run matches: %w", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ChannelName, &m.Reference, &m.Score); err != nil {
			return fmt.Errorf("failed to scan run match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	run.SetMatches(matches)
	return nil
}

func insertMatches(tx *sql.Tx, runID string, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`INSERT INTO run_matches (run_id, position, channel_name, reference, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range matches {
		if _, err := stmt.Exec(runID, i, m.ChannelName, m.Reference, m.Score); err != nil {
			return fmt.Errorf("failed to insert run match: %w", err)
		}
	}
	return nil
}

// rowScanner is satisfied by [sql.Row] and [sql.Rows]
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans a runs row into a [models.Run] without its matches
func scanRun(row rowScanner) (*models.Run, error) {
	var (
		id             string
		sequence       int
		listingURL     string
		playlistPath   string
		threshold      float64
		candidateCount int
		channelCount   int
		dryRun         bool
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(&id, &sequence, &listingURL, &playlistPath, &threshold, &candidateCount, &channelCount, &dryRun, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewRun(sequence, models.RunParams{
		ListingURL:     listingURL,
		PlaylistPath:   playlistPath,
		Threshold:      threshold,
		CandidateCount: candidateCount,
		ChannelCount:   channelCount,
		DryRun:         dryRun,
	})
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	return run, nil
}
