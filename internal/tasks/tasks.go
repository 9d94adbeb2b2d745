// package tasks runs the logo matching pipeline.
//
// The core abstraction is LogoEngine, which fetches a listing, matches it against a playlist and rewrites the playlist.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/logomatch/internal/harvest"
	"github.com/desertthunder/logomatch/internal/matcher"
	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/playlist"
	"github.com/desertthunder/logomatch/internal/services"
	"github.com/desertthunder/logomatch/internal/shared"
)

// RunOptions configures a single [LogoEngine.Run].
type RunOptions struct {
	ListingURL   string  // Listing location: http(s) URL, file:// URL or local path
	PlaylistPath string  // M3U file to annotate in place
	Threshold    float64 // Scores must be strictly greater than this to match
	DryRun       bool    // Match and annotate without writing the playlist
	Verify       bool    // Drop matches whose logo cannot be fetched
}

// RunResult contains all data from a matching run.
type RunResult struct {
	RunID      string             // Identifier shared by logs and history
	Candidates []models.Candidate // Harvested logos
	Channels   []string           // Entry names in playlist order
	Matches    *models.MatchSet   // Matches written to the playlist
	Unmatched  []string           // Distinct channels with no match
	Missing    []string           // Matched channels whose entry vanished before annotation
	Dropped    []models.Match     // Matches removed because the logo was unreachable
	Updated    int                // Entries whose logo was set
	Playlist   *playlist.Playlist // Annotated playlist
	Saved      bool               // Whether the playlist file was overwritten
	Record     *models.Run        // History record, nil when history is disabled
	Duration   time.Duration
}

// MatchedCount returns the number of channels with a logo.
func (r *RunResult) MatchedCount() int {
	if r.Matches == nil {
		return 0
	}
	return r.Matches.Len()
}

// MatchPercentage returns matched channels as a percentage of distinct channels.
func (r *RunResult) MatchPercentage() float64 {
	total := r.MatchedCount() + len(r.Unmatched)
	if total == 0 {
		return 0
	}
	return float64(r.MatchedCount()) / float64(total) * 100
}

// Recorder persists completed runs.
type Recorder interface {
	Create(run *models.Run) error
}

// LogoEngine matches listing logos to playlist channels.
// Contains dependencies on the listing fetcher, an optional verifier and an optional history recorder.
type LogoEngine struct {
	listing  services.Fetcher
	verifier services.Verifier
	recorder Recorder
	matcher  *matcher.Engine
	logger   *log.Logger
}

// NewLogoEngine creates a new LogoEngine. verifier and recorder may be nil.
func NewLogoEngine(listing services.Fetcher, verifier services.Verifier, recorder Recorder, logger *log.Logger) *LogoEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LogoEngine{
		listing:  listing,
		verifier: verifier,
		recorder: recorder,
		matcher:  matcher.NewEngine(logger),
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LogoEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run fetches the listing, matches its logos to the playlist's channels and writes the result.
//
// The threshold is validated before anything is fetched, and a listing without candidates aborts
// before the playlist is read, so neither failure touches the playlist file.
func (e *LogoEngine) Run(ctx context.Context, opts RunOptions, progress chan<- ProgressUpdate) (*RunResult, error) {
	started := time.Now()

	if err := matcher.ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	if opts.ListingURL == "" {
		return nil, fmt.Errorf("%w: listing url", shared.ErrMissingArgument)
	}
	if opts.PlaylistPath == "" {
		return nil, fmt.Errorf("%w: playlist path", shared.ErrMissingArgument)
	}
	if e.listing == nil {
		return nil, fmt.Errorf("%w: listing service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Verify && e.verifier == nil {
		return nil, fmt.Errorf("%w: logo verifier not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{RunID: shared.GenerateID()}
	logger := shared.WithLogger(e.logger, "run", shared.ShortID(result.RunID))

	e.sendProgress(progress, fetchListingUpdate(opts.ListingURL))
	logger.Debug("fetching logos", "url", opts.ListingURL)

	listing, err := e.listing.Fetch(ctx, opts.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	e.sendProgress(progress, harvestUpdate(0))
	result.Candidates = harvest.Collect(listing, services.ListingBase(opts.ListingURL))
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("%w at %s", shared.ErrNoCandidates, opts.ListingURL)
	}
	e.sendProgress(progress, harvestUpdate(len(result.Candidates)))
	logger.Debug("harvested logos", "count", len(result.Candidates))

	e.sendProgress(progress, loadPlaylistUpdate(opts.PlaylistPath, 0))
	logger.Debug("loading playlist", "path", opts.PlaylistPath)

	pl, err := playlist.Load(opts.PlaylistPath)
	if err != nil {
		return nil, err
	}
	result.Channels = pl.Names()
	e.sendProgress(progress, loadPlaylistUpdate(opts.PlaylistPath, len(result.Channels)))
	logger.Debug("loaded channels", "count", len(result.Channels))

	e.sendProgress(progress, matchChannelsUpdate(len(result.Channels), len(result.Candidates)))
	matches, err := e.matcher.MatchContext(ctx, result.Candidates, result.Channels, opts.Threshold)
	if err != nil {
		return nil, err
	}

	if opts.Verify {
		e.sendProgress(progress, verifyLogosUpdate(matches.Len()))
		unreachable, err := e.verifier.Verify(ctx, matches)
		if err != nil {
			return nil, fmt.Errorf("failed to verify logos: %w", err)
		}
		result.Dropped = dropUnreachable(matches, unreachable)
		for _, m := range result.Dropped {
			logger.Warn("dropping unreachable logo", "channel", m.ChannelName, "reference", m.Reference, "error", unreachable[m.Reference])
		}
	}

	result.Matches = matches
	result.Unmatched = matcher.Unmatched(result.Channels, matches)
	logger.Debug("matched logos", "matched", matches.Len(), "channels", len(result.Channels))
	logger.Debug("missing logos", "count", len(result.Unmatched))

	e.sendProgress(progress, annotateUpdate(matches.Len()))
	annotated := playlist.Annotate(pl.Entries, matches, logger)
	result.Updated = annotated.Updated
	result.Missing = annotated.Missing
	result.Playlist = pl.WithEntries(annotated.Entries)

	if opts.DryRun {
		logger.Info("dry run, playlist left unchanged", "path", opts.PlaylistPath)
	} else {
		e.sendProgress(progress, savePlaylistUpdate(opts.PlaylistPath))
		if err := playlist.Save(opts.PlaylistPath, result.Playlist); err != nil {
			return result, err
		}
		result.Saved = true
		logger.Info("file overwritten", "path", opts.PlaylistPath)
	}

	if e.recorder != nil {
		e.sendProgress(progress, recordHistoryUpdate(result.RunID))
		run := models.NewRun(0, models.RunParams{
			ListingURL:     opts.ListingURL,
			PlaylistPath:   opts.PlaylistPath,
			Threshold:      opts.Threshold,
			CandidateCount: len(result.Candidates),
			ChannelCount:   len(result.Channels),
			DryRun:         opts.DryRun,
			Matches:        matches.Matches(),
		})
		run.SetID(result.RunID)

		if err := e.recorder.Create(run); err != nil {
			logger.Warn("failed to record run", "error", err)
		} else {
			result.Record = run
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// dropUnreachable removes matches whose reference is in unreachable and returns them.
func dropUnreachable(set *models.MatchSet, unreachable map[string]error) []models.Match {
	if len(unreachable) == 0 {
		return nil
	}

	var dropped []models.Match
	for _, m := range set.Matches() {
		if _, bad := unreachable[m.Reference]; bad {
			dropped = append(dropped, m)
			set.Delete(m.ChannelName)
		}
	}
	return dropped
}
