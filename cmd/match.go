package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/logomatch/internal/formatter"
	"github.com/desertthunder/logomatch/internal/harvest"
	"github.com/desertthunder/logomatch/internal/matcher"
	"github.com/desertthunder/logomatch/internal/services"
	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/desertthunder/logomatch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Match runs the full pipeline: fetch the listing, match, annotate and save the playlist.
//
// Flags take precedence over the config file, which takes precedence over built-in defaults.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	verbose := cmd.Bool("verbose")
	r.applyLogLevel(config, verbose)

	opts, err := matchOptions(cmd, config)
	if err != nil {
		return err
	}

	reportPath := cmd.String("report")
	format := formatter.FormatFromPath(reportPath)
	if cmd.IsSet("format") {
		if format, err = formatter.ParseFormat(cmd.String("format")); err != nil {
			return err
		}
	}

	engine, cleanup := r.newEngine(config, !cmd.Bool("no-history"))
	defer cleanup()

	r.logger.Info("starting match", "listing", opts.ListingURL, "playlist", opts.PlaylistPath, "threshold", opts.Threshold)

	progressCh := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchListing, tasks.LoadPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.HarvestCandidates, tasks.MatchChannels:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.VerifyLogos:
				r.writePlain("🔗 %s\n", update.Message)
			case tasks.AnnotatePlaylist, tasks.SavePlaylist, tasks.RecordHistory:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, opts, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writeMatchSummary(result, opts, verbose)

	if reportPath != "" {
		if err := formatter.WriteReport(runReport(result, opts), reportPath, format); err != nil {
			return err
		}
		r.logger.Info("report written", "path", reportPath, "format", format)
		r.writePlain("Report written to %s\n", reportPath)
	}

	return nil
}

// matchOptions resolves run options from flags and config.
func matchOptions(cmd *cli.Command, config *shared.Config) (tasks.RunOptions, error) {
	opts := tasks.RunOptions{
		ListingURL:   cmd.String("url"),
		PlaylistPath: cmd.String("m3u"),
		Threshold:    config.Matcher.Threshold,
		DryRun:       cmd.Bool("dry-run"),
		Verify:       config.Verify.Enabled,
	}

	if opts.ListingURL == "" {
		opts.ListingURL = config.Listing.URL
	}
	if opts.ListingURL == "" {
		return opts, fmt.Errorf("%w: --url is required unless listing.url is configured", shared.ErrMissingArgument)
	}
	if cmd.IsSet("ratio") {
		opts.Threshold = cmd.Float("ratio")
	}
	if cmd.IsSet("verify") {
		opts.Verify = cmd.Bool("verify")
	}

	return opts, nil
}

func (r *Runner) writeMatchSummary(result *tasks.RunResult, opts tasks.RunOptions, verbose bool) {
	r.writePlain("\n")
	r.writePlainHeader("Logo Match Complete!")
	r.writePlain("Run: %s\n", shared.ShortID(result.RunID))
	r.writePlain("Logos: %d\n", len(result.Candidates))
	r.writePlain("Matched: %d/%d channels (%.1f%%)\n",
		result.MatchedCount(), result.MatchedCount()+len(result.Unmatched), result.MatchPercentage())

	matches := result.Matches.Matches()
	if verbose && len(matches) > 0 {
		r.writePlain("\n%s\n", formatter.MatchTable(matches))
	}

	if len(result.Unmatched) > 0 {
		r.writePlain("\n%s\n", r.styles.Warn(fmt.Sprintf("No logo for %d channels:", len(result.Unmatched))))
		for _, name := range result.Unmatched {
			r.writePlain("  - %s\n", name)
		}
	}

	if len(result.Dropped) > 0 {
		r.writePlain("\n%s\n", r.styles.Warn(fmt.Sprintf("Dropped %d unreachable logos:", len(result.Dropped))))
		for _, m := range result.Dropped {
			r.writePlain("  - %s (%s)\n", m.ChannelName, m.Reference)
		}
	}

	if len(result.Missing) > 0 {
		r.writePlain("\n%s\n", r.styles.Warn(fmt.Sprintf("%d matched channels were no longer in the playlist", len(result.Missing))))
	}

	r.writePlain("\n")
	if result.Saved {
		r.writePlain("%s %s\n", r.styles.OK("✓ File overwritten:"), opts.PlaylistPath)
	} else {
		r.writePlain("%s\n", r.styles.Help("Dry run: playlist left unchanged"))
	}
	r.writePlain("Completed in %s\n", result.Duration.Round(time.Millisecond))
}

// runReport builds a report from a finished run.
func runReport(result *tasks.RunResult, opts tasks.RunOptions) *formatter.Report {
	report := &formatter.Report{
		RunID:          result.RunID,
		ListingURL:     opts.ListingURL,
		PlaylistPath:   opts.PlaylistPath,
		Threshold:      opts.Threshold,
		DryRun:         opts.DryRun,
		CandidateCount: len(result.Candidates),
		ChannelCount:   len(result.Channels),
		Matches:        result.Matches.Matches(),
		Unmatched:      result.Unmatched,
		Missing:        result.Missing,
		Dropped:        result.Dropped,
		GeneratedAt:    time.Now(),
	}
	if result.Record != nil {
		report.GeneratedAt = result.Record.CreatedAt()
	}
	return report
}

// Harvest prints the candidates found in a listing.
func (r *Runner) Harvest(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	r.applyLogLevel(config, cmd.Bool("verbose"))

	location := cmd.String("url")
	if location == "" {
		location = config.Listing.URL
	}
	if location == "" {
		return fmt.Errorf("%w: --url is required unless listing.url is configured", shared.ErrMissingArgument)
	}

	listing := services.NewListingService(r.listingClient(config), config.Listing.UserAgent)
	body, err := listing.Fetch(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to fetch listing: %w", err)
	}

	candidates := harvest.Collect(body, services.ListingBase(location))
	if len(candidates) == 0 {
		return fmt.Errorf("%w at %s", shared.ErrNoCandidates, location)
	}
	r.logger.Debug("harvested listing", "url", location, "candidates", len(candidates))

	if cmd.Bool("json") {
		return r.writeJSON(candidates, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%d logos", len(candidates)))
	for i, c := range candidates {
		r.writePlain("%3d. %-30s %s\n", i+1, c.Name, c.Reference)
	}
	return nil
}

// Score prints the similarity of a channel name to a logo name.
func (r *Runner) Score(ctx context.Context, cmd *cli.Command) error {
	channel := cmd.StringArg("channel")
	logo := cmd.StringArg("logo")
	if channel == "" || logo == "" {
		return fmt.Errorf("%w: score needs a channel name and a logo name", shared.ErrMissingArgument)
	}

	threshold := cmd.Float("ratio")
	if err := matcher.ValidateThreshold(threshold); err != nil {
		return err
	}

	score := matcher.Similarity(channel, logo)
	verdict := r.styles.Verdict(score > threshold, "match", "no match")
	r.writePlain("%s (%s at %s)\n", formatter.FormatScore(score), verdict, formatter.FormatScore(threshold))
	return nil
}
