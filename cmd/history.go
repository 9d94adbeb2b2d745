package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/logomatch/internal/formatter"
	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// runSummary is the JSON shape of a listed run.
type runSummary struct {
	ID           string  `json:"id"`
	Sequence     int     `json:"sequence"`
	ListingURL   string  `json:"listing_url"`
	PlaylistPath string  `json:"playlist_path"`
	Threshold    float64 `json:"threshold"`
	Candidates   int     `json:"candidates"`
	Channels     int     `json:"channels"`
	Matched      int     `json:"matched"`
	DryRun       bool    `json:"dry_run"`
	CreatedAt    string  `json:"created_at"`
}

func summarize(run *models.Run) runSummary {
	return runSummary{
		ID:           run.ID(),
		Sequence:     run.Sequence(),
		ListingURL:   run.ListingURL(),
		PlaylistPath: run.PlaylistPath(),
		Threshold:    run.Threshold(),
		Candidates:   run.CandidateCount(),
		Channels:     run.ChannelCount(),
		Matched:      run.MatchedCount(),
		DryRun:       run.DryRun(),
		CreatedAt:    run.CreatedAt().Format("2006-01-02 15:04:05"),
	}
}

// HistoryList prints recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidFlag)
	}

	repo, cleanup, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer cleanup()

	criteria := map[string]any{"limit": limit}
	if path := cmd.String("m3u"); path != "" {
		criteria["playlist_path"] = path
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]runSummary, len(runs))
		for i, run := range runs {
			summaries[i] = summarize(run)
		}
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded\n")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		s := summarize(run)
		mode := "write"
		if s.DryRun {
			mode = "dry run"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", s.Sequence),
			shared.ShortID(s.ID),
			s.CreatedAt,
			s.PlaylistPath,
			fmt.Sprintf("%d/%d", s.Matched, s.Channels),
			formatter.FormatScore(s.Threshold),
			mode,
		}
	}

	headers := []string{"Seq", "ID", "Created", "Playlist", "Matched", "Ratio", "Mode"}
	r.writePlain("%s\n", r.styles.Table(headers, rows))
	return nil
}

// HistoryShow prints one run as a report.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, cleanup, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := repo.Find(cmd.String("id"))
	if err != nil {
		return err
	}

	report := formatter.FromRun(run)
	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteReport(report, output, format); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", output)
		return nil
	}

	data, err := formatter.Export(report, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryDelete removes a run and its matches.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, cleanup, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := repo.Find(cmd.String("id"))
	if err != nil {
		return err
	}

	if err := repo.Delete(run.ID()); err != nil {
		return err
	}

	r.logger.Info("run deleted", "id", run.ID())
	r.writePlain("%s %s\n", r.styles.OK("✓ Deleted run"), shared.ShortID(run.ID()))
	return nil
}
