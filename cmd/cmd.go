// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}
}

// matchCommand writes matched logos into a playlist
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Match logos from a directory listing to the channels of an M3U playlist",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Listing of logo files (http(s) URL, file:// URL or path); defaults to listing.url",
			},
			&cli.StringFlag{
				Name:     "m3u",
				Aliases:  []string{"m"},
				Usage:    "M3U playlist to annotate in place",
				Required: true,
			},
			&cli.FloatFlag{
				Name:    "ratio",
				Aliases: []string{"r"},
				Usage:   "Similarity a logo must exceed to match (0.0 - 1.0)",
				Value:   shared.DefaultThreshold,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Match without writing the playlist",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Drop matches whose logo does not respond",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record this run",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a run report to this path",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format (text, csv, json, markdown); inferred from --report when omitted",
			},
		},
		Action: r.Match,
	}
}

// harvestCommand lists the logos found in a listing
func harvestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "harvest",
		Usage: "List the logo candidates found in a directory listing",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Listing of logo files; defaults to listing.url",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Harvest,
	}
}

// scoreCommand prints the similarity of two names
func scoreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Print the similarity ratio of a channel name and a logo name",
		ArgsUsage: "<channel> <logo>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "channel"},
			&cli.StringArg{Name: "logo"},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    "ratio",
				Aliases: []string{"r"},
				Usage:   "Also report whether the score would match at this threshold",
				Value:   shared.DefaultThreshold,
			},
		},
		Action: r.Score,
	}
}

// historyCommand inspects recorded runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded match runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "m3u",
						Usage: "Only list runs against this playlist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run and its matches",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID or unique prefix",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (text, csv, json, markdown)",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a run and its matches",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID or unique prefix",
						Required: true,
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand creates the config file and history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the history database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
