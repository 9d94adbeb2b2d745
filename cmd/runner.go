package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/logomatch/internal/repositories"
	"github.com/desertthunder/logomatch/internal/services"
	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/desertthunder/logomatch/internal/tasks"
	"github.com/desertthunder/logomatch/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	styles     *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Styles     *ui.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Styles == nil {
		opts.Styles = ui.Styles
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		styles:     opts.Styles,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		matchCommand, harvestCommand, scoreCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration for a command.
//
// A missing file at the default path falls back to the runner's config; a missing file that was
// named explicitly with --config is an error.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return r.config, nil
	}

	if _, err := os.Stat(path); err != nil {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		return r.config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", path)
	return config, nil
}

// applyLogLevel sets the logger level from config; verbose always wins.
func (r *Runner) applyLogLevel(config *shared.Config, verbose bool) {
	if verbose {
		shared.SetLogLevel(r.logger, log.DebugLevel)
		return
	}
	if level, err := shared.ParseLogLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(r.logger, level)
	}
}

// listingClient copies the runner's transport with the configured listing timeout.
func (r *Runner) listingClient(config *shared.Config) *http.Client {
	return &http.Client{
		Transport: r.httpClient.Transport,
		Timeout:   config.Listing.Timeout(),
	}
}

// openHistory opens the run repository. The returned func closes the database.
func (r *Runner) openHistory(config *shared.Config) (*repositories.RunRepository, func(), error) {
	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return repositories.NewRunRepository(db), func() { db.Close() }, nil
}

// newEngine wires a [tasks.LogoEngine] for config.
//
// History is recorded only when enabled in config and by the caller. A history database that
// cannot be opened disables recording for this run.
func (r *Runner) newEngine(config *shared.Config, history bool) (*tasks.LogoEngine, func()) {
	client := r.listingClient(config)
	listing := services.NewListingService(client, config.Listing.UserAgent)
	verifier := services.NewLogoVerifier(client, r.logger, services.VerifierOpts{
		RequestsPerSecond: config.Verify.RequestsPerSecond,
		Burst:             config.Verify.Burst,
		UserAgent:         config.Listing.UserAgent,
	})

	cleanup := func() {}
	var recorder tasks.Recorder
	if history && config.Database.History {
		repo, closeDB, err := r.openHistory(config)
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			recorder = repo
			cleanup = closeDB
		}
	}

	return tasks.NewLogoEngine(listing, verifier, recorder, r.logger), cleanup
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
