package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s %s\n", r.styles.OK("✓ Config written to"), path)
	r.writePlain("%s\n", r.styles.Help("Set listing.url to skip --url on every run"))
	return nil
}

// SetupDatabase initializes the database and runs migrations.
//
// A missing config file is created from the example first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = r.config
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				return err
			}
		}
	} else {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	version, err := shared.CurrentMigrationVersion(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("%s %s (schema version %d)\n", r.styles.OK("✓ Database ready:"), config.Database.Path, version)
	return nil
}
