package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a starter config file at the path given by --config.
//
// An existing file is left untouched; its validation result is reported
// instead so the command doubles as a config check.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("existing config is unreadable: %w", err)
		}

		if err := config.Validate(); err != nil {
			r.writePlain("✗ %s exists but is incomplete: %v\n", configPath, err)
			r.writePlain("Edit the file and run setup again to re-check it.\n")
			if errors.Is(err, shared.ErrInvalidConfig) {
				return nil
			}
			return err
		}

		r.writePlain("✓ %s exists and is valid\n", configPath)
		return nil
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Starter configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set deezer.bot_arl_cookie to the bot account's arl cookie\n")
	r.writePlain("2. Set downloads.music_download_path to a directory Jellyfin indexes\n")
	r.writePlain("3. Set jellyfin.server_url and jellyfin.api_key\n")
	r.writePlain("4. Run 'trackdrop poll --dry-run' to test the session\n")

	return nil
}
