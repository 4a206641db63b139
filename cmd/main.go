package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("TRACKDROP_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "trackdrop",
		Usage:    "Bridge Deezer share notifications into Jellyfin playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrAuthFailed) {
			logger.Fatalf("session rejected, refresh deezer.bot_arl_cookie in config.toml: %v", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
