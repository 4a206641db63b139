package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackdrop/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Poll runs one pass of the download pipeline.
//
// With --dry-run the pending shares are listed without downloading anything
// and without marking notifications read, so a later real pass still sees
// them.
func (r *Runner) Poll(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	social, media, engine := r.collaborators(config)

	if err := social.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if cmd.Bool("dry-run") {
		pending, err := r.ingestor(config, social).Preview(ctx)
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}
		return r.writePlain("%s", formatter.Requests(pending))
	}

	report, err := r.pipeline(config, social, media, engine).RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("poll failed: %w", err)
	}

	return r.writePlain("%s", formatter.Report(report))
}

// Friends follows back every follower of the bot account that is not already
// followed. With --dry-run the gap is listed without following anyone.
func (r *Runner) Friends(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	social, _, _ := r.collaborators(config)

	if err := social.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	loop := r.friendLoop(social)

	if cmd.Bool("dry-run") {
		gap, err := loop.Gap(ctx)
		if err != nil {
			return fmt.Errorf("failed to list profile tabs: %w", err)
		}
		return r.writePlain("%s", formatter.FriendGap(gap))
	}

	if err := loop.Reconcile(ctx); err != nil {
		return fmt.Errorf("friend reconciliation failed: %w", err)
	}

	return r.writePlain("✓ Friend graph reconciled\n")
}
