// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand writes a starter config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter configuration file",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

// pollCommand runs one pass of the download pipeline
func pollCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "poll",
		Usage: "Process pending share notifications once",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List pending shares without downloading or marking them read",
			},
		},
		Action: r.Poll,
	}
}

// friendsCommand reconciles the bot account's social graph
func friendsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "friends",
		Usage: "Follow back everyone following the bot account",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List followers not followed back without following them",
			},
		},
		Action: r.Friends,
	}
}

// runCommand starts the long-running daemon
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the notification and friend loops until interrupted",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Daemon,
	}
}
