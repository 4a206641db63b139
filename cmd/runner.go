package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/desertthunder/trackdrop/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	social services.SocialService
	media  services.MediaService
	engine services.Downloader
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Social, Media and Engine are optional; when nil the real clients are
// constructed from the loaded config at command time.
type RunnerOpts struct {
	Social services.SocialService
	Media  services.MediaService
	Engine services.Downloader
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		social: opts.Social,
		media:  opts.Media,
		engine: opts.Engine,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, pollCommand, friendsCommand, runCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads and validates the file named by the command's --config flag.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config, err := shared.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// collaborators returns the three remote clients, constructing real ones from
// config unless doubles were injected through [RunnerOpts].
func (r *Runner) collaborators(config *shared.Config) (services.SocialService, services.MediaService, services.Downloader) {
	social := r.social
	if social == nil {
		social = services.NewDeezerService("", config.Deezer.BotARLCookie)
	}

	media := r.media
	if media == nil {
		media = services.NewJellyfinService(config.Jellyfin.ServerURL, config.Jellyfin.APIKey)
	}

	engine := r.engine
	if engine == nil {
		engine = services.NewCommandDownloader(config.Downloads.EngineBinary)
	}

	return social, media, engine
}

// pipeline assembles one download pipeline over the given collaborators.
func (r *Runner) pipeline(config *shared.Config, social services.SocialService, media services.MediaService, engine services.Downloader) *tasks.Pipeline {
	policy := tasks.SyncPolicy{
		RefreshBeforeResolve: config.Jellyfin.RefreshBeforeResolve,
		RefreshSettle:        time.Duration(config.Jellyfin.RefreshSettleSeconds) * time.Second,
	}

	return tasks.NewPipeline(
		r.ingestor(config, social),
		tasks.NewDispatcher(engine, config.Downloads.MusicDownloadPath, config.Downloads.PerUserDirectory, config.Downloads.PreferredAudioQuality, r.logger),
		tasks.NewSyncEngine(media, policy, r.logger),
		r.logger,
	)
}

// ingestor assembles the notification ingestor over the social client.
func (r *Runner) ingestor(config *shared.Config, social services.SocialService) *tasks.Ingestor {
	return tasks.NewIngestor(social, config.Deezer.ShareBaseURL, r.logger)
}

func (r *Runner) friendLoop(social services.SocialService) *tasks.FriendLoop {
	return tasks.NewFriendLoop(social, r.logger)
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
