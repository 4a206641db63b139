package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/desertthunder/trackdrop/internal/formatter"
	"github.com/desertthunder/trackdrop/internal/server"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/desertthunder/trackdrop/internal/tasks"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"
)

// Daemon runs the notification and friend loops until SIGINT or SIGTERM.
//
// A flock next to the download directory keeps a second instance from racing
// the first over notifications. The optional status server is started when
// server.enabled is set in config.
func (r *Runner) Daemon(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lockPath := filepath.Join(config.Downloads.MusicDownloadPath, ".trackdrop.lock")
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another instance is already running (lock at %s)", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release lock", "path", lockPath, "err", err)
		}
	}()

	social, media, engine := r.collaborators(config)

	if err := social.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	r.logger.Info("authenticated", "service", social.Name())

	pipeline := r.pipeline(config, social, media, engine)
	friends := r.friendLoop(social)

	scheduler := tasks.NewScheduler(r.logger)
	scheduler.Add(tasks.Loop{
		Name:     "downloads",
		Interval: time.Duration(config.Deezer.PollInterval) * time.Second,
		Run: func(ctx context.Context) error {
			report, err := pipeline.RunOnce(ctx)
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d requests failed", report.Failed, len(report.Results))
			}
			return nil
		},
	})
	scheduler.Add(tasks.Loop{
		Name:     "friends",
		Interval: time.Duration(config.Deezer.FriendsInterval) * time.Second,
		Run:      friends.Reconcile,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var statusServer *http.Server
	if config.Server.Enabled {
		statusServer = r.startStatusServer(config, scheduler)
	}

	scheduler.Start(runCtx)
	r.logger.Info("daemon started",
		"poll_interval", config.Deezer.PollInterval,
		"friends_interval", config.Deezer.FriendsInterval,
		"lock", lockPath)

	<-runCtx.Done()
	r.logger.Info("shutting down")

	scheduler.Wait()
	r.writePlain("%s", formatter.LoopStats(scheduler.Stats()))

	if statusServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down status server", "err", err)
		}
	}

	r.logger.Info("daemon stopped")
	return nil
}

func (r *Runner) startStatusServer(config *shared.Config, scheduler *tasks.Scheduler) *http.Server {
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewStatusHandler(scheduler.Stats))

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	statusServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		r.logger.Info("status server listening", "addr", addr)
		if err := statusServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("status server failed", "err", err)
		}
	}()

	return statusServer
}
