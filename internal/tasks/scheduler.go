package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// Loop is one recurring task run by the Scheduler.
type Loop struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// LoopStats is a snapshot of one loop's counters.
type LoopStats struct {
	Ticks     uint64    `json:"ticks"`
	Skips     uint64    `json:"skips"`
	Failures  uint64    `json:"failures"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

type loopState struct {
	Loop

	inFlight atomic.Bool

	mu    sync.Mutex
	stats LoopStats
}

// Scheduler runs registered loops as independent fixed-interval tickers.
//
// Each loop is single-flight: when a tick fires while the previous pass is
// still running, the tick is skipped and counted instead of overlapping it.
type Scheduler struct {
	logger *log.Logger
	loops  []*loopState
	wg     sync.WaitGroup
}

// NewScheduler creates an empty Scheduler.
func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Add registers a loop. Must be called before Start.
func (s *Scheduler) Add(loop Loop) {
	s.loops = append(s.loops, &loopState{Loop: loop})
}

// Start launches every registered loop. Each runs once immediately, then on
// its interval, until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(len(s.loops))
	for _, state := range s.loops {
		go s.runLoop(ctx, state)
	}
}

// Wait blocks until all loops have observed cancellation and returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stats returns a snapshot of every loop's counters keyed by loop name.
func (s *Scheduler) Stats() map[string]LoopStats {
	stats := make(map[string]LoopStats, len(s.loops))
	for _, state := range s.loops {
		state.mu.Lock()
		stats[state.Name] = state.stats
		state.mu.Unlock()
	}
	return stats
}

func (s *Scheduler) runLoop(ctx context.Context, state *loopState) {
	defer s.wg.Done()

	logger := shared.WithLogger(s.logger, "loop", state.Name)
	logger.Info("loop started", "interval", state.Interval)

	ticker := time.NewTicker(state.Interval)
	defer ticker.Stop()

	s.tick(ctx, state, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("loop stopped")
			return
		case <-ticker.C:
			s.tick(ctx, state, logger)
		}
	}
}

// tick starts one pass unless the previous one is still in flight. Passes
// run in their own goroutine so a slow pass delays nothing but itself.
func (s *Scheduler) tick(ctx context.Context, state *loopState, logger *log.Logger) {
	if !state.inFlight.CompareAndSwap(false, true) {
		logger.Warn("previous pass still running, skipping tick")
		state.mu.Lock()
		state.stats.Skips++
		state.mu.Unlock()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer state.inFlight.Store(false)

		err := state.Run(ctx)

		state.mu.Lock()
		state.stats.Ticks++
		state.stats.LastRun = time.Now()
		if err != nil {
			state.stats.Failures++
			state.stats.LastError = err.Error()
		} else {
			state.stats.LastError = ""
		}
		state.mu.Unlock()

		if err != nil && ctx.Err() == nil {
			logger.Error("pass failed", "err", err)
		}
	}()
}
