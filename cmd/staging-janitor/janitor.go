package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/princekumarofficial/video-service/internal/staging"
)

const lockFile = "janitor.lock"

var errLocked = errors.New("another staging janitor holds the lock")

// Janitor removes staged uploads left behind by crashed API processes.
type Janitor struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	lock     *flock.Flock
	logger   *slog.Logger
	now      func() time.Time
}

func NewJanitor(dir string, maxAge, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		dir:      dir,
		maxAge:   maxAge,
		interval: interval,
		lock:     flock.New(filepath.Join(dir, lockFile)),
		logger:   logger,
		now:      time.Now,
	}
}

// Start sweeps once immediately and then on every tick until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Staging janitor started",
		slog.String("dir", j.dir),
		slog.String("interval", j.interval.String()),
		slog.String("max_age", j.maxAge.String()))

	j.sweep()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Staging janitor shutting down")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	if _, err := j.SweepOnce(); err != nil && !errors.Is(err, errLocked) {
		j.logger.Error("Staging sweep failed", slog.String("error", err.Error()))
	}
}

// SweepOnce runs a single pass under the directory lock.
func (j *Janitor) SweepOnce() (staging.SweepResult, error) {
	startTime := time.Now()

	ok, err := j.lock.TryLock()
	if err != nil {
		return staging.SweepResult{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		j.logger.Info("Skipping sweep, lock is held elsewhere")
		return staging.SweepResult{}, errLocked
	}
	defer func() {
		if err := j.lock.Unlock(); err != nil {
			j.logger.Warn("failed to release janitor lock", slog.String("error", err.Error()))
		}
	}()

	result, err := staging.Sweep(j.dir, j.maxAge, j.now())

	j.logger.Info("Completed staging sweep",
		slog.Int("files_removed", result.Removed),
		slog.String("freed", humanize.Bytes(uint64(result.Bytes))),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))

	return result, err
}
