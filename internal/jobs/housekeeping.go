// Package jobs runs periodic maintenance next to the HTTP server.
package jobs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	resetTokenEvery = 10 * time.Minute
	tempUploadEvery = 30 * time.Minute
	// DefaultTempMaxAge is how long an upload may sit in the temp dir.
	DefaultTempMaxAge = time.Hour
)

// ResetTokenSweeper clears password reset tokens whose expiry has passed.
type ResetTokenSweeper interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// Housekeeping clears expired reset tokens and orphaned temp uploads left
// by requests that crashed before their own cleanup ran.
type Housekeeping struct {
	Users      ResetTokenSweeper
	TempDir    string
	TempMaxAge time.Duration
	Logger     *logrus.Logger
	Now        func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	// ctxMu is separate from mu so a job can read ctx while Stop waits on it.
	ctxMu sync.RWMutex
	ctx   context.Context
}

func NewHousekeeping(users ResetTokenSweeper, tempDir string, logger *logrus.Logger) *Housekeeping {
	h := &Housekeeping{
		Users:      users,
		TempDir:    tempDir,
		TempMaxAge: DefaultTempMaxAge,
		Logger:     logger,
		Now:        time.Now,
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
	// Registered once; Start and Stop only toggle the scheduler.
	h.cron.Schedule(cron.Every(resetTokenEvery), cron.FuncJob(h.resetTokenJob))
	h.cron.Schedule(cron.Every(tempUploadEvery), cron.FuncJob(h.tempUploadJob))
	return h
}

func (h *Housekeeping) runContext() context.Context {
	h.ctxMu.RLock()
	defer h.ctxMu.RUnlock()
	if h.ctx == nil {
		return context.Background()
	}
	return h.ctx
}

func (h *Housekeeping) resetTokenJob() {
	n, err := h.SweepResetTokens(h.runContext())
	if err != nil {
		h.Logger.WithError(err).Warn("reset token sweep failed")
		return
	}
	if n > 0 {
		h.Logger.WithField("cleared", n).Info("expired reset tokens cleared")
	}
}

func (h *Housekeeping) tempUploadJob() {
	n, err := h.SweepTempUploads()
	if err != nil {
		h.Logger.WithError(err).Warn("temp upload sweep failed")
		return
	}
	if n > 0 {
		h.Logger.WithField("removed", n).Info("orphaned temp uploads removed")
	}
}

// Start runs the scheduler. Calling it twice is a no-op.
func (h *Housekeeping) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.ctxMu.Lock()
	h.ctx = runCtx
	h.ctxMu.Unlock()
	h.cancel = cancel
	h.cron.Start()
	h.running = true
	h.Logger.Info("housekeeping started")
	return nil
}

// Stop waits for a running sweep to finish.
func (h *Housekeeping) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.cancel()
	<-h.cron.Stop().Done()
	h.running = false
	h.Logger.Info("housekeeping stopped")
}

func (h *Housekeeping) SweepResetTokens(ctx context.Context) (int64, error) {
	return h.Users.ClearExpiredResetTokens(ctx, h.Now())
}

// SweepTempUploads removes regular files under TempDir older than TempMaxAge.
// A missing directory counts as clean.
func (h *Housekeeping) SweepTempUploads() (int, error) {
	entries, err := os.ReadDir(h.TempDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := h.Now().Add(-h.TempMaxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(h.TempDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.Logger.WithError(err).WithField("file", e.Name()).Warn("temp upload remove failed")
			continue
		}
		removed++
	}
	return removed, nil
}
