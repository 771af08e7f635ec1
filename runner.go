package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var ErrWatchdogTimeout = errors.New("watchdog timeout")

type RunOptions struct {
	Name   string
	Source string
	Out    io.Writer

	// Verbose logs every bus transaction.
	Verbose bool
	// Progress prints simulated time at this wall-clock interval; zero disables.
	Progress time.Duration
	// MaxWait is passed to the bus master; zero lets an unmapped access
	// hang until the watchdog fires.
	MaxWait int
}

// lockedWriter serialises the scenario's log lines with the progress
// reporter's.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

type RunResult struct {
	Cycles  uint64
	SimTime time.Duration
	Wall    time.Duration
}

// RunScenario builds a harness, holds it in reset, and runs one scenario
// script against it under the configured watchdog. A failed scenario or a
// watchdog expiry dumps the recent bus trace and harness state to Out.
func RunScenario(ctx context.Context, cfg HarnessConfig, opts RunOptions) (RunResult, error) {
	h, err := NewHarness(cfg)
	if err != nil {
		return RunResult{}, err
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	opts.Out = &lockedWriter{w: opts.Out}

	wctx := ctx
	if cfg.Watchdog > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, cfg.Watchdog)
		defer cancel()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(wctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		m := NewBusMaster(gctx, h)
		m.MaxWait = opts.MaxWait
		if opts.Verbose {
			m.SetLog(opts.Out)
		}
		h.ReleaseReset()
		return NewScenario(h, m, opts.Out).Run(gctx, opts.Name, opts.Source)
	})

	if opts.Progress > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(opts.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprintf(opts.Out, "runner: cycle %d, simulated %s\n", h.Clock().Cycle(), h.Clock().SimTime())
				}
			}
		})
	}

	err = g.Wait()
	res := RunResult{Cycles: h.Cycle(), SimTime: h.Clock().SimTime(), Wall: time.Since(start)}
	if err == nil {
		return res, nil
	}

	if ctx.Err() == nil && errors.Is(wctx.Err(), context.DeadlineExceeded) {
		err = errors.Wrapf(ErrWatchdogTimeout, "%s after %s (cycle %d)", opts.Name, cfg.Watchdog, res.Cycles)
	}
	fmt.Fprintf(opts.Out, "runner: %v\n", err)
	fmt.Fprintf(opts.Out, "runner: last %d cycles:\n", len(h.Trace().Entries()))
	h.Trace().WriteTo(opts.Out)
	fmt.Fprint(opts.Out, DumpState(h))
	return res, err
}
