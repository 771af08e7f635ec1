package main

import (
	"sync/atomic"
	"time"
)

const PS_PER_SECOND = 1_000_000_000_000

// ClockSource counts rising edges of a free-running clock. The edge counter
// is atomic so a progress reporter may read it while the simulation runs.
type ClockSource struct {
	freqHz   uint64
	periodPs uint64
	edges    atomic.Uint64
}

func NewClockSource(freqHz uint64) *ClockSource {
	return &ClockSource{freqHz: freqHz, periodPs: PS_PER_SECOND / freqHz}
}

func (c *ClockSource) FrequencyHz() uint64 { return c.freqHz }

// PeriodPs is the clock period in picoseconds, truncated.
func (c *ClockSource) PeriodPs() uint64 { return c.periodPs }

func (c *ClockSource) Edge() uint64 {
	return c.edges.Add(1)
}

// Cycle is the index of the cycle currently being driven, which is the
// number of edges seen so far.
func (c *ClockSource) Cycle() uint64 {
	return c.edges.Load()
}

// SimTime is the simulated time at the current edge count.
func (c *ClockSource) SimTime() time.Duration {
	return time.Duration(c.edges.Load()*c.periodPs/1000) * time.Nanosecond
}

func (c *ClockSource) Reset() {
	c.edges.Store(0)
}

// ResetSource holds reset asserted for a fixed number of edges after power-on
// and then releases it for good.
type ResetSource struct {
	cycles    uint64
	remaining uint64
}

func NewResetSource(cycles uint64) *ResetSource {
	return &ResetSource{cycles: cycles, remaining: cycles}
}

func (r *ResetSource) Asserted() bool {
	return r.remaining > 0
}

// Edge advances the reset counter by one clock edge.
func (r *ResetSource) Edge() {
	if r.remaining > 0 {
		r.remaining--
	}
}

func (r *ResetSource) Reset() {
	r.remaining = r.cycles
}
