// harness.go - Top-level simulation step for the latency harness

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
harness.go - Harness

The harness owns the clock, the reset generator, the fabric and every
target built from a HarnessConfig. Step is the only way time moves: it
takes the master's request for the current cycle, returns what the master
sees on the response lines during that cycle, and then applies one rising
edge everywhere.

Clock and reset are passed down explicitly on every Step rather than
living in package state, so several harnesses can run side by side in one
process (the tests rely on that).

The harness is single threaded. Only the clock's edge counter may be read
from another goroutine.
*/

package main

import "github.com/pkg/errors"

type Harness struct {
	cfg HarnessConfig

	clock   *ClockSource
	reset   *ResetSource
	fabric  *BusFabric
	targets []*LatencyTarget
	trigger *IRQTrigger

	trace    *BusTrace
	backdoor *BackdoorBus
}

func NewHarness(cfg HarnessConfig) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "harness config")
	}

	h := &Harness{
		cfg:     cfg,
		clock:   NewClockSource(cfg.ClockHz),
		reset:   NewResetSource(cfg.ResetCycles),
		fabric:  NewBusFabric(),
		trigger: NewIRQTrigger(cfg.IRQTriggerAddr),
		trace:   NewBusTrace(cfg.TraceDepth),
	}
	for _, tc := range cfg.Targets {
		t := NewLatencyTarget(tc)
		if err := h.fabric.Attach(t); err != nil {
			return nil, err
		}
		h.targets = append(h.targets, t)
	}
	if err := h.fabric.Attach(h.trigger); err != nil {
		return nil, err
	}
	h.fabric.Seal()
	h.backdoor = NewBackdoorBus(h.targets)
	return h, nil
}

// Step drives req for one cycle and returns the response seen in it.
func (h *Harness) Step(req BusRequest) BusResponse {
	rst := h.reset.Asserted()
	cycle := h.clock.Cycle()
	resp := h.fabric.Step(req, rst)
	h.trace.Record(cycle, req, resp, rst)
	h.reset.Edge()
	h.clock.Edge()
	return resp
}

// Idle drives an empty bus for n cycles.
func (h *Harness) Idle(n int) {
	for i := 0; i < n; i++ {
		h.Step(BusRequest{})
	}
}

// ReleaseReset idles the bus until the reset generator lets go.
func (h *Harness) ReleaseReset() {
	for h.reset.Asserted() {
		h.Step(BusRequest{})
	}
}

func (h *Harness) InReset() bool { return h.reset.Asserted() }

// IRQ returns the interrupt lines as the device under test would sample them.
func (h *Harness) IRQ() (msi, mei bool) {
	return h.trigger.Lines()
}

func (h *Harness) Cycle() uint64 { return h.clock.Cycle() }

func (h *Harness) Clock() *ClockSource { return h.clock }

func (h *Harness) Config() HarnessConfig { return h.cfg }

func (h *Harness) Fabric() *BusFabric { return h.fabric }

func (h *Harness) Trace() *BusTrace { return h.trace }

func (h *Harness) Backdoor() *BackdoorBus { return h.backdoor }

func (h *Harness) Target(name string) *LatencyTarget {
	for _, t := range h.targets {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// MaxLatency is the longest configured round trip of any memory target.
func (h *Harness) MaxLatency() int {
	longest := 0
	for _, t := range h.targets {
		longest = max(longest, t.Latency())
	}
	return longest
}
