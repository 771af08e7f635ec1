package main

import (
	"context"
	"testing"
)

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
}

// singleTargetConfig maps one zero-filled target of the given latency at
// 0x1000 and leaves the doorbell at its default address.
func singleTargetConfig(latency int) HarnessConfig {
	return HarnessConfig{
		ClockHz: DEFAULT_CLOCK_HZ,
		Targets: []TargetConfig{
			{Name: "mem", Base: 0x1000, Size: 0x1000, Latency: latency, Init: TARGET_INIT_ZERO},
		},
		IRQTriggerAddr: IRQ_TRIGGER_ADDR,
		TraceDepth:     DEFAULT_TRACE_DEPTH,
	}
}

// newTestHarness builds a harness and runs it out of reset.
func newTestHarness(t *testing.T, cfg HarnessConfig) (*Harness, *BusMaster) {
	t.Helper()
	h, err := NewHarness(cfg)
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	h.ReleaseReset()
	return h, NewBusMaster(context.Background(), h)
}

// countAcks drives req once with stb, then cyc alone for n more cycles, and
// returns the cycle offsets at which ack was seen.
func countAcks(h *Harness, req BusRequest, n int) []int {
	req.Cyc = true
	req.Stb = true
	var seen []int
	for i := 0; i <= n; i++ {
		if h.Step(req).Ack {
			seen = append(seen, i)
		}
		req.Stb = false
	}
	return seen
}
