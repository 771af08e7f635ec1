package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBusMaster_MaxWaitTimesOut(t *testing.T) {
	h, m := newTestHarness(t, singleTargetConfig(3))
	m.MaxWait = 10

	start := h.Cycle()
	_, _, err := m.Read(0x40000000)
	if !errors.Is(err, ErrBusTimeout) {
		t.Fatalf("Read returned %v, expected ErrBusTimeout", err)
	}
	// request cycle, ten waits, then one cycle to drop cyc
	if elapsed := h.Cycle() - start; elapsed != 12 {
		t.Fatalf("timeout took %d cycles, expected 12", elapsed)
	}

	// The bus is usable again afterwards.
	if _, cycles, err := m.Read(0x1000); err != nil || cycles != 3 {
		t.Fatalf("Read after timeout: %d cycles, err %v", cycles, err)
	}
}

func TestBusMaster_ContextCancelStopsHang(t *testing.T) {
	h, err := NewHarness(singleTargetConfig(1))
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewBusMaster(ctx, h)

	if _, _, err := m.Read(0x40000000); !errors.Is(err, context.Canceled) {
		t.Fatalf("Read returned %v, expected context.Canceled", err)
	}
	if err := m.Idle(5); !errors.Is(err, context.Canceled) {
		t.Fatalf("Idle returned %v, expected context.Canceled", err)
	}
}

func TestBusMaster_StrobeOnlyOnFirstCycle(t *testing.T) {
	h, m := newTestHarness(t, singleTargetConfig(4))
	m.Read(0x1000)

	entries := h.Trace().Entries()
	last := entries[len(entries)-5:]
	for i, e := range last {
		if !e.Req.Cyc {
			t.Fatalf("cycle %d of the read dropped cyc", i)
		}
		if e.Req.Stb != (i == 0) {
			t.Fatalf("cycle %d of the read has stb=%t", i, e.Req.Stb)
		}
	}
	if !last[4].Resp.Ack {
		t.Fatal("ack not on the last cycle of the read")
	}
}

func TestBusMaster_Log(t *testing.T) {
	_, m := newTestHarness(t, singleTargetConfig(2))
	var sb strings.Builder
	m.SetLog(&sb)

	m.Write(0x1008, 0xAB, 0x1)
	m.Read(0x1008)

	want := []string{
		"bus_master: write 0x00001008 <- 0x000000AB sel=0001 in 2 cycles",
		"bus_master: read  0x00001008 -> 0x000000AB in 2 cycles",
	}
	for _, w := range want {
		if !strings.Contains(sb.String(), w) {
			t.Fatalf("log missing %q:\n%s", w, sb.String())
		}
	}
}

func TestBusMaster_AbortRejectsEmptyHold(t *testing.T) {
	h, m := newTestHarness(t, singleTargetConfig(2))
	start := h.Cycle()
	for _, hold := range []int{0, -1} {
		if _, err := m.Abort(0x1000, hold); !errors.Is(err, ErrBadHold) {
			t.Fatalf("Abort hold %d returned %v, expected ErrBadHold", hold, err)
		}
	}
	if h.Cycle() != start {
		t.Fatalf("rejected Abort advanced the clock by %d cycles", h.Cycle()-start)
	}
}

func TestBusMaster_AbortHoldStopsOnCancel(t *testing.T) {
	h, err := NewHarness(singleTargetConfig(1))
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewBusMaster(ctx, h)

	start := h.Cycle()
	if _, err := m.Abort(0x1000, 1<<40); !errors.Is(err, context.Canceled) {
		t.Fatalf("Abort returned %v, expected context.Canceled", err)
	}
	if h.Cycle() != start {
		t.Fatalf("cancelled Abort ran %d cycles", h.Cycle()-start)
	}
}
