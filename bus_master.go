package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var (
	ErrBusTimeout = errors.New("no acknowledge from bus")
	ErrBusError   = errors.New("bus error response")
	ErrBadHold    = errors.New("abort must hold cyc for at least the request cycle")
)

// BusMaster stands in for the device under test. It speaks pipelined
// Wishbone: stb for the first cycle only, cyc held until ack or err, one
// transaction at a time.
//
// Round trip is counted in cycles after the request cycle, so a target of
// latency L reports L and the interrupt doorbell reports 0.
type BusMaster struct {
	h   *Harness
	ctx context.Context

	// MaxWait bounds the cycles spent waiting for a response. Zero waits
	// until the context is cancelled, which is what a real master does.
	MaxWait int

	log io.Writer
}

func NewBusMaster(ctx context.Context, h *Harness) *BusMaster {
	return &BusMaster{h: h, ctx: ctx}
}

// SetLog enables one line per transaction.
func (m *BusMaster) SetLog(w io.Writer) {
	m.log = w
}

func (m *BusMaster) logf(format string, args ...any) {
	if m.log != nil {
		fmt.Fprintf(m.log, "bus_master: "+format+"\n", args...)
	}
}

func (m *BusMaster) transact(req BusRequest) (BusResponse, int, error) {
	req.Cyc = true
	req.Stb = true
	for cycles := 0; ; cycles++ {
		if err := m.ctx.Err(); err != nil {
			return BusResponse{}, cycles, err
		}
		if m.MaxWait > 0 && cycles > m.MaxWait {
			m.h.Step(BusRequest{})
			return BusResponse{}, cycles, errors.Wrapf(ErrBusTimeout, "addr 0x%08X after %d cycles", req.Addr, m.MaxWait)
		}
		resp := m.h.Step(req)
		if resp.Err {
			return resp, cycles, errors.Wrapf(ErrBusError, "addr 0x%08X", req.Addr)
		}
		if resp.Ack {
			return resp, cycles, nil
		}
		req.Stb = false
	}
}

// Read fetches one full word.
func (m *BusMaster) Read(addr uint32) (uint32, int, error) {
	resp, cycles, err := m.transact(BusRequest{Addr: addr, Sel: SEL_ALL})
	if err != nil {
		return 0, cycles, err
	}
	m.logf("read  0x%08X -> 0x%08X in %d cycles", addr, resp.RData, cycles)
	return resp.RData, cycles, nil
}

// Write stores the lanes of data enabled in sel.
func (m *BusMaster) Write(addr uint32, data uint32, sel uint8) (int, error) {
	_, cycles, err := m.transact(BusRequest{Addr: addr, WData: data, Sel: sel, We: true})
	if err != nil {
		return cycles, err
	}
	m.logf("write 0x%08X <- 0x%08X sel=%04b in %d cycles", addr, data, sel&SEL_ALL, cycles)
	return cycles, nil
}

// Idle leaves the bus empty for n cycles.
func (m *BusMaster) Idle(n int) error {
	for i := 0; i < n; i++ {
		if err := m.ctx.Err(); err != nil {
			return err
		}
		m.h.Step(BusRequest{})
	}
	return nil
}

// Abort starts a read, holds cyc for hold cycles counting the request
// cycle, then drops it and watches the bus for long enough that any
// surviving acknowledge would have arrived. It reports whether an ack was
// seen at any point.
func (m *BusMaster) Abort(addr uint32, hold int) (bool, error) {
	if hold < 1 {
		return false, errors.Wrapf(ErrBadHold, "addr 0x%08X hold %d", addr, hold)
	}
	req := BusRequest{Addr: addr, Sel: SEL_ALL, Cyc: true, Stb: true}
	acked := false
	for i := 0; i < hold; i++ {
		if err := m.ctx.Err(); err != nil {
			return acked, err
		}
		if m.h.Step(req).Ack {
			acked = true
		}
		req.Stb = false
	}
	for i := 0; i <= m.h.MaxLatency()+1; i++ {
		if err := m.ctx.Err(); err != nil {
			return acked, err
		}
		if m.h.Step(BusRequest{}).Ack {
			acked = true
		}
	}
	m.logf("abort 0x%08X after %d cycles, ack seen: %t", addr, hold, acked)
	return acked, nil
}
