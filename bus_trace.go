package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const DEFAULT_TRACE_DEPTH = 64

// TraceEntry is one cycle as the master saw it.
type TraceEntry struct {
	Cycle uint64
	Rst   bool
	Req   BusRequest
	Resp  BusResponse
}

// BusTrace keeps the most recent cycles in a ring. Idle cycles are recorded
// too; a hang shows up as a run of cyc without ack.
type BusTrace struct {
	entries []TraceEntry
	next    int
	count   int
}

func NewBusTrace(depth int) *BusTrace {
	if depth <= 0 {
		return &BusTrace{}
	}
	return &BusTrace{entries: make([]TraceEntry, depth)}
}

func (tr *BusTrace) Record(cycle uint64, req BusRequest, resp BusResponse, rst bool) {
	if len(tr.entries) == 0 {
		return
	}
	tr.entries[tr.next] = TraceEntry{Cycle: cycle, Rst: rst, Req: req, Resp: resp}
	tr.next = (tr.next + 1) % len(tr.entries)
	if tr.count < len(tr.entries) {
		tr.count++
	}
}

// Entries returns the recorded cycles, oldest first.
func (tr *BusTrace) Entries() []TraceEntry {
	out := make([]TraceEntry, 0, tr.count)
	start := (tr.next - tr.count + len(tr.entries)) % max(len(tr.entries), 1)
	for i := 0; i < tr.count; i++ {
		out = append(out, tr.entries[(start+i)%len(tr.entries)])
	}
	return out
}

// WriteTo prints one line per recorded cycle.
func (tr *BusTrace) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, e := range tr.Entries() {
		rst := " "
		if e.Rst {
			rst = "R"
		}
		fmt.Fprintf(&sb, "%10d %s %s | %s\n", e.Cycle, rst, e.Req, e.Resp)
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// DumpState renders the harness for a failure report: configuration
// without images, interrupt lines and what each pipeline holds.
func DumpState(h *Harness) string {
	type targetState struct {
		Name     string
		Base     uint32
		Size     uint32
		Latency  int
		Init     string
		InFlight int
	}
	type state struct {
		Cycle   uint64
		InReset bool
		MSI     bool
		MEI     bool
		Targets []targetState
	}

	s := state{Cycle: h.Cycle(), InReset: h.InReset()}
	s.MSI, s.MEI = h.IRQ()
	for _, t := range h.targets {
		s.Targets = append(s.Targets, targetState{
			Name:     t.Name(),
			Base:     t.Base(),
			Size:     t.Size(),
			Latency:  t.Latency(),
			Init:     t.init.String(),
			InFlight: t.InFlight(),
		})
	}
	return dumpConfig.Sdump(s)
}
