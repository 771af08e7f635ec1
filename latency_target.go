// latency_target.go - Latency-pipelined memory and I/O target

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
latency_target.go - Latency-Pipelined Bus Target

This module implements the generic memory/peripheral model that hangs off the
bus fabric. One type covers every region in the memory map: instruction
memory preloaded from an image, zero-filled data memory, and a storage-less
I/O window whose contents are irrelevant and whose only job is timing.

Timing:

    A qualifying request (cyc and stb, with the fabric's decoded select
    folded into stb) is sampled on a clock edge into pipeline stage 0.
    Every later edge shifts stage i-1 into stage i. The acknowledge bit of
    every shifted stage is ANDed with cyc at that edge, so a master that
    drops cyc voids everything still in flight.

    The bus sees stage latency-1. A request sampled at the end of cycle n
    is therefore acknowledged during cycle n+latency. A latency of 1 is the
    bare output register.

Storage:

    Words are indexed by address bits above the byte offset, masked to the
    region's word count. The region must be a power of two in size so the
    mask and the window agree. Writes honour the byte-enable lanes. Stage 0
    captures the word as it was before a write on the same edge.

The pipeline is a ring sized to the configured latency rather than a fixed
256-entry shift register; the head moves instead of the data.
*/

package main

import "math/bits"

// TargetInit selects how a target's storage is populated at power-on.
type TargetInit int

const (
	// TARGET_INIT_ZERO backs the region with zero-filled storage.
	TARGET_INIT_ZERO TargetInit = iota
	// TARGET_INIT_IMAGE backs the region with storage preloaded from an image.
	TARGET_INIT_IMAGE
	// TARGET_INIT_NONE has no storage: writes are discarded, reads return 0.
	TARGET_INIT_NONE
)

func (i TargetInit) String() string {
	switch i {
	case TARGET_INIT_ZERO:
		return "zero"
	case TARGET_INIT_IMAGE:
		return "image"
	case TARGET_INIT_NONE:
		return "none"
	}
	return "unknown"
}

// BusTarget is one address-decoded responder on the fabric.
//
// Respond is the combinational half of a cycle: it may look at the current
// request and at registered state, but must not change anything. Tick is the
// clock edge. The fabric calls Respond on every target before it calls Tick
// on any of them.
type BusTarget interface {
	Name() string
	Base() uint32
	Size() uint32
	Contains(addr uint32) bool
	Respond(req BusRequest) BusResponse
	Tick(req BusRequest, rst bool)
	Reset()
}

type pipeSlot struct {
	data    uint32
	pending bool
}

type LatencyTarget struct {
	name    string
	base    uint32
	size    uint32
	latency int
	init    TargetInit
	image   []uint32

	memory   []uint32
	wordMask uint32

	pipe     []pipeSlot
	head     int // index of stage 0
	inflight int // pending slots in pipe
}

// NewLatencyTarget builds a target from an already validated configuration.
func NewLatencyTarget(cfg TargetConfig) *LatencyTarget {
	t := &LatencyTarget{
		name:    cfg.Name,
		base:    cfg.Base,
		size:    cfg.Size,
		latency: cfg.Latency,
		init:    cfg.Init,
		image:   cfg.Image,
		pipe:    make([]pipeSlot, cfg.Latency),
	}
	words := cfg.Size / WORD_SIZE
	t.wordMask = words - 1
	if cfg.Init != TARGET_INIT_NONE {
		t.memory = make([]uint32, words)
	}
	t.loadContents()
	return t
}

func (t *LatencyTarget) loadContents() {
	for i := range t.memory {
		t.memory[i] = 0
	}
	if t.init == TARGET_INIT_IMAGE {
		copy(t.memory, t.image)
	}
}

func (t *LatencyTarget) Name() string { return t.name }
func (t *LatencyTarget) Base() uint32 { return t.base }
func (t *LatencyTarget) Size() uint32 { return t.size }
func (t *LatencyTarget) Latency() int { return t.latency }

func (t *LatencyTarget) Contains(addr uint32) bool {
	return addr >= t.base && uint64(addr) < uint64(t.base)+uint64(t.size)
}

// wordIndex drops the byte offset and any address bits above the region.
func (t *LatencyTarget) wordIndex(addr uint32) uint32 {
	return (addr >> 2) & t.wordMask
}

// IndexBits is the number of address bits the region decodes for words.
func (t *LatencyTarget) IndexBits() int {
	return bits.Len32(t.wordMask)
}

func (t *LatencyTarget) stage(i int) *pipeSlot {
	return &t.pipe[(t.head+i)%t.latency]
}

// Respond presents the last pipeline stage. It only depends on registered
// state; the request is unused.
func (t *LatencyTarget) Respond(BusRequest) BusResponse {
	out := t.stage(t.latency - 1)
	if !out.pending {
		return BusResponse{}
	}
	return BusResponse{RData: out.data, Ack: true}
}

// Tick samples req on the rising edge. Memory targets have no reset input;
// rst is accepted so every target shares one signature.
func (t *LatencyTarget) Tick(req BusRequest, _ bool) {
	en := req.Enabled()
	idx := t.wordIndex(req.Addr)

	var captured uint32
	if t.memory != nil {
		captured = t.memory[idx]
		if en && req.We {
			t.memory[idx] = mergeLanes(captured, req.WData, req.Sel)
		}
	}

	// Shift: the old last stage falls off and the freed slot becomes stage 0.
	if t.stage(t.latency - 1).pending {
		t.inflight--
	}
	t.head = (t.head + t.latency - 1) % t.latency
	if !req.Cyc && t.inflight > 0 {
		for i := range t.pipe {
			t.pipe[i].pending = false
		}
		t.inflight = 0
	}

	s0 := t.stage(0)
	s0.data = captured
	s0.pending = en
	if en {
		t.inflight++
	}
}

// InFlight reports how many acknowledges are still travelling down the pipe.
func (t *LatencyTarget) InFlight() int {
	return t.inflight
}

// Backed reports whether the target has storage behind it.
func (t *LatencyTarget) Backed() bool {
	return t.memory != nil
}

// PeekWord reads storage directly, bypassing the bus and its latency.
func (t *LatencyTarget) PeekWord(addr uint32) (uint32, bool) {
	if t.memory == nil {
		return 0, false
	}
	return t.memory[t.wordIndex(addr)], true
}

// PokeWord writes storage directly, bypassing the bus and its latency.
func (t *LatencyTarget) PokeWord(addr uint32, value uint32) bool {
	if t.memory == nil {
		return false
	}
	t.memory[t.wordIndex(addr)] = value
	return true
}
