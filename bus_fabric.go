// bus_fabric.go - Address decoder and response multiplexer

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
bus_fabric.go - Bus Fabric

The fabric connects one master to any number of address-mapped targets.

Request path:

    cyc, addr, wdata, sel, we and tag are forwarded to every target
    unchanged. stb is ANDed per target with that target's address match, so
    at most one target sees a live strobe. The interrupt doorbell matches a
    single exact address; everything else matches base <= addr < base+size.

Response path:

    Every target's rdata, ack and err are ORed together. Targets drive zero
    when they are not responding and windows never overlap, so the OR is a
    mux that needs no priority.

An address that falls in no window strobes nobody and is never
acknowledged. The fabric does not time out; detecting that is the master's
problem.

Windows are checked for overlap as targets are attached. Attaching after
the first Step panics, the same way late MapIO calls panic once the machine
bus is sealed.
*/

package main

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

var ErrWindowOverlap = errors.New("address window overlap")

type BusFabric struct {
	targets []BusTarget
	scratch []BusRequest

	sealed atomic.Bool
}

func NewBusFabric() *BusFabric {
	return &BusFabric{}
}

func windowsOverlap(a, b BusTarget) bool {
	aEnd := uint64(a.Base()) + uint64(a.Size())
	bEnd := uint64(b.Base()) + uint64(b.Size())
	return uint64(a.Base()) < bEnd && uint64(b.Base()) < aEnd
}

// Attach adds a target to the address map.
func (f *BusFabric) Attach(t BusTarget) error {
	if f.sealed.Load() {
		panic("bus_fabric: Attach after fabric sealed")
	}
	for _, other := range f.targets {
		if windowsOverlap(t, other) {
			return errors.Wrapf(ErrWindowOverlap, "%s [0x%08X+0x%X) and %s [0x%08X+0x%X)",
				t.Name(), t.Base(), t.Size(), other.Name(), other.Base(), other.Size())
		}
	}
	f.targets = append(f.targets, t)
	f.scratch = append(f.scratch, BusRequest{})
	return nil
}

// Seal freezes the address map.
func (f *BusFabric) Seal() {
	f.sealed.Store(true)
}

func (f *BusFabric) IsSealed() bool {
	return f.sealed.Load()
}

func (f *BusFabric) Targets() []BusTarget {
	return f.targets
}

// Decode returns the target whose window holds addr, or nil.
func (f *BusFabric) Decode(addr uint32) BusTarget {
	for _, t := range f.targets {
		if t.Contains(addr) {
			return t
		}
	}
	return nil
}

// Step runs one clock cycle. Every target's response is sampled from the
// current request and pre-edge state first; only then is the edge applied to
// all of them. The returned response is what the master sees during the
// cycle that this edge ends.
func (f *BusFabric) Step(req BusRequest, rst bool) BusResponse {
	f.sealed.Store(true)

	var resp BusResponse
	for i, t := range f.targets {
		sub := req
		sub.Stb = req.Stb && t.Contains(req.Addr)
		f.scratch[i] = sub
		resp = resp.Or(t.Respond(sub))
	}
	for i, t := range f.targets {
		t.Tick(f.scratch[i], rst)
	}
	return resp
}
