// memory_bus.go - Zero-time backdoor access to target storage

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
memory_bus.go - Backdoor Memory Bus

The backdoor reaches straight into the storage behind each memory target.
It takes no simulated time, goes through no pipeline and never
acknowledges anything on the real bus. Tests and scenario scripts use it to
seed memory and to check what a transaction left behind.

Addresses are decoded with the same windows as the fabric and masked the
same way as the target itself, so a backdoor read of an address returns
exactly the word a bus read of that address would have captured.

Storage-less targets and unmapped addresses report ok == false.
*/

package main

type MemoryBus interface {
	Read32(addr uint32) (uint32, bool)
	Write32(addr uint32, value uint32) bool
	Reset()
}

type BackdoorBus struct {
	targets []*LatencyTarget
}

var _ MemoryBus = (*BackdoorBus)(nil)

func NewBackdoorBus(targets []*LatencyTarget) *BackdoorBus {
	return &BackdoorBus{targets: targets}
}

func (bus *BackdoorBus) find(addr uint32) *LatencyTarget {
	for _, t := range bus.targets {
		if t.Contains(addr) {
			return t
		}
	}
	return nil
}

func (bus *BackdoorBus) Read32(addr uint32) (uint32, bool) {
	t := bus.find(addr)
	if t == nil {
		return 0, false
	}
	return t.PeekWord(addr)
}

func (bus *BackdoorBus) Write32(addr uint32, value uint32) bool {
	t := bus.find(addr)
	if t == nil {
		return false
	}
	return t.PokeWord(addr, value)
}

// Load copies words into consecutive addresses starting at addr.
func (bus *BackdoorBus) Load(addr uint32, words []uint32) bool {
	for i, w := range words {
		if !bus.Write32(addr+uint32(i*WORD_SIZE), w) {
			return false
		}
	}
	return true
}

// Reset restores every target's storage to its power-on contents. Pipelines
// are left alone; see LatencyTarget.Reset for a full reset.
func (bus *BackdoorBus) Reset() {
	for _, t := range bus.targets {
		t.loadContents()
	}
}
