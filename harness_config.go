package main

import (
	"encoding/binary"
	"math/bits"
	"os"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrBadLatency    = errors.New("latency out of range")
	ErrBadSize       = errors.New("window size must be a power of two of at least one word")
	ErrBadBase       = errors.New("window base not aligned to its size")
	ErrBadTrigger    = errors.New("bad interrupt trigger address")
	ErrBadClock      = errors.New("clock frequency must be non-zero")
	ErrImageTooLarge = errors.New("boot image larger than target")
	ErrImageUnneeded = errors.New("boot image given for a target without image contents")
	ErrBadInit       = errors.New("unknown target init mode")
	ErrDupTarget     = errors.New("duplicate target name")
)

// TargetConfig is fixed for the life of a harness.
type TargetConfig struct {
	Name    string
	Base    uint32
	Size    uint32 // bytes
	Latency int    // cycles, 1..255
	Init    TargetInit
	Image   []uint32 // only read when Init is TARGET_INIT_IMAGE
}

type HarnessConfig struct {
	ClockHz        uint64
	ResetCycles    uint64
	Targets        []TargetConfig
	IRQTriggerAddr uint32

	// CIMode selects the expected-output fixture a scenario checks against.
	CIMode bool

	Watchdog   time.Duration
	TraceDepth int
}

func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		ClockHz:     DEFAULT_CLOCK_HZ,
		ResetCycles: DEFAULT_RESET_CYCLES,
		Targets: []TargetConfig{
			{Name: "imem", Base: IMEM_BASE, Size: IMEM_SIZE, Latency: IMEM_LATENCY, Init: TARGET_INIT_IMAGE},
			{Name: "dmem", Base: DMEM_BASE, Size: DMEM_SIZE, Latency: DMEM_LATENCY, Init: TARGET_INIT_ZERO},
			{Name: "xio", Base: XIO_BASE, Size: XIO_SIZE, Latency: XIO_LATENCY, Init: TARGET_INIT_NONE},
		},
		IRQTriggerAddr: IRQ_TRIGGER_ADDR,
		Watchdog:       DEFAULT_WATCHDOG_SEC * time.Second,
		TraceDepth:     DEFAULT_TRACE_DEPTH,
	}
}

// Target returns a pointer to the named target config so callers can
// override latency or contents before building the harness.
func (c *HarnessConfig) Target(name string) (*TargetConfig, bool) {
	for i := range c.Targets {
		if c.Targets[i].Name == name {
			return &c.Targets[i], true
		}
	}
	return nil, false
}

func (tc TargetConfig) Validate() error {
	if tc.Init < TARGET_INIT_ZERO || tc.Init > TARGET_INIT_NONE {
		return errors.Wrapf(ErrBadInit, "%s: init %d", tc.Name, int(tc.Init))
	}
	if tc.Latency < MIN_LATENCY || tc.Latency > MAX_LATENCY {
		return errors.Wrapf(ErrBadLatency, "%s: latency %d not in %d..%d", tc.Name, tc.Latency, MIN_LATENCY, MAX_LATENCY)
	}
	if tc.Size < WORD_SIZE || bits.OnesCount32(tc.Size) != 1 {
		return errors.Wrapf(ErrBadSize, "%s: size 0x%X", tc.Name, tc.Size)
	}
	if tc.Base&(tc.Size-1) != 0 {
		return errors.Wrapf(ErrBadBase, "%s: base 0x%08X size 0x%X", tc.Name, tc.Base, tc.Size)
	}
	if uint64(len(tc.Image))*WORD_SIZE > uint64(tc.Size) {
		return errors.Wrapf(ErrImageTooLarge, "%s: %d words for %d", tc.Name, len(tc.Image), tc.Size/WORD_SIZE)
	}
	if len(tc.Image) > 0 && tc.Init != TARGET_INIT_IMAGE {
		return errors.Wrapf(ErrImageUnneeded, "%s: init %s", tc.Name, tc.Init)
	}
	return nil
}

// Validate checks everything that must hold before the harness is built.
// Window overlap is checked again by the fabric as targets are attached.
func (c HarnessConfig) Validate() error {
	if c.ClockHz == 0 {
		return ErrBadClock
	}
	names := make(map[string]bool, len(c.Targets))
	for _, tc := range c.Targets {
		if names[tc.Name] {
			return errors.Wrapf(ErrDupTarget, "%q", tc.Name)
		}
		names[tc.Name] = true
		if err := tc.Validate(); err != nil {
			return err
		}
		if c.IRQTriggerAddr >= tc.Base && uint64(c.IRQTriggerAddr) < uint64(tc.Base)+uint64(tc.Size) {
			return errors.Wrapf(ErrBadTrigger, "0x%08X inside %s", c.IRQTriggerAddr, tc.Name)
		}
	}
	if c.IRQTriggerAddr%WORD_SIZE != 0 {
		return errors.Wrapf(ErrBadTrigger, "0x%08X not word aligned", c.IRQTriggerAddr)
	}
	return nil
}

// LoadBootImage reads a raw little-endian word image. A trailing partial
// word is zero-padded.
func LoadBootImage(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load boot image")
	}
	return decodeBootImage(raw), nil
}

func decodeBootImage(raw []byte) []uint32 {
	words := make([]uint32, (len(raw)+WORD_SIZE-1)/WORD_SIZE)
	for i := range words {
		var w [WORD_SIZE]byte
		copy(w[:], raw[i*WORD_SIZE:])
		words[i] = binary.LittleEndian.Uint32(w[:])
	}
	return words
}
