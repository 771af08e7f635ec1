package main

import "fmt"

const (
	WORD_SIZE      = 4
	BYTE_LANES     = WORD_SIZE
	SEL_ALL        = 0xF
	MAX_LATENCY    = 255
	MIN_LATENCY    = 1
	LANE_BYTE_MASK = 0xFF
)

// BusRequest is the master-driven half of a Wishbone cycle. The master owns
// every field; the fabric derives a per-target copy with Stb replaced by the
// decoded select.
type BusRequest struct {
	Addr  uint32
	WData uint32
	Sel   uint8 // one bit per byte lane, bit 0 = bits 7:0
	Tag   uint8
	We    bool
	Stb   bool
	Cyc   bool
}

// BusResponse is the target-driven half. Targets that are not responding
// drive the zero value so responses can be OR-combined.
type BusResponse struct {
	RData uint32
	Ack   bool
	Err   bool
}

// Or merges two responses the way a wired-OR return path does.
func (r BusResponse) Or(o BusResponse) BusResponse {
	return BusResponse{
		RData: r.RData | o.RData,
		Ack:   r.Ack || o.Ack,
		Err:   r.Err || o.Err,
	}
}

// Enabled reports whether the request is a live, selected access.
func (r BusRequest) Enabled() bool {
	return r.Cyc && r.Stb
}

// FullWord reports whether every byte lane is enabled.
func (r BusRequest) FullWord() bool {
	return r.Sel&SEL_ALL == SEL_ALL
}

func (r BusRequest) String() string {
	op := "rd"
	if r.We {
		op = "wr"
	}
	return fmt.Sprintf("%s addr=0x%08X wdata=0x%08X sel=%04b cyc=%t stb=%t", op, r.Addr, r.WData, r.Sel&SEL_ALL, r.Cyc, r.Stb)
}

func (r BusResponse) String() string {
	return fmt.Sprintf("rdata=0x%08X ack=%t err=%t", r.RData, r.Ack, r.Err)
}

// laneMask expands a byte-enable nibble into a 32-bit mask.
func laneMask(sel uint8) uint32 {
	var mask uint32
	for lane := 0; lane < BYTE_LANES; lane++ {
		if sel&(1<<lane) != 0 {
			mask |= LANE_BYTE_MASK << (8 * lane)
		}
	}
	return mask
}

// mergeLanes replaces the enabled byte lanes of old with those of data.
func mergeLanes(old, data uint32, sel uint8) uint32 {
	mask := laneMask(sel)
	return (old &^ mask) | (data & mask)
}
