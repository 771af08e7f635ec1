package main

import "testing"

func TestIRQTrigger_DoorbellSetsAndClearsLines(t *testing.T) {
	h, m := newTestHarness(t, DefaultHarnessConfig())

	cycles, err := m.Write(IRQ_TRIGGER_ADDR, 0x00000808, SEL_ALL)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if cycles != 0 {
		t.Fatalf("doorbell acknowledged after %d cycles, expected same cycle", cycles)
	}
	if msi, mei := h.IRQ(); !msi || !mei {
		t.Fatalf("lines msi=%t mei=%t after 0x808, expected both set", msi, mei)
	}

	// Level, not pulse: lines hold across idle cycles.
	h.Idle(20)
	if msi, mei := h.IRQ(); !msi || !mei {
		t.Fatalf("lines msi=%t mei=%t after idling, expected both still set", msi, mei)
	}

	m.Write(IRQ_TRIGGER_ADDR, 0, SEL_ALL)
	if msi, mei := h.IRQ(); msi || mei {
		t.Fatalf("lines msi=%t mei=%t after 0x0, expected both clear", msi, mei)
	}
}

func TestIRQTrigger_SeparateBits(t *testing.T) {
	tests := []struct {
		data     uint32
		msi, mei bool
	}{
		{0x00000008, true, false},
		{0x00000800, false, true},
		{0xFFFFF7F7, false, false},
		{0xFFFFFFFF, true, true},
	}
	for _, tc := range tests {
		trig := NewIRQTrigger(IRQ_TRIGGER_ADDR)
		trig.Tick(BusRequest{Addr: IRQ_TRIGGER_ADDR, WData: tc.data, Sel: SEL_ALL, We: true, Cyc: true, Stb: true}, false)
		msi, mei := trig.Lines()
		if msi != tc.msi || mei != tc.mei {
			t.Fatalf("0x%08X: msi=%t mei=%t, expected msi=%t mei=%t", tc.data, msi, mei, tc.msi, tc.mei)
		}
	}
}

func TestIRQTrigger_NonQualifyingAccessIgnored(t *testing.T) {
	base := BusRequest{Addr: IRQ_TRIGGER_ADDR, WData: 0x808, Sel: SEL_ALL, We: true, Cyc: true, Stb: true}
	tests := []struct {
		name string
		mod  func(r *BusRequest)
	}{
		{"partial_sel", func(r *BusRequest) { r.Sel = 0x7 }},
		{"read", func(r *BusRequest) { r.We = false }},
		{"no_stb", func(r *BusRequest) { r.Stb = false }},
		{"no_cyc", func(r *BusRequest) { r.Cyc = false }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trig := NewIRQTrigger(IRQ_TRIGGER_ADDR)
			req := base
			tc.mod(&req)

			if resp := trig.Respond(req); resp.Ack || resp.Err {
				t.Fatalf("responded %s to a non-qualifying access", resp)
			}
			trig.Tick(req, false)
			if msi, mei := trig.Lines(); msi || mei {
				t.Fatalf("lines msi=%t mei=%t, expected unchanged", msi, mei)
			}
		})
	}
}

func TestIRQTrigger_ResetClearsLines(t *testing.T) {
	trig := NewIRQTrigger(IRQ_TRIGGER_ADDR)
	req := BusRequest{Addr: IRQ_TRIGGER_ADDR, WData: 0x808, Sel: SEL_ALL, We: true, Cyc: true, Stb: true}

	trig.Tick(req, false)
	trig.Tick(BusRequest{}, true)
	if msi, mei := trig.Lines(); msi || mei {
		t.Fatalf("lines msi=%t mei=%t in reset, expected clear", msi, mei)
	}

	// A qualifying write during reset does not latch.
	trig.Tick(req, true)
	if msi, mei := trig.Lines(); msi || mei {
		t.Fatalf("lines msi=%t mei=%t after write in reset, expected clear", msi, mei)
	}
}

func TestIRQTrigger_WriteDuringHarnessReset(t *testing.T) {
	cfg := DefaultHarnessConfig()
	cfg.ResetCycles = 4
	h, err := NewHarness(cfg)
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	resp := h.Step(BusRequest{Addr: IRQ_TRIGGER_ADDR, WData: 0x808, Sel: SEL_ALL, We: true, Cyc: true, Stb: true})
	if !resp.Ack {
		t.Fatal("doorbell did not acknowledge while in reset")
	}
	if msi, mei := h.IRQ(); msi || mei {
		t.Fatalf("lines msi=%t mei=%t latched during reset", msi, mei)
	}
}
