package main

const (
	IRQ_TRIGGER_MSI_BIT = 3  // machine software interrupt request
	IRQ_TRIGGER_MEI_BIT = 11 // machine external interrupt request
)

// IRQTrigger is a write-only doorbell. A full-word write latches two bits of
// the data word onto the interrupt lines; the lines hold until the next
// qualifying write or reset.
//
// Unlike the memory targets it decodes one exact address and acknowledges in
// the same cycle as the write.
type IRQTrigger struct {
	name string
	addr uint32

	msi bool
	mei bool
}

func NewIRQTrigger(addr uint32) *IRQTrigger {
	return &IRQTrigger{name: "irq_trigger", addr: addr}
}

func (t *IRQTrigger) Name() string { return t.name }
func (t *IRQTrigger) Base() uint32 { return t.addr }
func (t *IRQTrigger) Size() uint32 { return WORD_SIZE }

func (t *IRQTrigger) Contains(addr uint32) bool {
	return addr == t.addr
}

func (t *IRQTrigger) qualifies(req BusRequest) bool {
	return req.Enabled() && req.We && req.FullWord()
}

func (t *IRQTrigger) Respond(req BusRequest) BusResponse {
	return BusResponse{Ack: t.qualifies(req)}
}

func (t *IRQTrigger) Tick(req BusRequest, rst bool) {
	if rst {
		t.msi = false
		t.mei = false
		return
	}
	if t.qualifies(req) {
		t.msi = req.WData&(1<<IRQ_TRIGGER_MSI_BIT) != 0
		t.mei = req.WData&(1<<IRQ_TRIGGER_MEI_BIT) != 0
	}
}

// Lines returns the latched software and external interrupt requests.
func (t *IRQTrigger) Lines() (msi, mei bool) {
	return t.msi, t.mei
}
