package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

var ErrScenarioFailed = errors.New("scenario failed")

func init() {
	compiledFeatures = append(compiledFeatures, "scripting:"+lua.LuaVersion)
}

// Scenario runs a Lua script against a harness through a BusMaster. The
// script is the device under test: everything it does on the bus costs
// simulated cycles, except peek and poke which use the backdoor.
type Scenario struct {
	h      *Harness
	m      *BusMaster
	out    io.Writer
	ciMode bool
}

func NewScenario(h *Harness, m *BusMaster, out io.Writer) *Scenario {
	return &Scenario{h: h, m: m, out: out, ciMode: h.Config().CIMode}
}

// Run executes src. A Lua error, a failed expect or a call to fail()
// comes back wrapped in ErrScenarioFailed; cancellation of ctx comes back
// as the context error.
func (s *Scenario) Run(ctx context.Context, name string, src string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	s.register(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return errors.Wrapf(ErrScenarioFailed, "%s: %v", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrapf(ErrScenarioFailed, "%v", err)
	}
	return nil
}

func (s *Scenario) register(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"read":    s.luaRead,
		"write":   s.luaWrite,
		"idle":    s.luaIdle,
		"abort":   s.luaAbort,
		"peek":    s.luaPeek,
		"poke":    s.luaPoke,
		"irq":     s.luaIRQ,
		"cycle":   s.luaCycle,
		"latency": s.luaLatency,
		"log":     s.luaLog,
		"expect":  s.luaExpect,
		"fail":    s.luaFail,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	L.SetGlobal("ci_mode", lua.LBool(s.ciMode))
}

// checkWord accepts any Lua number and wraps it to 32 bits, so -1 and
// 0xFFFFFFFF name the same word.
func checkWord(L *lua.LState, n int) uint32 {
	return uint32(int64(L.CheckNumber(n)))
}

func (s *Scenario) raise(L *lua.LState, err error) {
	L.RaiseError("%v", err)
}

func (s *Scenario) luaRead(L *lua.LState) int {
	data, cycles, err := s.m.Read(checkWord(L, 1))
	if err != nil {
		s.raise(L, err)
		return 0
	}
	L.Push(lua.LNumber(data))
	L.Push(lua.LNumber(cycles))
	return 2
}

func (s *Scenario) luaWrite(L *lua.LState) int {
	addr := checkWord(L, 1)
	data := checkWord(L, 2)
	sel := uint8(L.OptInt(3, SEL_ALL))
	cycles, err := s.m.Write(addr, data, sel)
	if err != nil {
		s.raise(L, err)
		return 0
	}
	L.Push(lua.LNumber(cycles))
	return 1
}

func (s *Scenario) luaIdle(L *lua.LState) int {
	if err := s.m.Idle(L.OptInt(1, 1)); err != nil {
		s.raise(L, err)
	}
	return 0
}

func (s *Scenario) luaAbort(L *lua.LState) int {
	acked, err := s.m.Abort(checkWord(L, 1), L.CheckInt(2))
	if err != nil {
		s.raise(L, err)
		return 0
	}
	L.Push(lua.LBool(acked))
	return 1
}

func (s *Scenario) luaPeek(L *lua.LState) int {
	v, ok := s.h.Backdoor().Read32(checkWord(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Scenario) luaPoke(L *lua.LState) int {
	ok := s.h.Backdoor().Write32(checkWord(L, 1), checkWord(L, 2))
	L.Push(lua.LBool(ok))
	return 1
}

func (s *Scenario) luaIRQ(L *lua.LState) int {
	msi, mei := s.h.IRQ()
	L.Push(lua.LBool(msi))
	L.Push(lua.LBool(mei))
	return 2
}

func (s *Scenario) luaCycle(L *lua.LState) int {
	L.Push(lua.LNumber(s.h.Cycle()))
	return 1
}

func (s *Scenario) luaLatency(L *lua.LState) int {
	name := L.CheckString(1)
	t := s.h.Target(name)
	if t == nil {
		L.ArgError(1, "no target named "+name)
		return 0
	}
	L.Push(lua.LNumber(t.Latency()))
	return 1
}

func (s *Scenario) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintf(s.out, "[%10d] %s\n", s.h.Cycle(), strings.Join(parts, "\t"))
	return 0
}

func formatLuaValue(v lua.LValue) string {
	if n, ok := v.(lua.LNumber); ok && n >= 0 && n == lua.LNumber(int64(n)) {
		return fmt.Sprintf("0x%08X", int64(n))
	}
	return v.String()
}

func (s *Scenario) luaExpect(L *lua.LState) int {
	got := L.CheckAny(1)
	want := L.CheckAny(2)
	if L.Equal(got, want) {
		return 0
	}
	msg := L.OptString(3, "expect")
	L.RaiseError("%s: got %s, want %s", msg, formatLuaValue(got), formatLuaValue(want))
	return 0
}

func (s *Scenario) luaFail(L *lua.LState) int {
	L.RaiseError("fail: %s", L.OptString(1, "scenario called fail()"))
	return 0
}
