package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const (
	ansiReset = "\033[0m"
	ansiPass  = "\033[38;2;50;205;50m"
	ansiFail  = "\033[38;2;255;20;60m"
)

// statusPrinter writes the final verdict, coloured only when the
// destination is a terminal so CI logs stay clean.
type statusPrinter struct {
	w     io.Writer
	color bool
}

func newStatusPrinter(f *os.File) *statusPrinter {
	return &statusPrinter{w: f, color: term.IsTerminal(int(f.Fd()))}
}

func (p *statusPrinter) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func (p *statusPrinter) Pass(name string, res RunResult) {
	fmt.Fprintf(p.w, "%s %s: %d cycles, %s simulated, %s wall\n",
		p.paint(ansiPass, "PASS"), name, res.Cycles, res.SimTime, res.Wall.Round(time.Microsecond))
}

func (p *statusPrinter) Fail(name string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", p.paint(ansiFail, "FAIL"), name, err)
}
