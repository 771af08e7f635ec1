// main.go - Command line entry point for the Wishbone latency harness

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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		scenarioPath string
		imagePath    string
		ciMode       bool
		verbose      bool
		showVersion  bool
		watchdog     time.Duration
		progress     time.Duration
		clockHz      uint64
		imemLatency  int
		dmemLatency  int
		xioLatency   int
		maxWait      int
		traceDepth   int
	)

	flagSet := flag.NewFlagSet("wbharness", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&scenarioPath, "scenario", "", "Lua scenario to run (default: built-in smoke scenario)")
	flagSet.StringVar(&imagePath, "image", "", "raw little-endian boot image preloaded into imem")
	flagSet.BoolVar(&ciMode, "ci-mode", false, "select the CI expected-output fixture")
	flagSet.BoolVar(&verbose, "verbose", false, "log every bus transaction")
	flagSet.BoolVar(&showVersion, "version", false, "print version and compiled features")
	flagSet.DurationVar(&watchdog, "watchdog", DEFAULT_WATCHDOG_SEC*time.Second, "wall-clock deadline for the scenario")
	flagSet.DurationVar(&progress, "progress", 0, "print simulated time at this interval (0 = off)")
	flagSet.Uint64Var(&clockHz, "clock-hz", DEFAULT_CLOCK_HZ, "simulated clock frequency")
	flagSet.IntVar(&imemLatency, "imem-latency", IMEM_LATENCY, "imem round trip in cycles (1-255)")
	flagSet.IntVar(&dmemLatency, "dmem-latency", DMEM_LATENCY, "dmem round trip in cycles (1-255)")
	flagSet.IntVar(&xioLatency, "xio-latency", XIO_LATENCY, "xio round trip in cycles (1-255)")
	flagSet.IntVar(&maxWait, "max-wait", 0, "give up on a transaction after this many cycles (0 = never)")
	flagSet.IntVar(&traceDepth, "trace-depth", DEFAULT_TRACE_DEPTH, "cycles kept for the failure trace")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./wbharness [-scenario file.lua] [-image boot.bin] [-ci-mode] [-imem-latency N] ...")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.Usage()
			return 0
		}
		fmt.Fprintf(os.Stderr, "wbharness: %v\n", err)
		flagSet.Usage()
		return 2
	}

	if showVersion {
		printFeatures(os.Stdout)
		return 0
	}

	cfg := DefaultHarnessConfig()
	cfg.ClockHz = clockHz
	cfg.CIMode = ciMode
	cfg.Watchdog = watchdog
	cfg.TraceDepth = traceDepth
	for name, lat := range map[string]int{"imem": imemLatency, "dmem": dmemLatency, "xio": xioLatency} {
		tc, _ := cfg.Target(name)
		tc.Latency = lat
	}

	if imagePath != "" {
		image, err := LoadBootImage(imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wbharness: %v\n", err)
			return 1
		}
		tc, _ := cfg.Target("imem")
		tc.Image = image
	}

	name := "smoke.lua"
	source := embeddedSmokeScenario
	if scenarioPath != "" {
		raw, err := os.ReadFile(scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wbharness: %v\n", err)
			return 1
		}
		name = filepath.Base(scenarioPath)
		source = string(raw)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status := newStatusPrinter(os.Stdout)
	res, err := RunScenario(ctx, cfg, RunOptions{
		Name:     name,
		Source:   source,
		Out:      os.Stdout,
		Verbose:  verbose,
		Progress: progress,
		MaxWait:  maxWait,
	})
	if err != nil {
		status.Fail(name, err)
		return 1
	}
	status.Pass(name, res)
	return 0
}
