// features.go - Version banner, compiled features and default address map

package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
)

const Version = "0.3.0"

// compiledFeatures is filled in by init() in the files that add a feature.
var compiledFeatures []string

// printFeatures writes the -version report: build details, the features
// registered at init and the address map a run gets without overrides.
func printFeatures(w io.Writer) {
	fmt.Fprintf(w, "wbharness %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	features := append([]string(nil), compiledFeatures...)
	sort.Strings(features)
	fmt.Fprintln(w, "\nCompiled features:")
	for _, f := range features {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(features) == 0 {
		fmt.Fprintln(w, "  (none)")
	}

	cfg := DefaultHarnessConfig()
	fmt.Fprintf(w, "\nDefault address map (%d Hz, reset %d cycles):\n", cfg.ClockHz, cfg.ResetCycles)
	for _, tc := range cfg.Targets {
		fmt.Fprintf(w, "  %-11s 0x%08X-0x%08X  latency %3d  %s\n",
			tc.Name, tc.Base, uint64(tc.Base)+uint64(tc.Size)-1, tc.Latency, tc.Init)
	}
	fmt.Fprintf(w, "  %-11s 0x%08X             latency   0  doorbell\n", "irq_trigger", cfg.IRQTriggerAddr)
}
