package main

import _ "embed"

func init() {
	compiledFeatures = append(compiledFeatures, "scenario:smoke")
}

//go:embed scenarios/smoke.lua
var embeddedSmokeScenario string
