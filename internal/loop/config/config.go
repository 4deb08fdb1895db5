// Package config centralizes all tunable game parameters.
package config

import "time"

// Viewport scale - logical units per terminal cell.
// An 80x24 terminal is a 640x384 playfield.
const (
	UnitsPerColumn = 8
	UnitsPerRow    = 16
)

// Frame timing
const (
	DefaultFPS    = 60
	MaxFrameDelta = 0.033 // Seconds, caps simulation step after a stall
)

// Scoring and progression
const (
	KillScore        = 100
	FireBoostChance  = 0.1
	LifeCap          = 3
	DamagePerHit     = 1
	RestartDelay     = 1.0 // Seconds after game over before a restart is accepted
	KillPulse        = 10 * time.Millisecond
	BellPulseMinimum = 20 * time.Millisecond // Shorter pulses are not worth a bell
)

// Background
const (
	StarCount      = 60
	StarBrightStep = 5    // Every n-th star is bright
	StarDrift      = 40.0 // Logical units per second
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)
