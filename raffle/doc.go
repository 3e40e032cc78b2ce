// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package raffle implements the prize draw.

# States

	idle ──Draw──> rolling ──spin ends──> winner_announced
	  ^                │                        │
	  └────Reset───────┴────────Reset───────────┘

# Spin

Draw samples DefaultSteps uniform indexes from the eligible names, pausing
DefaultDelay(step) between samples so the display decelerates. The last
sample wins. Without repeats the winner's pool entry is removed; with
repeats (SetAllowRepeat) the full roster is always eligible.

# Cancellation

Reset, SetRoster and SetAllowRepeat cancel any spin in flight; the
cancelled Draw returns ErrRollCancelled and never records a winner.
A second Draw while one is rolling returns ErrRollInProgress.

Time comes from an injected clock.Clock and randomness from a
shuffle.Source, so tests drive spins without real delays.
*/
package raffle
