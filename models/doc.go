// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types shared by the engines.

# Domain Types

  - Participant: roster entry (opaque id, display name)
  - Group: named batch of participants
  - Run: one complete grouping result (theme, size limit, groups)

Participants are created when the roster is rebuilt and never edited in place.
Runs are snapshots: a new grouping replaces the previous run entirely.

# Constants

Raffle states:

	StateIdle            = "idle"
	StateRolling         = "rolling"
	StateWinnerAnnounced = "winner_announced"

Import formats:

	FormatDelimited = "delimited"
	FormatLines     = "lines"
*/
package models
