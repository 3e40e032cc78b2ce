// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Raffle states
const (
	StateIdle            = "idle"
	StateRolling         = "rolling"
	StateWinnerAnnounced = "winner_announced"
)

// Import formats
const (
	FormatDelimited = "delimited"
	FormatLines     = "lines"
)

// Domain types

// Participant identity is ID; Name is not unique.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Members []Participant `json:"members"`
}

// Run is one grouping run. It is replaced wholesale, never edited.
type Run struct {
	ID           string    `json:"id"`
	Theme        string    `json:"theme"`
	MaxGroupSize int       `json:"max_group_size"`
	CreatedAt    time.Time `json:"created_at"`
	Groups       []Group   `json:"groups"`
}

// Size returns the number of members across all groups.
func (r Run) Size() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Members)
	}
	return n
}

// Names returns participant names in roster order.
func Names(roster []Participant) []string {
	names := make([]string, len(roster))
	for i, p := range roster {
		names[i] = p.Name
	}
	return names
}

// CloneGroups deep-copies groups so callers cannot reach engine-owned slices.
func CloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{
			ID:      g.ID,
			Name:    g.Name,
			Members: append([]Participant(nil), g.Members...),
		}
	}
	return out
}

// Clone deep-copies a run.
func (r Run) Clone() Run {
	r.Groups = CloneGroups(r.Groups)
	return r
}
