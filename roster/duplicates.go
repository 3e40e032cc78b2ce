// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"sort"

	"github.com/danielhkuo/flowhub/models"
)

// NameCounts maps each name to how many times it occurs in the roster.
func NameCounts(roster []models.Participant) map[string]int {
	counts := make(map[string]int, len(roster))
	for _, p := range roster {
		counts[p.Name]++
	}
	return counts
}

// IsDuplicate reports whether name occurs more than once according to counts.
func IsDuplicate(counts map[string]int, name string) bool {
	return counts[name] > 1
}

// Duplicates returns the names occurring more than once, sorted.
func Duplicates(roster []models.Participant) []string {
	var dups []string
	for name, n := range NameCounts(roster) {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	return dups
}

func HasDuplicates(roster []models.Participant) bool {
	for _, n := range NameCounts(roster) {
		if n > 1 {
			return true
		}
	}
	return false
}

// Dedupe keeps the first participant for each name, preserving order.
func Dedupe(roster []models.Participant) []models.Participant {
	seen := make(map[string]struct{}, len(roster))
	out := make([]models.Participant, 0, len(roster))
	for _, p := range roster {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out
}
