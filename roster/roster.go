// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/flowhub/models"
)

var (
	ErrDuplicateID = errors.New("duplicate participant id")
	ErrMissingID   = errors.New("participant id is empty")
)

// IDFunc produces opaque participant identifiers.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string {
	return uuid.NewString()
}

// New builds a roster from names in input order, giving each entry a fresh id.
// A nil newID uses NewID.
func New(names []string, newID IDFunc) []models.Participant {
	if newID == nil {
		newID = NewID
	}
	out := make([]models.Participant, 0, len(names))
	for _, name := range names {
		out = append(out, models.Participant{ID: newID(), Name: name})
	}
	return out
}

// Validate checks that every participant has a unique, non-empty id.
// Repeated names are allowed.
func Validate(roster []models.Participant) error {
	seen := make(map[string]struct{}, len(roster))
	for i, p := range roster {
		if p.ID == "" {
			return fmt.Errorf("entry %d (%q): %w", i, p.Name, ErrMissingID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("entry %d (%q) id %s: %w", i, p.Name, p.ID, ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Clone copies a roster.
func Clone(roster []models.Participant) []models.Participant {
	if roster == nil {
		return nil
	}
	out := make([]models.Participant, len(roster))
	copy(out, roster)
	return out
}
