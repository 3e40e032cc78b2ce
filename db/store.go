// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/flowhub/models"
)

// RosterKey is the kv_blob key holding the saved roster.
const RosterKey = "hr_participants"

// RosterStore saves and restores the participant roster as one JSON blob.
type RosterStore struct {
	kv *KV
}

func NewRosterStore(kv *KV) *RosterStore {
	return &RosterStore{kv: kv}
}

// Load returns the saved roster. found is false when nothing was ever saved;
// a payload that does not decode is an error.
func (s *RosterStore) Load(ctx context.Context) ([]models.Participant, bool, error) {
	payload, found, err := s.kv.Get(ctx, RosterKey)
	if err != nil || !found {
		return nil, false, err
	}

	var roster []models.Participant
	if err := json.Unmarshal(payload, &roster); err != nil {
		return nil, false, fmt.Errorf("failed to decode roster: %w", err)
	}
	if roster == nil {
		roster = []models.Participant{}
	}
	return roster, true, nil
}

// Save replaces the stored roster.
func (s *RosterStore) Save(ctx context.Context, roster []models.Participant) error {
	if roster == nil {
		roster = []models.Participant{}
	}
	payload, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	return s.kv.Put(ctx, RosterKey, payload)
}
