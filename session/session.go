// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/danielhkuo/flowhub/grouping"
	"github.com/danielhkuo/flowhub/models"
	"github.com/danielhkuo/flowhub/raffle"
	"github.com/danielhkuo/flowhub/roster"
)

// Store loads and saves the roster. found is false when nothing was saved.
type Store interface {
	Load(ctx context.Context) (roster []models.Participant, found bool, err error)
	Save(ctx context.Context, roster []models.Participant) error
}

type Option func(*Session)

// WithIDFunc sets the id generator used for imported rosters.
func WithIDFunc(fn roster.IDFunc) Option {
	return func(s *Session) { s.newID = fn }
}

// Session owns the roster and the engines that read it. Every roster change
// flows through SetRoster so the raffle and the store stay in step.
type Session struct {
	mu     sync.Mutex
	roster []models.Participant

	store    Store
	raffle   *raffle.Engine
	grouping *grouping.Engine
	newID    roster.IDFunc
	logger   *zap.Logger
}

// Open restores the saved roster into a new session. A missing or unreadable
// roster starts the session empty; the failure is logged, not returned. A
// nil store keeps the roster in memory only.
func Open(ctx context.Context, store Store, rf *raffle.Engine, gr *grouping.Engine, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rf == nil {
		rf = raffle.New(nil, raffle.WithLogger(logger))
	}
	if gr == nil {
		gr = grouping.New(grouping.WithLogger(logger))
	}
	s := &Session{
		store:    store,
		raffle:   rf,
		grouping: gr,
		newID:    roster.NewID,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.roster = s.load(ctx)
	s.raffle.SetRoster(models.Names(s.roster))
	return s
}

func (s *Session) load(ctx context.Context) []models.Participant {
	if s.store == nil {
		return []models.Participant{}
	}
	loaded, found, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load roster, starting empty", zap.Error(err))
		return []models.Participant{}
	}
	if !found {
		return []models.Participant{}
	}
	if err := roster.Validate(loaded); err != nil {
		s.logger.Warn("saved roster is invalid, starting empty", zap.Error(err))
		return []models.Participant{}
	}
	s.logger.Debug("roster loaded", zap.Int("participants", len(loaded)))
	return loaded
}

// Roster returns a copy of the current roster.
func (s *Session) Roster() []models.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.Clone(s.roster)
}

// SetRoster replaces the roster, resets the raffle to the new names and
// saves. Saving is best effort: failures are logged and the in-memory
// roster is kept.
func (s *Session) SetRoster(ctx context.Context, next []models.Participant) error {
	if err := roster.Validate(next); err != nil {
		return fmt.Errorf("failed to set roster: %w", err)
	}
	next = roster.Clone(next)
	if next == nil {
		next = []models.Participant{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = next
	s.raffle.SetRoster(models.Names(next))

	if s.store != nil {
		if err := s.store.Save(ctx, roster.Clone(next)); err != nil {
			s.logger.Error("failed to save roster", zap.Int("participants", len(next)), zap.Error(err))
		}
	}
	return nil
}

// Import replaces the roster with names read from r and returns how many
// participants were imported.
func (s *Session) Import(ctx context.Context, r io.Reader, format string) (int, error) {
	names, err := roster.Parse(r, format)
	if err != nil {
		return 0, fmt.Errorf("failed to import roster: %w", err)
	}
	if err := s.SetRoster(ctx, roster.New(names, s.newID)); err != nil {
		return 0, err
	}
	s.logger.Info("roster imported", zap.Int("participants", len(names)), zap.String("format", format))
	return len(names), nil
}

// Dedupe keeps the first entry of each name and returns how many were
// removed.
func (s *Session) Dedupe(ctx context.Context) (int, error) {
	current := s.Roster()
	kept := roster.Dedupe(current)
	removed := len(current) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.SetRoster(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear empties the roster.
func (s *Session) Clear(ctx context.Context) error {
	return s.SetRoster(ctx, []models.Participant{})
}

func (s *Session) NameCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.NameCounts(s.roster)
}

func (s *Session) Duplicates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.Duplicates(s.roster)
}

// Draw runs one raffle spin over the current roster.
func (s *Session) Draw(ctx context.Context) (string, error) {
	return s.raffle.Draw(ctx)
}

func (s *Session) ResetRaffle() {
	s.raffle.Reset()
}

func (s *Session) SetAllowRepeat(allow bool) {
	s.raffle.SetAllowRepeat(allow)
}

func (s *Session) Raffle() raffle.Snapshot {
	return s.raffle.Snapshot()
}

// Group splits the current roster into groups of at most maxSize.
func (s *Session) Group(ctx context.Context, maxSize int, theme string) (models.Run, error) {
	return s.grouping.Group(ctx, s.Roster(), maxSize, theme)
}

func (s *Session) LatestRun() (models.Run, bool) {
	return s.grouping.Latest()
}
