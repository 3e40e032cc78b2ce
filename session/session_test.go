// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielhkuo/flowhub/clock"
	"github.com/danielhkuo/flowhub/db"
	"github.com/danielhkuo/flowhub/grouping"
	"github.com/danielhkuo/flowhub/models"
	"github.com/danielhkuo/flowhub/raffle"
	"github.com/danielhkuo/flowhub/roster"
	"github.com/danielhkuo/flowhub/shuffle"
	"github.com/danielhkuo/flowhub/testutil"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	roster  []models.Participant
	found   bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) ([]models.Participant, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return roster.Clone(m.roster), m.found, nil
}

func (m *memStore) Save(ctx context.Context, r []models.Participant) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.roster = roster.Clone(r)
	m.found = true
	return nil
}

func newRaffle() *raffle.Engine {
	return raffle.New(nil,
		raffle.WithClock(clock.NewInstant(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))),
		raffle.WithSource(shuffle.New(5)),
		raffle.WithSteps(3),
	)
}

func openSession(t *testing.T, store Store, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithIDFunc(testutil.SequentialIDs("p"))}, opts...)
	return Open(context.Background(), store, newRaffle(), grouping.New(grouping.WithSource(shuffle.New(5))), zaptest.NewLogger(t), opts...)
}

func TestOpenRestoresSavedRoster(t *testing.T) {
	store := &memStore{roster: testutil.Roster("A", "B", "C"), found: true}
	s := openSession(t, store)

	assert.Equal(t, []string{"A", "B", "C"}, models.Names(s.Roster()))
	snap := s.Raffle()
	assert.Equal(t, 3, snap.RosterSize)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, snap.Remaining)
}

func TestOpenStartsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		store Store
		warn  bool
	}{
		{"no store", nil, false},
		{"nothing saved", &memStore{}, false},
		{"load error", &memStore{loadErr: errors.New("corrupt")}, true},
		{"invalid saved roster", &memStore{roster: []models.Participant{{ID: "x", Name: "A"}, {ID: "x", Name: "B"}}, found: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			s := Open(context.Background(), tt.store, newRaffle(), nil, zap.New(core))

			assert.NotNil(t, s.Roster())
			assert.Empty(t, s.Roster())
			assert.Equal(t, tt.warn, logs.Len() > 0)
		})
	}
}

func TestSetRosterResetsRaffleAndSaves(t *testing.T) {
	store := &memStore{}
	s := openSession(t, store)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("A", "B")))

	_, err := s.Draw(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Raffle().History, 1)

	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("X", "Y", "Z")))
	snap := s.Raffle()
	assert.Empty(t, snap.History, "roster change resets the raffle")
	assert.ElementsMatch(t, []string{"X", "Y", "Z"}, snap.Remaining)
	assert.Equal(t, models.StateIdle, snap.State)

	assert.Equal(t, 2, store.saves)
	assert.Equal(t, []string{"X", "Y", "Z"}, models.Names(store.roster))
}

func TestSetRosterRejectsDuplicateIDs(t *testing.T) {
	store := &memStore{}
	s := openSession(t, store)
	bad := []models.Participant{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}}

	err := s.SetRoster(context.Background(), bad)
	assert.ErrorIs(t, err, roster.ErrDuplicateID)
	assert.Empty(t, s.Roster())
	assert.Zero(t, store.saves)
}

func TestSetRosterSaveFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := &memStore{saveErr: errors.New("disk full")}
	s := Open(context.Background(), store, newRaffle(), nil, zap.New(core))

	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("A")))
	assert.Equal(t, []string{"A"}, models.Names(s.Roster()))

	entries := logs.FilterMessage("failed to save roster").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}

func TestRosterIsACopy(t *testing.T) {
	s := openSession(t, nil)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("A")))

	got := s.Roster()
	got[0].Name = "mutated"
	assert.Equal(t, "A", s.Roster()[0].Name)
}

func TestImport(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		want   []string
	}{
		{"delimited with header", "姓名,部門\n王小明,HR\n\"Lee, Ann\",IT\n,\nAlice\n", models.FormatDelimited, []string{"王小明", "Lee, Ann", "Alice"}},
		{"lines", "Alice\n\n  Bob  \nAlice\n", models.FormatLines, []string{"Alice", "Bob", "Alice"}},
		{"empty", "", models.FormatDelimited, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			s := openSession(t, store)

			n, err := s.Import(context.Background(), strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, models.Names(s.Roster()))
			assert.NoError(t, roster.Validate(s.Roster()))
			assert.Equal(t, 1, store.saves)
		})
	}
}

func TestImportAssignsFreshIDs(t *testing.T) {
	s := openSession(t, nil)
	_, err := s.Import(context.Background(), strings.NewReader("A\nA\n"), models.FormatLines)
	require.NoError(t, err)

	r := s.Roster()
	assert.Equal(t, "p-1", r[0].ID)
	assert.Equal(t, "p-2", r[1].ID)
}

func TestImportUnknownFormat(t *testing.T) {
	s := openSession(t, nil)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("keep")))

	_, err := s.Import(context.Background(), strings.NewReader("A"), "xlsx")
	assert.ErrorIs(t, err, roster.ErrUnknownFormat)
	assert.Equal(t, []string{"keep"}, models.Names(s.Roster()))
}

func TestDuplicatesAndDedupe(t *testing.T) {
	store := &memStore{}
	s := openSession(t, store)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("Alice", "Bob", "Alice", "Carol", "Bob")))

	assert.Equal(t, map[string]int{"Alice": 2, "Bob": 2, "Carol": 1}, s.NameCounts())
	assert.Equal(t, []string{"Alice", "Bob"}, s.Duplicates())

	removed, err := s.Dedupe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, models.Names(s.Roster()))
	assert.Empty(t, s.Duplicates())

	// Nothing left to remove: no save.
	saves := store.saves
	removed, err = s.Dedupe(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, saves, store.saves)
}

func TestClear(t *testing.T) {
	store := &memStore{}
	s := openSession(t, store)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("A", "B")))

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Roster())
	assert.Empty(t, store.roster)
	assert.True(t, store.found)

	_, err := s.Draw(context.Background())
	assert.ErrorIs(t, err, raffle.ErrExhaustedPool)
}

func TestDrawUntilExhausted(t *testing.T) {
	s := openSession(t, nil)
	require.NoError(t, s.SetRoster(context.Background(), testutil.Roster("A", "B", "C")))

	var winners []string
	for range 3 {
		w, err := s.Draw(context.Background())
		require.NoError(t, err)
		winners = append(winners, w)
	}
	assert.ElementsMatch(t, []string{"A", "B", "C"}, winners)

	_, err := s.Draw(context.Background())
	assert.ErrorIs(t, err, raffle.ErrExhaustedPool)

	s.ResetRaffle()
	assert.Len(t, s.Raffle().Remaining, 3)

	s.SetAllowRepeat(true)
	for range 5 {
		_, err := s.Draw(context.Background())
		require.NoError(t, err)
	}
	snap := s.Raffle()
	assert.Len(t, snap.History, 5)
	assert.Len(t, snap.Remaining, 3)
	assert.True(t, snap.AllowRepeat)
}

func TestGroupUsesCurrentRoster(t *testing.T) {
	s := openSession(t, nil)
	require.NoError(t, s.SetRoster(context.Background(), testutil.NumberedRoster(7)))

	_, ok := s.LatestRun()
	assert.False(t, ok)

	run, err := s.Group(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Len(t, run.Groups, 3)
	assert.Equal(t, 7, run.Size())

	latest, ok := s.LatestRun()
	require.True(t, ok)
	assert.Equal(t, run.ID, latest.ID)

	_, err = s.Group(context.Background(), 0, "")
	assert.ErrorIs(t, err, grouping.ErrInvalidGroupSize)
}

func TestSessionWithSQLiteStore(t *testing.T) {
	kv := testutil.NewTestKV(t)
	store := db.NewRosterStore(kv)

	s := openSession(t, store)
	_, err := s.Import(context.Background(), strings.NewReader("name\nAlice\nBob\n"), models.FormatDelimited)
	require.NoError(t, err)

	reopened := openSession(t, store)
	assert.Equal(t, s.Roster(), reopened.Roster())
}
