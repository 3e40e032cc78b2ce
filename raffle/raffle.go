// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package raffle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/flowhub/clock"
	"github.com/danielhkuo/flowhub/models"
	"github.com/danielhkuo/flowhub/shuffle"
)

var (
	ErrExhaustedPool  = errors.New("everyone in the candidate pool has already won")
	ErrEmptyRoster    = errors.New("roster is empty")
	ErrRollInProgress = errors.New("a draw is already rolling")
	ErrRollCancelled  = errors.New("draw cancelled")
)

// DefaultSteps is the number of names shown before the winner settles.
const DefaultSteps = 30

// DefaultDelay is the pause after the given 1-based step. It grows with
// every step so the spin visibly slows down.
func DefaultDelay(step int) time.Duration {
	return 50*time.Millisecond + time.Duration(step)*5*time.Millisecond
}

// Snapshot is a read-only view of the engine.
type Snapshot struct {
	State       string   `json:"state"`
	Current     string   `json:"current"`
	Winner      string   `json:"winner,omitempty"`
	History     []string `json:"history"`
	Remaining   []string `json:"remaining"`
	AllowRepeat bool     `json:"allow_repeat"`
	RosterSize  int      `json:"roster_size"`
}

type Option func(*Engine)

func WithSource(src shuffle.Source) Option {
	return func(e *Engine) { e.rng = src }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSteps sets the number of spin steps (minimum 1).
func WithSteps(n int) Option {
	return func(e *Engine) { e.steps = max(n, 1) }
}

func WithDelay(delay func(step int) time.Duration) Option {
	return func(e *Engine) { e.delay = delay }
}

// WithObserver registers a callback receiving every name shown during a spin.
// It runs on the drawing goroutine, outside the engine lock.
func WithObserver(fn func(name string)) Option {
	return func(e *Engine) { e.observer = fn }
}

func WithAllowRepeat(allow bool) Option {
	return func(e *Engine) { e.allowRepeat = allow }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine draws winners one at a time from a roster of names.
//
// Without repeats, every winner leaves the candidate pool; with repeats the
// full roster is always eligible. At most one draw rolls at a time.
type Engine struct {
	mu sync.Mutex

	names       []string
	pool        []string
	history     []string
	current     string
	winner      string
	state       string
	allowRepeat bool

	// gen invalidates an in-flight roll when the engine is reset.
	gen    uint64
	cancel context.CancelFunc

	rng      shuffle.Source
	clock    clock.Clock
	steps    int
	delay    func(step int) time.Duration
	observer func(name string)
	logger   *zap.Logger
}

// New creates an idle engine over names.
func New(names []string, opts ...Option) *Engine {
	e := &Engine{
		names: slices.Clone(names),
		state: models.StateIdle,
		clock: clock.NewSystem(),
		steps: DefaultSteps,
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		src, _, err := shuffle.FromSeed(0)
		if err != nil {
			src = shuffle.New(time.Now().UnixNano())
		}
		e.rng = src
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.pool = slices.Clone(e.names)
	return e
}

// Draw spins and returns the winner. It blocks for the whole spin.
//
// Errors: ErrExhaustedPool when no candidates remain, ErrEmptyRoster when
// repeats are allowed but the roster is empty, ErrRollInProgress when another
// draw is rolling, ErrRollCancelled when Reset or ctx interrupts the spin.
// On error no winner is recorded and the pool is unchanged.
func (e *Engine) Draw(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.state == models.StateRolling {
		e.mu.Unlock()
		return "", ErrRollInProgress
	}
	allowRepeat := e.allowRepeat
	source := e.pool
	if allowRepeat {
		source = e.names
	}
	if len(source) == 0 {
		e.mu.Unlock()
		if allowRepeat {
			return "", ErrEmptyRoster
		}
		return "", ErrExhaustedPool
	}
	source = slices.Clone(source)

	rollCtx, cancel := context.WithCancel(ctx)
	e.gen++
	gen := e.gen
	e.cancel = cancel
	e.state = models.StateRolling
	e.winner = ""
	e.mu.Unlock()
	defer cancel()

	e.logger.Debug("raffle rolling",
		zap.Int("candidates", len(source)),
		zap.Bool("allow_repeat", allowRepeat),
	)

	idx := 0
	for step := 1; step <= e.steps; step++ {
		e.mu.Lock()
		if e.gen != gen {
			e.mu.Unlock()
			return "", ErrRollCancelled
		}
		idx = shuffle.Pick(e.rng, len(source))
		e.current = source[idx]
		e.mu.Unlock()

		if e.observer != nil {
			e.observer(source[idx])
		}

		if step == e.steps {
			break
		}
		if err := e.clock.Sleep(rollCtx, e.delay(step)); err != nil {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.gen != gen {
				return "", ErrRollCancelled
			}
			e.state = models.StateIdle
			e.current = ""
			e.cancel = nil
			e.logger.Debug("raffle roll interrupted", zap.Error(err))
			return "", fmt.Errorf("%w: %w", ErrRollCancelled, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return "", ErrRollCancelled
	}

	winner := source[idx]
	e.winner = winner
	e.current = winner
	e.history = slices.Insert(e.history, 0, winner)
	if !allowRepeat {
		// source is a snapshot of the pool and the generation still
		// matches, so idx addresses the same entry.
		e.pool = slices.Delete(e.pool, idx, idx+1)
	}
	e.state = models.StateWinnerAnnounced
	e.cancel = nil

	e.logger.Info("raffle winner",
		zap.String("winner", winner),
		zap.Int("remaining", len(e.pool)),
		zap.Int("draws", len(e.history)),
	)
	return winner, nil
}

// Reset cancels any spin and restores the pool to the full roster, clearing
// the history and winner.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// SetRoster replaces the roster names and resets.
func (e *Engine) SetRoster(names []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = slices.Clone(names)
	e.resetLocked()
}

// SetAllowRepeat switches between drawing with and without replacement.
// The pool and history depend on the mode, so switching resets.
func (e *Engine) SetAllowRepeat(allow bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allowRepeat = allow
	e.resetLocked()
}

func (e *Engine) AllowRepeat() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allowRepeat
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:       e.state,
		Current:     e.current,
		Winner:      e.winner,
		History:     slices.Clone(e.history),
		Remaining:   slices.Clone(e.pool),
		AllowRepeat: e.allowRepeat,
		RosterSize:  len(e.names),
	}
}

func (e *Engine) resetLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.pool = slices.Clone(e.names)
	e.history = nil
	e.winner = ""
	e.current = ""
	e.state = models.StateIdle
	e.logger.Debug("raffle reset", zap.Int("candidates", len(e.pool)), zap.Bool("allow_repeat", e.allowRepeat))
}
