// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package grouping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/flowhub/clock"
	"github.com/danielhkuo/flowhub/models"
	"github.com/danielhkuo/flowhub/shuffle"
)

var (
	ErrInvalidGroupSize = errors.New("max group size must be at least 1")
	ErrLabelTimeout     = errors.New("label generation timed out")
)

// DefaultLabelTimeout bounds the wait for the label generator.
const DefaultLabelTimeout = 10 * time.Second

// LabelGenerator produces display names for groups. It may return fewer
// labels than requested, or an error; the engine fills the gaps.
type LabelGenerator interface {
	GenerateLabels(ctx context.Context, count int, theme string) ([]string, error)
}

// LabelFunc adapts a function to LabelGenerator.
type LabelFunc func(ctx context.Context, count int, theme string) ([]string, error)

func (f LabelFunc) GenerateLabels(ctx context.Context, count int, theme string) ([]string, error) {
	return f(ctx, count, theme)
}

// DefaultPlaceholder names groups when no locale printer is configured.
func DefaultPlaceholder(n int) string {
	return fmt.Sprintf("Group %d", n)
}

type Option func(*Engine)

func WithSource(src shuffle.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithLabelGenerator sets the label collaborator. Without one every group
// gets its placeholder.
func WithLabelGenerator(gen LabelGenerator) Option {
	return func(e *Engine) { e.labels = gen }
}

// WithPlaceholder sets the fallback label for the nth (1-based) group.
func WithPlaceholder(fn func(n int) string) Option {
	return func(e *Engine) { e.placeholder = fn }
}

// WithLabelTimeout bounds the label request; zero or less waits for ctx only.
func WithLabelTimeout(d time.Duration) Option {
	return func(e *Engine) { e.labelTimeout = d }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine splits rosters into randomly composed groups.
type Engine struct {
	mu     sync.Mutex
	latest *models.Run

	rng          shuffle.Source
	labels       LabelGenerator
	placeholder  func(n int) string
	labelTimeout time.Duration
	clock        clock.Clock
	newID        func() string
	logger       *zap.Logger
}

func New(opts ...Option) *Engine {
	e := &Engine{
		placeholder:  DefaultPlaceholder,
		labelTimeout: DefaultLabelTimeout,
		clock:        clock.NewSystem(),
		newID:        uuid.NewString,
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
	return e
}

// GroupCount is ceil(n / size).
func GroupCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Partition cuts items into consecutive chunks of size; the last chunk holds
// the remainder. Chunks cannot grow into their neighbours.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 {
		return nil
	}
	chunks := make([][]T, 0, GroupCount(len(items), size))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// ResolveLabels returns exactly count labels: generated ones first, blank
// or missing slots replaced by placeholder(position), extras dropped.
func ResolveLabels(labels []string, count int, placeholder func(n int) string) []string {
	if placeholder == nil {
		placeholder = DefaultPlaceholder
	}
	out := make([]string, count)
	for i := range out {
		if i < len(labels) {
			if label := strings.TrimSpace(labels[i]); label != "" {
				out[i] = label
				continue
			}
		}
		out[i] = placeholder(i + 1)
	}
	return out
}

// Group shuffles roster and splits it into groups of at most maxSize,
// naming them through the label generator. Label failures never fail the
// run; they fall back to placeholders. The run becomes Latest.
func (e *Engine) Group(ctx context.Context, roster []models.Participant, maxSize int, theme string) (models.Run, error) {
	if maxSize < 1 {
		return models.Run{}, fmt.Errorf("%w: got %d", ErrInvalidGroupSize, maxSize)
	}

	e.mu.Lock()
	shuffled := shuffle.Shuffle(e.rng, roster)
	e.mu.Unlock()

	chunks := Partition(shuffled, maxSize)

	var generated []string
	if len(chunks) > 0 {
		generated = e.requestLabels(ctx, len(chunks), theme)
	}
	names := ResolveLabels(generated, len(chunks), e.placeholder)

	groups := make([]models.Group, len(chunks))
	for i, members := range chunks {
		groups[i] = models.Group{
			ID:      fmt.Sprintf("group-%d", i),
			Name:    names[i],
			Members: members,
		}
	}

	run := models.Run{
		ID:           e.newID(),
		Theme:        theme,
		MaxGroupSize: maxSize,
		CreatedAt:    e.clock.Now(),
		Groups:       groups,
	}

	stored := run.Clone()
	e.mu.Lock()
	e.latest = &stored
	e.mu.Unlock()

	e.logger.Info("grouping complete",
		zap.String("run_id", run.ID),
		zap.Int("participants", len(roster)),
		zap.Int("groups", len(groups)),
		zap.Int("max_group_size", maxSize),
	)
	return run, nil
}

// Latest returns a copy of the most recently completed run.
func (e *Engine) Latest() (models.Run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.latest == nil {
		return models.Run{}, false
	}
	return e.latest.Clone(), true
}

type labelResult struct {
	labels []string
	err    error
}

// requestLabels never returns an error: every failure is logged and
// reported as no labels.
func (e *Engine) requestLabels(ctx context.Context, count int, theme string) []string {
	if e.labels == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan labelResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- labelResult{err: fmt.Errorf("label generator panicked: %v", r)}
			}
		}()
		labels, err := e.labels.GenerateLabels(ctx, count, theme)
		results <- labelResult{labels: labels, err: err}
	}()

	var expired <-chan error
	if e.labelTimeout > 0 {
		timer := make(chan error, 1)
		go func() { timer <- e.clock.Sleep(ctx, e.labelTimeout) }()
		expired = timer
	}

	var res labelResult
	select {
	case res = <-results:
	case err := <-expired:
		if err == nil {
			err = fmt.Errorf("%w after %s", ErrLabelTimeout, e.labelTimeout)
		}
		res = labelResult{err: err}
	case <-ctx.Done():
		res = labelResult{err: ctx.Err()}
	}

	if res.err != nil {
		e.logger.Warn("label generation failed, using placeholders",
			zap.Int("groups", count),
			zap.String("theme", theme),
			zap.Error(res.err),
		)
		return nil
	}
	if len(res.labels) < count {
		e.logger.Info("label generator returned fewer labels than groups",
			zap.Int("groups", count),
			zap.Int("labels", len(res.labels)),
		)
	}
	return res.labels
}
