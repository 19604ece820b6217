package sleep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

// TrackerConfig configures a Tracker. Now defaults to time.Now.
type TrackerConfig struct {
	Store  Store
	Mix    Mix
	Logger *logger.Logger
	Now    func() time.Time
}

// Tracker records sleep sessions into a Store.
type Tracker struct {
	store Store
	mix   Mix
	log   *logger.Logger
	now   func() time.Time

	mu      sync.Mutex
	pending *Session
}

func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if cfg.Store == nil {
		return nil, errors.New("sleep: store is required")
	}
	if cfg.Mix == nil {
		return nil, errors.New("sleep: mix is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Tracker{
		store: cfg.Store,
		mix:   cfg.Mix,
		log:   cfg.Logger.Named("sleep"),
		now:   cfg.Now,
	}, nil
}

// StartTracking opens a pending session with the current mix sounds and
// plays the mix. A session already pending is replaced.
func (t *Tracker) StartTracking(ctx context.Context) (Session, error) {
	now := t.now()
	s := Session{
		ID:         uuid.NewString(),
		Date:       now,
		SleepTime:  &now,
		SoundsUsed: t.mix.SoundNames(),
	}

	t.mu.Lock()
	t.pending = &s
	t.mu.Unlock()

	t.log.Info("sleep tracking started", zap.String("session", s.ID), zap.Strings("sounds", s.SoundsUsed))
	if t.mix.Len() > 0 {
		if err := t.mix.Play(ctx); err != nil {
			return cloneSession(s), fmt.Errorf("sleep tracking: %w", err)
		}
	}
	return cloneSession(s), nil
}

// EndTracking completes the pending session with quality (1-5) and adds it to
// the history. With nothing pending it does nothing and reports false.
func (t *Tracker) EndTracking(ctx context.Context, quality int, notes string) (Session, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		return Session{}, false, nil
	}
	if quality < 1 || quality > 5 {
		return Session{}, false, apperr.NewValidation("quality", "quality must be between 1 and 5")
	}

	s := *t.pending
	wake := t.now()
	s.WakeTime = &wake
	s.Quality = quality
	s.Notes = notes
	s.Duration = durationMinutes(*s.SleepTime, wake)

	if err := t.store.Add(ctx, s); err != nil {
		return Session{}, false, fmt.Errorf("save session: %w", err)
	}
	t.pending = nil

	t.log.Info("sleep tracking ended",
		zap.String("session", s.ID),
		zap.Int("quality", quality),
		zap.Int("duration_min", s.Duration))
	return cloneSession(s), true, nil
}

// CancelTracking discards the pending session, if any.
func (t *Tracker) CancelTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	had := t.pending != nil
	t.pending = nil
	return had
}

// Pending returns the open session, if any.
func (t *Tracker) Pending() (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return Session{}, false
	}
	return cloneSession(*t.pending), true
}

// History lists completed sessions, newest first.
func (t *Tracker) History(ctx context.Context) ([]Session, error) {
	return t.store.List(ctx)
}

// Stats recomputes statistics over the full history.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	sessions, err := t.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Compute(sessions, t.now()), nil
}

func durationMinutes(from, to time.Time) int {
	d := int(to.Sub(from) / time.Minute)
	if d < 0 {
		return 0
	}
	return d
}
