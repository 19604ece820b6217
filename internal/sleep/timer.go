package sleep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

// Mix is the part of the mix model the timer and tracker use.
type Mix interface {
	Len() int
	Play(ctx context.Context) error
	SoundNames() []string
}

// Stopper force-stops all playback.
type Stopper interface {
	StopAll(ctx context.Context)
}

// TimerStatus is a snapshot of the timer.
type TimerStatus struct {
	Minutes   int    `json:"minutes"`
	Remaining int    `json:"remaining"`
	Active    bool   `json:"active"`
	Display   string `json:"display"`
}

// Timer counts down at one-second resolution and stops all audio when it
// reaches zero.
type Timer struct {
	mix     Mix
	stopper Stopper
	log     *logger.Logger

	mu        sync.Mutex
	minutes   int
	remaining int
	active    bool

	done chan struct{}
}

func NewTimer(mix Mix, stopper Stopper, log *logger.Logger) *Timer {
	if log == nil {
		log = logger.Nop()
	}
	return &Timer{
		mix:     mix,
		stopper: stopper,
		log:     log.Named("timer"),
		minutes: 20,
		done:    make(chan struct{}, 1),
	}
}

// Start arms the timer for minutes and plays the mix if it has entries.
// Starting a running timer resets the countdown.
func (t *Timer) Start(ctx context.Context, minutes int) error {
	if minutes < 1 {
		return apperr.NewValidation("minutes", "minutes must be at least 1")
	}

	t.mu.Lock()
	t.minutes = minutes
	t.remaining = minutes * 60
	t.active = true
	t.mu.Unlock()

	t.log.Info("timer started", zap.Int("minutes", minutes))
	if t.mix.Len() > 0 {
		if err := t.mix.Play(ctx); err != nil {
			return fmt.Errorf("timer: %w", err)
		}
	}
	return nil
}

// Tick advances the countdown by one second. It reports whether this tick
// completed the timer.
func (t *Timer) Tick(ctx context.Context) bool {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}
	t.remaining = 0
	t.active = false
	t.mu.Unlock()

	t.stopper.StopAll(ctx)
	t.log.Info("timer finished, wind down")
	select {
	case t.done <- struct{}{}:
	default:
	}
	return true
}

// Cancel stops the countdown and all audio.
func (t *Timer) Cancel(ctx context.Context) {
	t.mu.Lock()
	t.active = false
	t.remaining = 0
	t.mu.Unlock()

	t.stopper.StopAll(ctx)
	t.log.Info("timer cancelled")
}

// Run ticks once per second until ctx is done.
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Done receives a value each time the countdown completes. Completions are
// dropped while one is still unread.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}

func (t *Timer) Status() TimerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := TimerStatus{
		Minutes:   t.minutes,
		Remaining: t.remaining,
		Active:    t.active,
	}
	if t.active {
		st.Display = FormatClock(t.remaining)
	} else {
		st.Display = FormatClock(t.minutes * 60)
	}
	return st
}

// FormatClock renders seconds as mm:ss. Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
