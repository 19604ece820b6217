package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

// ErrPremiumRequired is wrapped by the permission errors returned for premium content.
var ErrPremiumRequired = errors.New("premium required")

const (
	defaultTeardownTimeout = 2 * time.Second
	defaultPreviewVolume   = 70
)

// Config holds Manager dependencies.
type Config struct {
	Synth           Synth
	Entitlements    Entitlements
	Logger          *logger.Logger
	TeardownTimeout time.Duration // bound on each awaited voice teardown
	PreviewVolume   int           // volume (0..100) for single-sound previews
}

// Status is a snapshot of playback state.
type Status struct {
	ActiveSound string         `json:"activeSound,omitempty"`
	Story       *catalog.Story `json:"story,omitempty"`
	LiveVoices  int            `json:"liveVoices"`
}

// slot serializes start and release of one logical channel.
type slot struct {
	mu    sync.Mutex
	voice Voice
}

// Manager owns every live voice. Voices are keyed by channel so that a start
// on a channel always waits for an in-flight release on the same channel.
type Manager struct {
	synth           Synth
	ent             Entitlements
	log             *logger.Logger
	teardownTimeout time.Duration
	previewVolume   int

	previewMu sync.Mutex // orders Play/Stop of the preview sound

	mu     sync.Mutex
	slots  map[string]*slot
	active string
	story  *catalog.Story
}

// NewManager creates a session manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Synth == nil {
		return nil, fmt.Errorf("synth is required")
	}
	if cfg.Entitlements == nil {
		return nil, fmt.Errorf("entitlements are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.TeardownTimeout
	if timeout <= 0 {
		timeout = defaultTeardownTimeout
	}
	vol := cfg.PreviewVolume
	if vol <= 0 || vol > 100 {
		vol = defaultPreviewVolume
	}
	return &Manager{
		synth:           cfg.Synth,
		ent:             cfg.Entitlements,
		log:             log.Named("session"),
		teardownTimeout: timeout,
		previewVolume:   vol,
		slots:           make(map[string]*slot),
	}, nil
}

// PreviewKey is the channel of the single-sound preview for id.
func PreviewKey(id string) string { return "sound:" + id }

// MixKey is the channel of the mix entry for id.
func MixKey(id string) string { return "mix:" + id }

// CheckAccess returns a permission error if s is premium and premium is not unlocked.
func (m *Manager) CheckAccess(s catalog.Sound) error {
	if s.Premium && !m.ent.Premium() {
		return premiumError(s.ID, "Este som é exclusivo para usuários Premium!")
	}
	return nil
}

// Play toggles the preview of s. It returns whether s is playing afterwards.
// Starting a new preview releases the previous one first.
func (m *Manager) Play(ctx context.Context, s catalog.Sound) (bool, error) {
	if err := m.CheckAccess(s); err != nil {
		return false, err
	}

	m.previewMu.Lock()
	defer m.previewMu.Unlock()

	prev := m.ActiveSound()
	if prev == s.ID {
		m.stopPreview(ctx, s.ID)
		return false, nil
	}
	if prev != "" {
		m.stopPreview(ctx, prev)
	}

	if err := m.Start(ctx, PreviewKey(s.ID), s.Voice(m.previewVolume, 0, audio.Both)); err != nil {
		return false, err
	}

	m.mu.Lock()
	m.active = s.ID
	m.mu.Unlock()

	m.log.Info("preview started", zap.String("sound", s.ID))
	return true, nil
}

// Stop releases the preview of the sound with the given id.
func (m *Manager) Stop(ctx context.Context, id string) {
	m.previewMu.Lock()
	defer m.previewMu.Unlock()
	m.stopPreview(ctx, id)
}

func (m *Manager) stopPreview(ctx context.Context, id string) {
	m.Release(ctx, PreviewKey(id))
	m.mu.Lock()
	if m.active == id {
		m.active = ""
	}
	m.mu.Unlock()
}

// ActiveSound returns the id of the previewed sound, or "".
func (m *Manager) ActiveSound() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Start allocates a voice on channel key. A voice already live on the channel
// is released first.
func (m *Manager) Start(ctx context.Context, key string, spec audio.VoiceSpec) error {
	sl := m.slotFor(key)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.voice != nil {
		if err := m.closeVoice(ctx, sl); err != nil {
			m.log.Warn("voice teardown failed, abandoning", zap.String("channel", key), zap.Error(err))
		}
	}

	v, err := m.synth.NewVoice(spec)
	if err != nil {
		return fmt.Errorf("start %s: %w", key, err)
	}
	sl.voice = v
	return nil
}

// Release stops the voice on channel key and waits for its teardown.
// Releasing an idle channel is a no-op. Teardown failures are logged and the
// voice is abandoned.
func (m *Manager) Release(ctx context.Context, key string) {
	if err := m.release(ctx, key); err != nil {
		m.log.Warn("voice teardown failed, abandoning", zap.String("channel", key), zap.Error(err))
	}
}

func (m *Manager) release(ctx context.Context, key string) error {
	m.mu.Lock()
	sl, ok := m.slots[key]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.voice == nil {
		return nil
	}
	if err := m.closeVoice(ctx, sl); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// closeVoice awaits teardown of the slot's voice. Must be called with sl.mu held.
// The slot is cleared even on failure.
func (m *Manager) closeVoice(ctx context.Context, sl *slot) error {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.teardownTimeout)
	defer cancel()
	err := sl.voice.Close(tctx)
	sl.voice = nil
	return err
}

// SetGain retunes the live voice on channel key. It reports whether a voice was live.
func (m *Manager) SetGain(key string, gain float64) bool {
	m.mu.Lock()
	sl, ok := m.slots[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.voice == nil {
		return false
	}
	sl.voice.SetGain(gain)
	return true
}

// Live reports whether channel key has a voice.
func (m *Manager) Live(key string) bool {
	m.mu.Lock()
	sl, ok := m.slots[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.voice != nil
}

// LiveCount returns the number of channels with a voice.
func (m *Manager) LiveCount() int {
	n := 0
	for _, key := range m.keys() {
		if m.Live(key) {
			n++
		}
	}
	return n
}

// StopAll releases every live voice and clears the preview and story.
// Teardown failures are combined, logged once and otherwise ignored.
func (m *Manager) StopAll(ctx context.Context) {
	m.previewMu.Lock()
	defer m.previewMu.Unlock()

	keys := m.keys()

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  error
	)
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := m.release(ctx, key); err != nil {
				errMu.Lock()
				errs = multierr.Append(errs, err)
				errMu.Unlock()
			}
		}(key)
	}
	wg.Wait()

	m.mu.Lock()
	m.active = ""
	m.story = nil
	m.mu.Unlock()

	if errs != nil {
		m.log.Warn("stop all: abandoned voices",
			zap.Int("failed", len(multierr.Errors(errs))),
			zap.Error(errs),
		)
	}
	m.log.Info("all audio stopped", zap.Int("channels", len(keys)))
}

// PlayStory makes st the current story.
func (m *Manager) PlayStory(st catalog.Story) error {
	if st.Premium && !m.ent.Premium() {
		return premiumError(st.ID, "Esta história é exclusiva para usuários Premium!")
	}
	m.mu.Lock()
	m.story = &st
	m.mu.Unlock()
	m.log.Info("story started", zap.String("story", st.ID))
	return nil
}

// StopStory clears the current story.
func (m *Manager) StopStory() {
	m.mu.Lock()
	m.story = nil
	m.mu.Unlock()
}

// Status returns a snapshot of playback state.
func (m *Manager) Status() Status {
	live := m.LiveCount()
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{ActiveSound: m.active, LiveVoices: live}
	if m.story != nil {
		story := *m.story
		st.Story = &story
	}
	return st
}

func (m *Manager) slotFor(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[key]
	if !ok {
		sl = &slot{}
		m.slots[key] = sl
	}
	return sl
}

func (m *Manager) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func premiumError(resource, message string) error {
	e := apperr.NewPermission(resource, message)
	e.Cause = ErrPremiumRequired
	return e
}
