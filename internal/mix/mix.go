package mix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/logger"
	"github.com/satindergrewal/asmrflow/internal/session"
)

const (
	// MaxEntries caps the number of sounds in a mix.
	MaxEntries    = 5
	DefaultVolume = 70
)

// Entry is one sound in the mix. Playing is derived from the session
// manager on read and is always false in presets.
type Entry struct {
	Sound   catalog.Sound `json:"sound"`
	Volume  int           `json:"volume"`
	Echo    int           `json:"echo"`
	Side    audio.Side    `json:"side"`
	Playing bool          `json:"isPlaying"`
}

func (e Entry) key() string {
	return session.MixKey(e.Sound.ID)
}

func (e Entry) voice() audio.VoiceSpec {
	return e.Sound.Voice(e.Volume, e.Echo, e.Side)
}

// Patch holds the fields to merge into an entry. Nil fields are left unchanged.
type Patch struct {
	Volume *int        `json:"volume,omitempty"`
	Echo   *int        `json:"echo,omitempty"`
	Side   *audio.Side `json:"side,omitempty"`
}

// Preset is an immutable saved mix.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Entries   []Entry   `json:"sounds"`
}

// Player is the part of the session manager the mix drives.
type Player interface {
	CheckAccess(s catalog.Sound) error
	Start(ctx context.Context, key string, spec audio.VoiceSpec) error
	Release(ctx context.Context, key string)
	SetGain(key string, gain float64) bool
	Live(key string) bool
}

// Model is the current mix plus the saved presets.
type Model struct {
	player Player
	log    *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
	presets []Preset
}

// New creates an empty mix driving player.
func New(player Player, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}
	return &Model{
		player: player,
		log:    log.Named("mix"),
		now:    time.Now,
	}
}

// Add appends s with default settings. It is a no-op, reported as false, when
// the mix is full, s is already present, or s is premium-gated.
func (m *Model) Add(s catalog.Sound) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= MaxEntries {
		m.log.Debug("add ignored: mix full", zap.String("sound", s.ID))
		return false
	}
	for _, e := range m.entries {
		if e.Sound.ID == s.ID {
			m.log.Debug("add ignored: duplicate", zap.String("sound", s.ID))
			return false
		}
	}
	if err := m.player.CheckAccess(s); err != nil {
		m.log.Debug("add ignored: premium", zap.String("sound", s.ID))
		return false
	}

	m.entries = append(m.entries, Entry{
		Sound:  s,
		Volume: DefaultVolume,
		Side:   audio.Both,
	})
	return true
}

// Remove stops the entry at index if playing, then deletes it.
func (m *Model) Remove(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.player.Release(ctx, m.entries[index].key())
	m.entries = append(m.entries[:index], m.entries[index+1:]...)
	return nil
}

// Update merges p into the entry at index. A volume change on a playing
// entry retunes the live voice; echo or side changes restart it.
func (m *Model) Update(ctx context.Context, index int, p Patch) error {
	if err := p.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkIndex(index); err != nil {
		return err
	}

	e := m.entries[index]
	restart := false
	if p.Volume != nil {
		e.Volume = *p.Volume
	}
	if p.Echo != nil && *p.Echo != e.Echo {
		e.Echo = *p.Echo
		restart = true
	}
	if p.Side != nil && *p.Side != e.Side {
		e.Side = *p.Side
		restart = true
	}
	m.entries[index] = e

	if !m.player.Live(e.key()) {
		return nil
	}
	if restart {
		if err := m.player.Start(ctx, e.key(), e.voice()); err != nil {
			return fmt.Errorf("restart %s: %w", e.Sound.ID, err)
		}
		return nil
	}
	if p.Volume != nil {
		m.player.SetGain(e.key(), float64(e.Volume)/100)
	}
	return nil
}

// Play starts every entry that is not already playing.
func (m *Model) Play(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for _, e := range m.entries {
		if m.player.Live(e.key()) {
			continue
		}
		if err := m.player.Start(ctx, e.key(), e.voice()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf("play mix: %w", errs)
	}
	m.log.Info("mix playing", zap.Int("entries", len(m.entries)))
	return nil
}

// Pause releases every entry's voice. Settings are kept.
func (m *Model) Pause(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseAll(ctx)
}

func (m *Model) releaseAll(ctx context.Context) {
	for _, e := range m.entries {
		m.player.Release(ctx, e.key())
	}
}

// Save snapshots the durable fields of the mix into a new preset.
// An empty name becomes "Mix N".
func (m *Model) Save(name string) Preset {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Mix %d", len(m.presets)+1)
	}
	p := Preset{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: m.now(),
		Entries:   snapshot(m.entries),
	}
	m.presets = append(m.presets, p)
	m.log.Info("mix saved", zap.String("preset", p.ID), zap.String("name", name), zap.Int("entries", len(p.Entries)))
	return clonePreset(p)
}

// Load replaces the mix with a copy of the preset's entries, none playing.
func (m *Model) Load(ctx context.Context, presetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.presets {
		if p.ID == presetID {
			m.releaseAll(ctx)
			m.entries = snapshot(p.Entries)
			m.log.Info("mix loaded", zap.String("preset", p.ID))
			return nil
		}
	}
	return apperr.NewNotFound("preset", presetID)
}

// Entries returns a copy of the mix with live playing flags.
func (m *Model) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		e.Playing = m.player.Live(e.key())
		out[i] = e
	}
	return out
}

// Playing reports whether any entry is playing.
func (m *Model) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if m.player.Live(e.key()) {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// SoundNames returns the display names of the sounds in the mix.
func (m *Model) SoundNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Sound.Name
	}
	return names
}

// Presets returns the saved presets in creation order.
func (m *Model) Presets() []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Preset, len(m.presets))
	for i, p := range m.presets {
		out[i] = clonePreset(p)
	}
	return out
}

func (m *Model) checkIndex(index int) error {
	if index < 0 || index >= len(m.entries) {
		return apperr.NewValidation("index", fmt.Sprintf("index %d out of range [0,%d)", index, len(m.entries)))
	}
	return nil
}

func (p Patch) validate() error {
	if p.Volume != nil && (*p.Volume < 0 || *p.Volume > 100) {
		return apperr.NewValidation("volume", "volume must be 0-100")
	}
	if p.Echo != nil && (*p.Echo < 0 || *p.Echo > 100) {
		return apperr.NewValidation("echo", "echo must be 0-100")
	}
	if p.Side != nil && !p.Side.Valid() {
		return apperr.NewValidation("side", "side must be both, left or right")
	}
	return nil
}

// snapshot copies entries with transient fields cleared.
func snapshot(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Playing = false
		out[i] = e
	}
	return out
}

func clonePreset(p Preset) Preset {
	p.Entries = snapshot(p.Entries)
	return p
}
