package session

import (
	"context"

	"github.com/satindergrewal/asmrflow/internal/audio"
)

// Voice is a live synthesis resource.
type Voice interface {
	// SetGain retunes the voice in place.
	SetGain(g float64)
	// Close stops the voice and blocks until its resources are released.
	// Closing an already stopped voice returns nil.
	Close(ctx context.Context) error
}

// Synth allocates voices.
type Synth interface {
	NewVoice(spec audio.VoiceSpec) (Voice, error)
}

// Entitlements reports whether premium content is unlocked.
type Entitlements interface {
	Premium() bool
}

type mixerSynth struct {
	m *audio.Mixer
}

// MixerSynth adapts an audio.Mixer to Synth.
func MixerSynth(m *audio.Mixer) Synth {
	return mixerSynth{m: m}
}

func (s mixerSynth) NewVoice(spec audio.VoiceSpec) (Voice, error) {
	v, err := s.m.NewVoice(spec)
	if err != nil {
		return nil, err
	}
	return v, nil
}
