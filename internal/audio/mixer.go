package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrMixerClosed is returned by NewVoice after Run has returned.
var ErrMixerClosed = errors.New("mixer closed")

// MixerConfig holds mixer parameters.
type MixerConfig struct {
	MasterGain float64       // applied to the summed voices
	FadeIn     time.Duration // fade-in ramp for new voices
	Release    time.Duration // fade-out ramp before a stopped voice is released
}

// Mixer renders all live voices into 20ms stereo PCM frames at real-time rate.
type Mixer struct {
	cfg     MixerConfig
	frameCh chan []int16

	mu       sync.Mutex
	voices   []*Voice
	seed     uint64
	rendered uint64
	closed   bool
}

// NewMixer creates a mixer. Frames are produced once Run is started.
func NewMixer(cfg MixerConfig) *Mixer {
	if cfg.MasterGain <= 0 {
		cfg.MasterGain = 1
	}
	return &Mixer{
		cfg:     cfg,
		frameCh: make(chan []int16, 100),
		seed:    uint64(time.Now().UnixNano()),
	}
}

// Frames returns the channel of outgoing PCM frames (20ms each).
func (m *Mixer) Frames() <-chan []int16 {
	return m.frameCh
}

// NewVoice allocates a voice and starts it with a fade-in ramp.
func (m *Mixer) NewVoice(spec VoiceSpec) (*Voice, error) {
	if !spec.Waveform.Valid() {
		return nil, fmt.Errorf("unknown waveform %q", spec.Waveform)
	}
	if !spec.Waveform.IsNoise() && spec.Frequency <= 0 {
		return nil, fmt.Errorf("invalid frequency %.2f for %s oscillator", spec.Frequency, spec.Waveform)
	}
	if spec.Side == "" {
		spec.Side = Both
	}
	if !spec.Side.Valid() {
		return nil, fmt.Errorf("unknown side %q", spec.Side)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrMixerClosed
	}
	m.seed = m.seed*6364136223846793005 + 1442695040888963407
	v := newVoice(m, spec, m.seed)
	m.voices = append(m.voices, v)
	return v, nil
}

// VoiceCount returns the number of voices not yet released.
func (m *Mixer) VoiceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// FramesRendered returns the number of frames rendered since start.
func (m *Mixer) FramesRendered() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rendered
}

// Run renders frames until ctx is cancelled. On exit every remaining voice
// is released so pending Close calls resolve.
func (m *Mixer) Run(ctx context.Context) {
	defer close(m.frameCh)
	defer m.shutdown()

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame := m.renderFrame()

		select {
		case m.frameCh <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// renderFrame mixes one frame and reaps voices whose release has finished.
func (m *Mixer) renderFrame() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var acc [FrameSamples]float64
	for _, v := range m.voices {
		for i := 0; i < FrameSize; i++ {
			l, r := v.sample()
			acc[i*2] += l
			acc[i*2+1] += r
		}
	}

	live := m.voices[:0]
	for _, v := range m.voices {
		if v.released() {
			v.reap()
			continue
		}
		live = append(live, v)
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	frame := make([]int16, FrameSamples)
	for i, s := range acc {
		frame[i] = toInt16(s * m.cfg.MasterGain)
	}
	m.rendered++
	return frame
}

func (m *Mixer) shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, v := range m.voices {
		v.reap()
	}
	m.voices = nil
}
