package audio

import "time"

const (
	SampleRate    = 48000
	Channels      = 2
	BitDepth      = 16
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per frame (int16 = 2 bytes)
)

// Waveform selects the oscillator shape of a voice.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
	White    Waveform = "white"
	Pink     Waveform = "pink"
	Brown    Waveform = "brown"
)

// IsNoise reports whether w is a noise source rather than a pitched tone.
// For noise the voice frequency is used as a low-pass cutoff.
func (w Waveform) IsNoise() bool {
	return w == White || w == Pink || w == Brown
}

// Valid reports whether w is a known waveform.
func (w Waveform) Valid() bool {
	switch w {
	case Sine, Square, Sawtooth, Triangle, White, Pink, Brown:
		return true
	}
	return false
}

// Side routes a voice to one or both stereo channels.
type Side string

const (
	Both  Side = "both"
	Left  Side = "left"
	Right Side = "right"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == Both || s == Left || s == Right
}

// VoiceSpec describes one synthesized sound.
//
// For noise waveforms Frequency is a low-pass cutoff (0 leaves the noise
// unfiltered). A non-zero BeatOffset makes the voice binaural: a second
// oscillator at Frequency+BeatOffset plays on the opposite channel.
// Gain and Echo are in [0,1].
type VoiceSpec struct {
	Frequency  float64
	Waveform   Waveform
	BeatOffset float64
	Gain       float64
	Echo       float64
	Side       Side
}

// Binaural reports whether the spec needs a second detuned oscillator.
func (s VoiceSpec) Binaural() bool {
	return s.BeatOffset != 0
}
