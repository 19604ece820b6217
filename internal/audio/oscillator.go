package audio

import "math"

// Oscillator generates one mono sample stream at SampleRate.
type Oscillator struct {
	wave  Waveform
	freq  float64
	phase float64 // [0,1)

	seed uint64

	// pink noise filter state (Paul Kellet, economy version)
	b0, b1, b2 float64
	brown      float64

	// one-pole low-pass for noise sources
	alpha float64
	lp    float64
}

// NewOscillator creates an oscillator. seed only matters for noise waveforms.
func NewOscillator(wave Waveform, freq float64, seed uint64) *Oscillator {
	o := &Oscillator{wave: wave, freq: freq, seed: seed | 1}
	if wave.IsNoise() && freq > 0 {
		o.alpha = 1 - math.Exp(-2*math.Pi*freq/SampleRate)
	}
	return o
}

// Next returns the next sample in [-1,1].
func (o *Oscillator) Next() float64 {
	var s float64
	switch o.wave {
	case Square:
		if o.phase < 0.5 {
			s = 1
		} else {
			s = -1
		}
	case Sawtooth:
		s = 2*o.phase - 1
	case Triangle:
		s = 1 - 4*math.Abs(o.phase-0.5)
	case White:
		s = o.noise()
	case Pink:
		w := o.noise()
		o.b0 = 0.99765*o.b0 + w*0.0990460
		o.b1 = 0.96300*o.b1 + w*0.2965164
		o.b2 = 0.57000*o.b2 + w*1.0526913
		s = (o.b0 + o.b1 + o.b2 + w*0.1848) * 0.25
	case Brown:
		o.brown += o.noise() * 0.02
		if o.brown > 1 {
			o.brown = 1
		} else if o.brown < -1 {
			o.brown = -1
		}
		s = o.brown
	default:
		s = math.Sin(2 * math.Pi * o.phase)
	}

	if o.wave.IsNoise() {
		if o.alpha > 0 {
			o.lp += o.alpha * (s - o.lp)
			return o.lp
		}
		return s
	}

	o.phase += o.freq / SampleRate
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return s
}

// noise advances an LCG and returns a sample in [-1,1].
func (o *Oscillator) noise() float64 {
	o.seed = o.seed*6364136223846793005 + 1442695040888963407
	return float64(int64(o.seed>>33)-int64(1<<30)) / float64(1<<30)
}
