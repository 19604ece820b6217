package audio

import (
	"context"
	"fmt"
	"time"
)

const (
	baseAmplitude = 0.3
	echoDelay     = 250 * time.Millisecond
	echoFeedback  = 0.6
	gainSmoothing = 10 * time.Millisecond
)

// Voice is a live synthesis resource owned by a Mixer. All state is guarded
// by the mixer's mutex; the render loop is the only reader.
type Voice struct {
	mixer *Mixer
	spec  VoiceSpec

	oscs  []*Oscillator
	fades []ramp // one independent fade-in per oscillator
	gain  ramp

	release *ramp // nil until Stop
	echo    [2]*delayLine

	done   chan struct{}
	reaped bool
}

func newVoice(m *Mixer, spec VoiceSpec, seed uint64) *Voice {
	fadeLen := durationSamples(m.cfg.FadeIn)
	v := &Voice{
		mixer: m,
		spec:  spec,
		gain:  newRamp(clamp01(spec.Gain), clamp01(spec.Gain), 0),
		done:  make(chan struct{}),
	}
	v.oscs = append(v.oscs, NewOscillator(spec.Waveform, spec.Frequency, seed))
	v.fades = append(v.fades, newRamp(0, 1, fadeLen))
	if spec.Binaural() {
		v.oscs = append(v.oscs, NewOscillator(spec.Waveform, spec.Frequency+spec.BeatOffset, seed*31+7))
		v.fades = append(v.fades, newRamp(0, 1, fadeLen))
	}
	if spec.Echo > 0 {
		n := durationSamples(echoDelay)
		v.echo[0] = newDelayLine(n, clamp01(spec.Echo)*echoFeedback)
		v.echo[1] = newDelayLine(n, clamp01(spec.Echo)*echoFeedback)
	}
	return v
}

// Spec returns the spec the voice was created with.
func (v *Voice) Spec() VoiceSpec {
	return v.spec
}

// SetGain retunes the voice without restarting it.
func (v *Voice) SetGain(g float64) {
	v.mixer.mu.Lock()
	defer v.mixer.mu.Unlock()
	v.gain = newRamp(v.gain.level(), clamp01(g), durationSamples(gainSmoothing))
	v.spec.Gain = clamp01(g)
}

// Stop halts waveform generation with a short release ramp. The mixer
// releases the voice once the ramp completes. Stopping a voice twice is a no-op.
func (v *Voice) Stop() {
	v.mixer.mu.Lock()
	defer v.mixer.mu.Unlock()
	v.stopLocked()
}

func (v *Voice) stopLocked() {
	if v.release != nil || v.reaped {
		return
	}
	r := newRamp(1, 0, durationSamples(v.mixer.cfg.Release))
	v.release = &r
}

// Close stops the voice and waits until the mixer has released it.
func (v *Voice) Close(ctx context.Context) error {
	v.Stop()
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("close voice: %w", ctx.Err())
	}
}

// Done is closed once the mixer has released the voice.
func (v *Voice) Done() <-chan struct{} {
	return v.done
}

// sample renders one stereo sample. Must be called with the mixer mutex held.
func (v *Voice) sample() (l, r float64) {
	g := v.gain.next() * baseAmplitude
	if v.release != nil {
		g *= v.release.next()
	}

	primary := v.oscs[0].Next() * v.fades[0].next() * g
	if v.spec.Binaural() {
		secondary := v.oscs[1].Next() * v.fades[1].next() * g
		if v.spec.Side == Right {
			l, r = secondary, primary
		} else {
			l, r = primary, secondary
		}
	} else {
		switch v.spec.Side {
		case Left:
			l = primary
		case Right:
			r = primary
		default:
			l, r = primary, primary
		}
	}

	if v.echo[0] != nil {
		l = v.echo[0].process(l)
		r = v.echo[1].process(r)
	}
	return l, r
}

// released reports whether the release ramp has run out.
func (v *Voice) released() bool {
	return v.release != nil && v.release.finished()
}

// reap marks the voice as released. Must be called with the mixer mutex held.
func (v *Voice) reap() {
	if v.reaped {
		return
	}
	v.reaped = true
	close(v.done)
}

// delayLine is a feedback echo.
type delayLine struct {
	buf      []float64
	pos      int
	feedback float64
}

func newDelayLine(n int, feedback float64) *delayLine {
	if n < 1 {
		n = 1
	}
	return &delayLine{buf: make([]float64, n), feedback: feedback}
}

func (d *delayLine) process(x float64) float64 {
	y := x + d.feedback*d.buf[d.pos]
	d.buf[d.pos] = y
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
	return y
}

func durationSamples(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
