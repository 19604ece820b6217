package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/session"
)

// FakeSynth is a test double for session.Synth.
type FakeSynth struct {
	NewVoiceFunc func(spec audio.VoiceSpec) error
	CloseDelay   time.Duration
	CloseErr     error

	mu     sync.Mutex
	voices []*FakeVoice
}

func (s *FakeSynth) NewVoice(spec audio.VoiceSpec) (session.Voice, error) {
	if s.NewVoiceFunc != nil {
		if err := s.NewVoiceFunc(spec); err != nil {
			return nil, err
		}
	}
	v := &FakeVoice{spec: spec, gain: spec.Gain, synth: s}
	s.mu.Lock()
	s.voices = append(s.voices, v)
	s.mu.Unlock()
	return v, nil
}

// Voices returns every voice allocated so far.
func (s *FakeSynth) Voices() []*FakeVoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*FakeVoice, len(s.voices))
	copy(out, s.voices)
	return out
}

// Open returns the number of voices not yet closed.
func (s *FakeSynth) Open() int {
	n := 0
	for _, v := range s.Voices() {
		if !v.Closed() {
			n++
		}
	}
	return n
}

// FakeVoice is a test double for session.Voice.
type FakeVoice struct {
	synth *FakeSynth

	mu     sync.Mutex
	spec   audio.VoiceSpec
	gain   float64
	closed bool
	closes int
}

func (v *FakeVoice) SetGain(g float64) {
	v.mu.Lock()
	v.gain = g
	v.mu.Unlock()
}

func (v *FakeVoice) Close(ctx context.Context) error {
	if d := v.synth.CloseDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closes++
	if v.synth.CloseErr != nil {
		return v.synth.CloseErr
	}
	v.closed = true
	return nil
}

func (v *FakeVoice) Spec() audio.VoiceSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.spec
}

func (v *FakeVoice) Gain() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gain
}

func (v *FakeVoice) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Entitlements is a test double for session.Entitlements.
type Entitlements struct {
	Unlocked bool
}

func (e *Entitlements) Premium() bool { return e.Unlocked }
