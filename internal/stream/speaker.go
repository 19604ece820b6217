package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

// Speaker plays the mix on the local audio device.
type Speaker struct {
	broadcaster *Broadcaster
	volume      float64
	log         *logger.Logger
}

func NewSpeaker(b *Broadcaster, volume float64, log *logger.Logger) *Speaker {
	if log == nil {
		log = logger.Nop()
	}
	return &Speaker{broadcaster: b, volume: volume, log: log.Named("speaker")}
}

// Run plays until ctx is done. It fails if no audio device is available.
func (s *Speaker) Run(ctx context.Context) error {
	otoCtx, ready, err := oto.NewContext(audio.SampleRate, audio.Channels, oto.FormatSignedInt16LE)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	listener := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(listener)

	player := otoCtx.NewPlayer(newFrameReader(listener))
	player.SetVolume(s.volume)
	player.Play()
	s.log.Info("local playback started")

	<-ctx.Done()
	s.broadcaster.Unsubscribe(listener)
	if err := player.Close(); err != nil {
		s.log.Warn("close player", zap.Error(err))
	}
	return nil
}

// frameReader adapts a Listener to an io.Reader of little-endian PCM.
type frameReader struct {
	l       *Listener
	pending []byte
}

func newFrameReader(l *Listener) *frameReader {
	return &frameReader{l: l}
}

func (r *frameReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		select {
		case <-r.l.Done():
			return 0, io.EOF
		case frame := <-r.l.C:
			r.pending = audio.SamplesToBytes(frame)
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
