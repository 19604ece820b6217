// Package app wires the application state together.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/config"
	"github.com/satindergrewal/asmrflow/internal/llm"
	"github.com/satindergrewal/asmrflow/internal/logger"
	"github.com/satindergrewal/asmrflow/internal/mix"
	"github.com/satindergrewal/asmrflow/internal/recommend"
	"github.com/satindergrewal/asmrflow/internal/session"
	"github.com/satindergrewal/asmrflow/internal/sleep"
	"github.com/satindergrewal/asmrflow/internal/stream"
)

// Account holds the premium flag.
type Account struct {
	premium atomic.Bool
}

func NewAccount(premium bool) *Account {
	a := &Account{}
	a.premium.Store(premium)
	return a
}

func (a *Account) Premium() bool { return a.premium.Load() }

func (a *Account) SetPremium(v bool) { a.premium.Store(v) }

// App is the explicit application state shared by the handlers.
type App struct {
	Config      config.Config
	Account     *Account
	Mixer       *audio.Mixer
	Sessions    *session.Manager
	Mix         *mix.Model
	Timer       *sleep.Timer
	Tracker     *sleep.Tracker
	Store       sleep.Store
	Recommender recommend.Generator
	Generator   *llm.Generator
	LLM         *llm.Client
	Broadcaster *stream.Broadcaster
	HTTPStream  *stream.HTTPHandler
	WebRTC      *stream.WebRTCHandler

	log *logger.Logger
}

// New builds the application from cfg. Close releases what New opened.
func New(cfg config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	a := &App{
		Config:  cfg,
		Account: NewAccount(cfg.Premium),
		log:     log,
	}

	a.Mixer = audio.NewMixer(audio.MixerConfig{
		MasterGain: cfg.MasterGain,
		FadeIn:     cfg.FadeIn,
		Release:    cfg.Release,
	})

	sessions, err := session.NewManager(session.Config{
		Synth:           session.MixerSynth(a.Mixer),
		Entitlements:    a.Account,
		Logger:          log,
		TeardownTimeout: cfg.TeardownTimeout,
		PreviewVolume:   cfg.PreviewVolume,
	})
	if err != nil {
		return nil, err
	}
	a.Sessions = sessions
	a.Mix = mix.New(sessions, log)
	a.Timer = sleep.NewTimer(a.Mix, sessions, log)

	if cfg.SleepDBPath != "" {
		store, err := sleep.NewSQLiteStore(cfg.SleepDBPath)
		if err != nil {
			return nil, err
		}
		a.Store = store
		log.Info("sleep history on disk", zap.String("path", cfg.SleepDBPath))
	} else {
		a.Store = sleep.NewMemoryStore()
	}

	a.Tracker, err = sleep.NewTracker(sleep.TrackerConfig{
		Store:  a.Store,
		Mix:    a.Mix,
		Logger: log,
	})
	if err != nil {
		a.Store.Close()
		return nil, err
	}

	a.LLM = llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	a.Generator = llm.NewGenerator(a.LLM, log)
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		a.Recommender = llm.NewRecommender(a.Generator)
	default:
		a.Recommender = recommend.Local{}
	}

	a.Broadcaster = stream.NewBroadcaster()
	a.HTTPStream = stream.NewHTTPHandler(a.Broadcaster, "asmrflow", cfg.StreamBitrate, log)
	a.WebRTC = stream.NewWebRTCHandler(a.Broadcaster, stream.WebRTCConfig{
		ICEServers: cfg.ICEServers,
		Bitrate:    cfg.OpusBitrate,
	}, log)

	return a, nil
}

// Run drives the render loop, the fan-out, the sleep timer and the optional
// local speaker until ctx is done, then stops all audio.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() { a.Mixer.Run(ctx) })
	run(func() { a.Broadcaster.Run(ctx, a.Mixer.Frames()) })
	run(func() { a.Timer.Run(ctx) })
	run(func() { a.watchTimer(ctx) })

	if a.Config.LocalPlayback {
		speaker := stream.NewSpeaker(a.Broadcaster, a.Config.SpeakerVolume, a.log)
		run(func() {
			if err := speaker.Run(ctx); err != nil {
				a.log.Warn("local playback disabled", zap.Error(err))
			}
		})
	}

	if a.Config.AIProvider == config.ProviderOpenAI {
		run(func() { a.checkLLM(ctx) })
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.TeardownTimeout+time.Second)
	a.Sessions.StopAll(stopCtx)
	cancel()
	a.WebRTC.CloseAll()
	wg.Wait()
}

func (a *App) watchTimer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.Timer.Done():
			a.log.Info("sleep timer completed, playback stopped")
		}
	}
}

func (a *App) checkLLM(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if a.LLM.Available(checkCtx) {
		a.log.Info("text generation ready", zap.String("model", a.LLM.Model()))
		return
	}
	a.log.Warn("text generation unreachable, fallbacks will be served", zap.String("model", a.LLM.Model()))
}

// Close releases the history store.
func (a *App) Close() error {
	return a.Store.Close()
}
