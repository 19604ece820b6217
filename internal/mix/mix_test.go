package mix_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/mix"
	"github.com/satindergrewal/asmrflow/internal/mocks"
	"github.com/satindergrewal/asmrflow/internal/session"
)

var freeSounds = []string{"rain-forest", "ocean-waves", "soft-wind", "white-noise", "deep-hum", "binaural-alpha"}

func setup(t *testing.T, premium bool) (*mix.Model, *session.Manager, *mocks.FakeSynth) {
	t.Helper()
	synth := &mocks.FakeSynth{}
	mgr, err := session.NewManager(session.Config{
		Synth:           synth,
		Entitlements:    &mocks.Entitlements{Unlocked: premium},
		TeardownTimeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mix.New(mgr, nil), mgr, synth
}

func sound(t *testing.T, id string) catalog.Sound {
	t.Helper()
	s, ok := catalog.Lookup(id)
	if !ok {
		t.Fatalf("unknown sound %q", id)
	}
	return s
}

func intp(v int) *int { return &v }

func TestAddDefaults(t *testing.T) {
	m, _, _ := setup(t, false)
	if !m.Add(sound(t, "rain-forest")) {
		t.Fatal("Add returned false")
	}
	e := m.Entries()[0]
	if e.Volume != 70 || e.Echo != 0 || e.Side != audio.Both || e.Playing {
		t.Errorf("entry = %+v, want volume 70, echo 0, side both, not playing", e)
	}
}

func TestAddSixthSoundIgnored(t *testing.T) {
	m, _, _ := setup(t, false)
	for _, id := range freeSounds[:5] {
		if !m.Add(sound(t, id)) {
			t.Fatalf("Add(%s) returned false", id)
		}
	}
	if m.Add(sound(t, freeSounds[5])) {
		t.Error("sixth Add should be ignored")
	}
	if m.Len() != 5 {
		t.Errorf("Len = %d, want 5", m.Len())
	}
}

func TestAddDuplicateIgnored(t *testing.T) {
	m, _, _ := setup(t, false)
	m.Add(sound(t, "ocean-waves"))
	if m.Add(sound(t, "ocean-waves")) {
		t.Error("duplicate Add should be ignored")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestAddPremiumGated(t *testing.T) {
	m, _, _ := setup(t, false)
	if m.Add(sound(t, "binaural-delta")) {
		t.Error("premium sound added without premium")
	}

	m, _, _ = setup(t, true)
	if !m.Add(sound(t, "binaural-delta")) {
		t.Error("premium sound refused with premium")
	}
}

func TestPlayPauseRemove(t *testing.T) {
	ctx := context.Background()
	m, mgr, synth := setup(t, false)
	m.Add(sound(t, "rain-forest"))
	m.Add(sound(t, "soft-wind"))

	if err := m.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !m.Playing() || mgr.LiveCount() != 2 {
		t.Fatalf("Playing = %v, live = %d", m.Playing(), mgr.LiveCount())
	}
	for _, e := range m.Entries() {
		if !e.Playing {
			t.Errorf("%s not playing", e.Sound.ID)
		}
	}

	if err := m.Remove(ctx, 0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if mgr.Live(session.MixKey("rain-forest")) {
		t.Error("removed entry still live")
	}
	if synth.Open() != 1 {
		t.Errorf("open voices = %d, want 1", synth.Open())
	}

	m.Pause(ctx)
	if m.Playing() || synth.Open() != 0 {
		t.Errorf("after Pause: playing = %v, open = %d", m.Playing(), synth.Open())
	}
	if m.Len() != 1 {
		t.Errorf("Pause should keep entries, Len = %d", m.Len())
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	m, _, _ := setup(t, false)
	err := m.Remove(context.Background(), 3)
	if _, ok := apperr.As[*apperr.ValidationError](err); !ok {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestUpdateVolumeRetunesLiveVoice(t *testing.T) {
	ctx := context.Background()
	m, _, synth := setup(t, false)
	m.Add(sound(t, "deep-hum"))
	if err := m.Play(ctx); err != nil {
		t.Fatal(err)
	}

	if err := m.Update(ctx, 0, mix.Patch{Volume: intp(40)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	voices := synth.Voices()
	if len(voices) != 1 {
		t.Fatalf("volume change allocated a new voice: %d voices", len(voices))
	}
	if g := voices[0].Gain(); g != 0.4 {
		t.Errorf("gain = %v, want 0.4", g)
	}
	if got := m.Entries()[0].Volume; got != 40 {
		t.Errorf("Volume = %d, want 40", got)
	}
}

func TestUpdateSideRestartsLiveVoice(t *testing.T) {
	ctx := context.Background()
	m, _, synth := setup(t, false)
	m.Add(sound(t, "deep-hum"))
	if err := m.Play(ctx); err != nil {
		t.Fatal(err)
	}

	left := audio.Left
	if err := m.Update(ctx, 0, mix.Patch{Side: &left, Echo: intp(30)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	voices := synth.Voices()
	if len(voices) != 2 {
		t.Fatalf("voices = %d, want 2 after restart", len(voices))
	}
	if !voices[0].Closed() {
		t.Error("old voice not closed")
	}
	spec := voices[1].Spec()
	if spec.Side != audio.Left || spec.Echo != 0.3 {
		t.Errorf("new spec = %+v", spec)
	}
}

func TestUpdateStoppedEntryDoesNotStart(t *testing.T) {
	m, _, synth := setup(t, false)
	m.Add(sound(t, "deep-hum"))
	right := audio.Right
	if err := m.Update(context.Background(), 0, mix.Patch{Side: &right}); err != nil {
		t.Fatal(err)
	}
	if len(synth.Voices()) != 0 {
		t.Error("update of a stopped entry allocated a voice")
	}
}

func TestUpdateValidation(t *testing.T) {
	m, _, _ := setup(t, false)
	m.Add(sound(t, "deep-hum"))
	bad := audio.Side("up")

	for name, p := range map[string]mix.Patch{
		"volume": {Volume: intp(101)},
		"echo":   {Echo: intp(-1)},
		"side":   {Side: &bad},
	} {
		err := m.Update(context.Background(), 0, p)
		ve, ok := apperr.As[*apperr.ValidationError](err)
		if !ok {
			t.Errorf("%s: err = %v, want ValidationError", name, err)
			continue
		}
		if ve.Field != name {
			t.Errorf("%s: field = %q", name, ve.Field)
		}
	}
}

func TestPlayCombinesStartErrors(t *testing.T) {
	m, _, synth := setup(t, false)
	m.Add(sound(t, "rain-forest"))
	m.Add(sound(t, "ocean-waves"))
	boom := errors.New("no device")
	synth.NewVoiceFunc = func(audio.VoiceSpec) error { return boom }

	err := m.Play(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, mgr, _ := setup(t, false)
	m.Add(sound(t, "rain-forest"))
	m.Add(sound(t, "white-noise"))
	if err := m.Update(ctx, 1, mix.Patch{Volume: intp(25), Echo: intp(50)}); err != nil {
		t.Fatal(err)
	}
	if err := m.Play(ctx); err != nil {
		t.Fatal(err)
	}

	p := m.Save("")
	if p.Name != "Mix 1" {
		t.Errorf("Name = %q, want Mix 1", p.Name)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Errorf("preset missing id or timestamp: %+v", p)
	}
	for _, e := range p.Entries {
		if e.Playing {
			t.Errorf("preset entry %s stored as playing", e.Sound.ID)
		}
	}
	if named := m.Save("Noite"); named.Name != "Noite" {
		t.Errorf("Name = %q", named.Name)
	}

	m.Remove(ctx, 0)
	m.Add(sound(t, "deep-hum"))

	if err := m.Load(ctx, p.ID); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mgr.LiveCount() != 0 {
		t.Errorf("live voices after Load = %d, want 0", mgr.LiveCount())
	}
	got := m.Entries()
	if len(got) != 2 || got[0].Sound.ID != "rain-forest" || got[1].Sound.ID != "white-noise" {
		t.Fatalf("entries = %+v", got)
	}
	if got[1].Volume != 25 || got[1].Echo != 50 || got[1].Playing {
		t.Errorf("loaded entry = %+v", got[1])
	}
	if n := len(m.Presets()); n != 2 {
		t.Errorf("presets = %d, want 2", n)
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	m, _, _ := setup(t, false)
	err := m.Load(context.Background(), "missing")
	if _, ok := apperr.As[*apperr.NotFoundError](err); !ok {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestStopAllClearsPlayingFlags(t *testing.T) {
	ctx := context.Background()
	m, mgr, _ := setup(t, false)
	m.Add(sound(t, "rain-forest"))
	m.Play(ctx)

	mgr.StopAll(ctx)
	if m.Playing() {
		t.Error("mix still playing after StopAll")
	}
	if names := m.SoundNames(); len(names) != 1 || names[0] != "Chuva na Floresta" {
		t.Errorf("SoundNames = %v", names)
	}
}
