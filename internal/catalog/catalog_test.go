package catalog

import (
	"testing"

	"github.com/satindergrewal/asmrflow/internal/audio"
)

// --- Sound table integrity ---

func TestSoundIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Sounds() {
		if seen[s.ID] {
			t.Errorf("Duplicate sound id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestSoundsHaveValidSynthesis(t *testing.T) {
	for _, s := range Sounds() {
		if !s.Waveform.Valid() {
			t.Errorf("Sound %q has unknown waveform %q", s.ID, s.Waveform)
		}
		if !s.Waveform.IsNoise() && s.Frequency <= 0 {
			t.Errorf("Sound %q is a tone with frequency %v", s.ID, s.Frequency)
		}
		if !IsValidCategory(s.Category) {
			t.Errorf("Sound %q has unknown category %q", s.ID, s.Category)
		}
		if s.Name == "" || s.Description == "" {
			t.Errorf("Sound %q missing name or description", s.ID)
		}
	}
}

func TestBinauralCategoryMatchesBeatOffset(t *testing.T) {
	for _, s := range Sounds() {
		if (s.Category == Binaural) != s.Binaural() {
			t.Errorf("Sound %q: category %q but Binaural() = %v", s.ID, s.Category, s.Binaural())
		}
	}
}

func TestEveryCategoryHasSounds(t *testing.T) {
	for _, c := range Categories {
		if len(ByCategory(c)) == 0 {
			t.Errorf("Category %q has no sounds", c)
		}
	}
}

func TestFreeAndPremiumSoundsExist(t *testing.T) {
	var free, premium int
	for _, s := range Sounds() {
		if s.Premium {
			premium++
		} else {
			free++
		}
	}
	if free < 5 {
		t.Errorf("need at least 5 free sounds to fill a mix, got %d", free)
	}
	if premium == 0 {
		t.Error("expected at least one premium sound")
	}
}

// --- Lookup ---

func TestLookup(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"rain-forest", true},
		{"binaural-theta", true},
		{"thunder", false},
		{"", false},
		{"Rain-Forest", false}, // case sensitive
	}
	for _, tt := range tests {
		if _, got := Lookup(tt.id); got != tt.want {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestSoundsReturnsCopy(t *testing.T) {
	list := Sounds()
	list[0].Name = "mutated"
	if s, _ := Lookup(list[0].ID); s.Name == "mutated" {
		t.Error("Sounds() must not expose the backing table")
	}
}

// --- Voice spec ---

func TestVoiceSpec(t *testing.T) {
	s, _ := Lookup("binaural-theta")
	spec := s.Voice(70, 20, audio.Left)
	if spec.Gain != 0.7 {
		t.Errorf("Gain = %v, want 0.7", spec.Gain)
	}
	if spec.Echo != 0.2 {
		t.Errorf("Echo = %v, want 0.2", spec.Echo)
	}
	if spec.Side != audio.Left {
		t.Errorf("Side = %q, want left", spec.Side)
	}
	if !spec.Binaural() || spec.BeatOffset != 6 {
		t.Errorf("BeatOffset = %v, want 6", spec.BeatOffset)
	}
}

// --- Stories ---

func TestStories(t *testing.T) {
	if len(Stories()) == 0 {
		t.Fatal("no stories")
	}
	st, ok := LookupStory("space-journey")
	if !ok {
		t.Fatal("space-journey not found")
	}
	if !st.Premium {
		t.Error("space-journey should be premium")
	}
	if _, ok := LookupStory("missing"); ok {
		t.Error("LookupStory(missing) should fail")
	}
}

// --- Icons ---

func TestIconFor(t *testing.T) {
	rain, _ := Lookup("rain-forest")
	theta, _ := Lookup("binaural-theta")
	noise, _ := Lookup("white-noise")

	if got := IconFor(rain); got != IconRain {
		t.Errorf("IconFor(rain) = %q, want %q", got, IconRain)
	}
	if got := IconFor(theta); got != IconBrain {
		t.Errorf("IconFor(theta) = %q, want %q", got, IconBrain)
	}
	if got := IconFor(noise); got != IconMusic {
		t.Errorf("IconFor(white-noise) = %q, want default %q", got, IconMusic)
	}
}
