package catalog

import "github.com/satindergrewal/asmrflow/internal/audio"

// Category groups sounds in the library.
type Category string

const (
	Nature   Category = "nature"
	Ambient  Category = "ambient"
	ASMR     Category = "asmr"
	Voice    Category = "voice"
	Binaural Category = "binaural"
)

// Categories lists the library categories in display order.
var Categories = []Category{Nature, Ambient, ASMR, Voice, Binaural}

// Sound is an immutable sound definition.
type Sound struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	Frequency   float64        `json:"frequency"`
	Waveform    audio.Waveform `json:"waveform"`
	BeatOffset  float64        `json:"beatOffset,omitempty"`
	Premium     bool           `json:"isPremium"`
}

// Binaural reports whether the sound is synthesized as two detuned tones.
func (s Sound) Binaural() bool {
	return s.BeatOffset != 0
}

// Voice builds the synthesis spec for the sound at the given mix settings.
// volume and echo are percentages in [0,100].
func (s Sound) Voice(volume, echo int, side audio.Side) audio.VoiceSpec {
	return audio.VoiceSpec{
		Frequency:  s.Frequency,
		Waveform:   s.Waveform,
		BeatOffset: s.BeatOffset,
		Gain:       float64(volume) / 100,
		Echo:       float64(echo) / 100,
		Side:       side,
	}
}

// sounds is the fixed sound table, in library order.
var sounds = []Sound{
	{
		ID:          "rain-forest",
		Name:        "Chuva na Floresta",
		Description: "Som relaxante de chuva caindo em uma floresta densa",
		Category:    Nature,
		Frequency:   1200,
		Waveform:    audio.Pink,
	},
	{
		ID:          "ocean-waves",
		Name:        "Ondas do Oceano",
		Description: "Ondas suaves batendo na praia ao entardecer",
		Category:    Nature,
		Frequency:   500,
		Waveform:    audio.Brown,
	},
	{
		ID:          "soft-wind",
		Name:        "Vento Suave",
		Description: "Brisa leve atravessando as árvores",
		Category:    Nature,
		Frequency:   350,
		Waveform:    audio.Pink,
	},
	{
		ID:          "water-drops",
		Name:        "Gotas d'Água",
		Description: "Gotas caindo lentamente em um lago calmo",
		Category:    Nature,
		Frequency:   2400,
		Waveform:    audio.White,
		Premium:     true,
	},
	{
		ID:          "white-noise",
		Name:        "Ruído Branco",
		Description: "Som constante e uniforme para mascarar outros ruídos",
		Category:    Ambient,
		Waveform:    audio.White,
	},
	{
		ID:          "deep-hum",
		Name:        "Zumbido Profundo",
		Description: "Tom grave e contínuo que acalma a mente",
		Category:    Ambient,
		Frequency:   65,
		Waveform:    audio.Sine,
	},
	{
		ID:          "fireplace",
		Name:        "Lareira Crepitante",
		Description: "Som aconchegante de madeira queimando na lareira",
		Category:    Ambient,
		Frequency:   2500,
		Waveform:    audio.Brown,
		Premium:     true,
	},
	{
		ID:          "whisper-asmr",
		Name:        "Sussurros ASMR",
		Description: "Sussurros suaves e relaxantes para induzir o sono",
		Category:    ASMR,
		Frequency:   3200,
		Waveform:    audio.White,
		Premium:     true,
	},
	{
		ID:          "soft-voice",
		Name:        "Voz Suave",
		Description: "Murmúrio vocal grave e constante",
		Category:    Voice,
		Frequency:   140,
		Waveform:    audio.Triangle,
		Premium:     true,
	},
	{
		ID:          "binaural-delta",
		Name:        "Delta Waves",
		Description: "Batimento de 2 Hz para sono profundo",
		Category:    Binaural,
		Frequency:   100,
		Waveform:    audio.Sine,
		BeatOffset:  2,
		Premium:     true,
	},
	{
		ID:          "binaural-theta",
		Name:        "Ondas Theta",
		Description: "Frequências binaurais para relaxamento profundo",
		Category:    Binaural,
		Frequency:   200,
		Waveform:    audio.Sine,
		BeatOffset:  6,
		Premium:     true,
	},
	{
		ID:          "binaural-alpha",
		Name:        "Alpha Waves",
		Description: "Batimento de 10 Hz para relaxamento consciente",
		Category:    Binaural,
		Frequency:   250,
		Waveform:    audio.Sine,
		BeatOffset:  10,
	},
}

var byID = func() map[string]Sound {
	m := make(map[string]Sound, len(sounds))
	for _, s := range sounds {
		m[s.ID] = s
	}
	return m
}()

// Sounds returns all sounds in library order.
func Sounds() []Sound {
	out := make([]Sound, len(sounds))
	copy(out, sounds)
	return out
}

// ByCategory returns the sounds of one category in library order.
func ByCategory(c Category) []Sound {
	var out []Sound
	for _, s := range sounds {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the sound with the given id.
func Lookup(id string) (Sound, bool) {
	s, ok := byID[id]
	return s, ok
}

// IsValidCategory checks if c is a known category.
func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
