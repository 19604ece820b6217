package catalog

// Icon identifies the glyph the UI draws for a sound.
type Icon string

const (
	IconMusic   Icon = "music"
	IconRain    Icon = "cloud-rain"
	IconWaves   Icon = "waves"
	IconWind    Icon = "wind"
	IconFlame   Icon = "flame"
	IconMic     Icon = "mic"
	IconBrain   Icon = "brain"
	IconDroplet Icon = "droplet"
)

var soundIcons = map[string]Icon{
	"rain-forest": IconRain,
	"ocean-waves": IconWaves,
	"soft-wind":   IconWind,
	"water-drops": IconDroplet,
	"fireplace":   IconFlame,
	"soft-voice":  IconMic,
}

var categoryIcons = map[Category]Icon{
	ASMR:     IconMic,
	Voice:    IconMic,
	Binaural: IconBrain,
}

// IconFor resolves the icon for a sound: per-sound override, then category, then the default.
func IconFor(s Sound) Icon {
	if ic, ok := soundIcons[s.ID]; ok {
		return ic
	}
	if ic, ok := categoryIcons[s.Category]; ok {
		return ic
	}
	return IconMusic
}
