package catalog

// VoiceType is the narrator voice of a story.
type VoiceType string

const (
	Female VoiceType = "female"
	Male   VoiceType = "male"
)

// Story is a narrated bedtime story.
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  string    `json:"duration"`
	Category  string    `json:"category"`
	VoiceType VoiceType `json:"voiceType"`
	Premium   bool      `json:"isPremium"`
}

var stories = []Story{
	{ID: "enchanted-forest", Title: "A Floresta Encantada", Duration: "15 min", Category: "Fantasia", VoiceType: Female},
	{ID: "space-journey", Title: "Jornada Espacial", Duration: "20 min", Category: "Ficção Científica", VoiceType: Male, Premium: true},
	{ID: "peaceful-meadow", Title: "O Prado Tranquilo", Duration: "12 min", Category: "Natureza", VoiceType: Female},
}

// Stories returns all stories.
func Stories() []Story {
	out := make([]Story, len(stories))
	copy(out, stories)
	return out
}

// LookupStory returns the story with the given id.
func LookupStory(id string) (Story, bool) {
	for _, s := range stories {
		if s.ID == id {
			return s, true
		}
	}
	return Story{}, false
}
