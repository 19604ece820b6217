package api

import (
	"net/http"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/mix"
	"github.com/satindergrewal/asmrflow/internal/session"
	"github.com/satindergrewal/asmrflow/internal/sleep"
)

type soundView struct {
	catalog.Sound
	Icon catalog.Icon `json:"icon"`
}

type statusView struct {
	Premium   bool              `json:"isPremium"`
	Playback  session.Status    `json:"playback"`
	Mix       mixView           `json:"mix"`
	Timer     sleep.TimerStatus `json:"timer"`
	Tracking  *sleep.Session    `json:"tracking,omitempty"`
	Listeners listenersView     `json:"listeners"`
	Render    renderView        `json:"render"`
}

type listenersView struct {
	HTTP   int `json:"http"`
	WebRTC int `json:"webrtc"`
}

// renderView counts 20ms frames through the mixer and the fan-out.
type renderView struct {
	Rendered  uint64 `json:"framesRendered"`
	Broadcast uint64 `json:"framesBroadcast"`
	Dropped   uint64 `json:"framesDropped"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := statusView{
		Premium:  s.app.Account.Premium(),
		Playback: s.app.Sessions.Status(),
		Mix:      s.mixView(),
		Timer:    s.app.Timer.Status(),
		Listeners: listenersView{
			HTTP:   s.app.Broadcaster.ListenerCount(),
			WebRTC: s.app.WebRTC.PeerCount(),
		},
		Render: renderView{
			Rendered:  s.app.Mixer.FramesRendered(),
			Broadcast: s.app.Broadcaster.Frames(),
			Dropped:   s.app.Broadcaster.Dropped(),
		},
	}
	if pending, ok := s.app.Tracker.Pending(); ok {
		st.Tracking = &pending
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSounds(w http.ResponseWriter, r *http.Request) {
	sounds := catalog.Sounds()
	if c := r.URL.Query().Get("category"); c != "" {
		if !catalog.IsValidCategory(catalog.Category(c)) {
			writeError(w, r, apperr.NewValidation("category", "categoria desconhecida"))
			return
		}
		sounds = catalog.ByCategory(catalog.Category(c))
	}
	out := make([]soundView, len(sounds))
	for i, snd := range sounds {
		out[i] = soundView{Sound: snd, Icon: catalog.IconFor(snd)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sounds": out})
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stories": catalog.Stories()})
}

func (s *Server) handlePremium(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Premium bool `json:"premium"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.app.Account.SetPremium(req.Premium)
	writeJSON(w, http.StatusOK, map[string]bool{"isPremium": req.Premium})
}

type soundRequest struct {
	SoundID string `json:"soundId"`
}

func (s *Server) lookupSound(r *http.Request) (catalog.Sound, error) {
	var req soundRequest
	if err := decode(r, &req); err != nil {
		return catalog.Sound{}, err
	}
	if req.SoundID == "" {
		return catalog.Sound{}, apperr.NewValidation("soundId", "soundId é obrigatório")
	}
	snd, ok := catalog.Lookup(req.SoundID)
	if !ok {
		return catalog.Sound{}, apperr.NewNotFound("sound", req.SoundID)
	}
	return snd, nil
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	snd, err := s.lookupSound(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	playing, err := s.app.Sessions.Play(r.Context(), snd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playing":     playing,
		"activeSound": s.app.Sessions.ActiveSound(),
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	snd, err := s.lookupSound(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.app.Sessions.Stop(r.Context(), snd.ID)
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	s.app.Sessions.StopAll(r.Context())
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handlePlayStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoryID string `json:"storyId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, ok := catalog.LookupStory(req.StoryID)
	if !ok {
		writeError(w, r, apperr.NewNotFound("story", req.StoryID))
		return
	}
	if err := s.app.Sessions.PlayStory(st); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"story": st})
}

func (s *Server) handleStopStory(w http.ResponseWriter, r *http.Request) {
	s.app.Sessions.StopStory()
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

type mixView struct {
	Entries []mix.Entry `json:"sounds"`
	Playing bool        `json:"isPlaying"`
}

func (s *Server) mixView() mixView {
	return mixView{Entries: s.app.Mix.Entries(), Playing: s.app.Mix.Playing()}
}
