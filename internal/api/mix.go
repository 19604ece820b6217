package api

import (
	"net/http"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/audio"
	"github.com/satindergrewal/asmrflow/internal/mix"
)

func (s *Server) handleMix(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handleMixAdd(w http.ResponseWriter, r *http.Request) {
	snd, err := s.lookupSound(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added := s.app.Mix.Add(snd)
	writeJSON(w, http.StatusOK, map[string]any{"added": added, "mix": s.mixView()})
}

type indexRequest struct {
	Index *int `json:"index"`
}

func (req indexRequest) index() (int, error) {
	if req.Index == nil {
		return 0, apperr.NewValidation("index", "index é obrigatório")
	}
	return *req.Index, nil
}

func (s *Server) handleMixRemove(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	i, err := req.index()
	if err == nil {
		err = s.app.Mix.Remove(r.Context(), i)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handleMixUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		indexRequest
		Volume *int        `json:"volume"`
		Echo   *int        `json:"echo"`
		Side   *audio.Side `json:"side"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	i, err := req.index()
	if err == nil {
		err = s.app.Mix.Update(r.Context(), i, mix.Patch{Volume: req.Volume, Echo: req.Echo, Side: req.Side})
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handleMixPlay(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Mix.Play(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handleMixPause(w http.ResponseWriter, r *http.Request) {
	s.app.Mix.Pause(r.Context())
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handleMixSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.app.Mix.Save(req.Name))
}

func (s *Server) handleMixLoad(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PresetID string `json:"presetId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.Mix.Load(r.Context(), req.PresetID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.mixView())
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": s.app.Mix.Presets()})
}
