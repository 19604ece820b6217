package api

import (
	"net/http"

	"github.com/satindergrewal/asmrflow/internal/sleep"
)

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Timer.Status())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.Timer.Start(r.Context(), req.Minutes); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Timer.Status())
}

func (s *Server) handleTimerCancel(w http.ResponseWriter, r *http.Request) {
	s.app.Timer.Cancel(r.Context())
	writeJSON(w, http.StatusOK, s.app.Timer.Status())
}

func (s *Server) handleSleepStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.app.Tracker.StartTracking(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSleepEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quality int    `json:"quality"`
		Notes   string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, ended, err := s.app.Tracker.EndTracking(r.Context(), req.Quality, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := struct {
		Ended   bool           `json:"ended"`
		Session *sleep.Session `json:"session,omitempty"`
	}{Ended: ended}
	if ended {
		resp.Session = &sess
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSleepCancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": s.app.Tracker.CancelTracking()})
}

func (s *Server) handleSleepStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.app.Tracker.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSleepSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.app.Tracker.History(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []sleep.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
