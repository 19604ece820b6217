// Package api exposes the application over HTTP.
package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/app"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

// Server routes HTTP requests to the application.
type Server struct {
	app *app.App
	log *logger.Logger
	mux *http.ServeMux
}

func NewServer(a *app.App, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		app: a,
		log: log.Named("api"),
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// text generation
	s.mux.HandleFunc("POST /recommendations", s.handleRecommendations)
	s.mux.HandleFunc("POST /themes", s.handleThemes)
	s.mux.HandleFunc("POST /ai", s.handleAI)

	// catalog and playback
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/sounds", s.handleSounds)
	s.mux.HandleFunc("GET /api/stories", s.handleStories)
	s.mux.HandleFunc("POST /api/premium", s.handlePremium)
	s.mux.HandleFunc("POST /api/play", s.handlePlay)
	s.mux.HandleFunc("POST /api/stop", s.handleStop)
	s.mux.HandleFunc("POST /api/stop-all", s.handleStopAll)
	s.mux.HandleFunc("POST /api/story", s.handlePlayStory)
	s.mux.HandleFunc("DELETE /api/story", s.handleStopStory)

	// mix
	s.mux.HandleFunc("GET /api/mix", s.handleMix)
	s.mux.HandleFunc("POST /api/mix/add", s.handleMixAdd)
	s.mux.HandleFunc("POST /api/mix/remove", s.handleMixRemove)
	s.mux.HandleFunc("POST /api/mix/update", s.handleMixUpdate)
	s.mux.HandleFunc("POST /api/mix/play", s.handleMixPlay)
	s.mux.HandleFunc("POST /api/mix/pause", s.handleMixPause)
	s.mux.HandleFunc("POST /api/mix/save", s.handleMixSave)
	s.mux.HandleFunc("POST /api/mix/load", s.handleMixLoad)
	s.mux.HandleFunc("GET /api/presets", s.handlePresets)

	// timer and sleep tracking
	s.mux.HandleFunc("GET /api/timer", s.handleTimer)
	s.mux.HandleFunc("POST /api/timer/start", s.handleTimerStart)
	s.mux.HandleFunc("POST /api/timer/cancel", s.handleTimerCancel)
	s.mux.HandleFunc("POST /api/sleep/start", s.handleSleepStart)
	s.mux.HandleFunc("POST /api/sleep/end", s.handleSleepEnd)
	s.mux.HandleFunc("POST /api/sleep/cancel", s.handleSleepCancel)
	s.mux.HandleFunc("GET /api/sleep/stats", s.handleSleepStats)
	s.mux.HandleFunc("GET /api/sleep/sessions", s.handleSleepSessions)

	// audio delivery
	s.mux.Handle("GET /stream", s.app.HTTPStream)
	s.mux.Handle("POST /offer", s.app.WebRTC)
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	return s.withLogging(withCORS(s.app.Config.CORSOrigin, s.mux))
}

func withCORS(origin string, h http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// statusRecorder keeps the response status for logging. It forwards Flush
// so the audio stream keeps working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), s.log)))
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
