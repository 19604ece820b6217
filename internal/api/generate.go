package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/llm"
	"github.com/satindergrewal/asmrflow/internal/logger"
	"github.com/satindergrewal/asmrflow/internal/recommend"
)

const (
	msgInvalidParams = "Parâmetros inválidos"
	msgMoodRequired  = "Parâmetro mood é obrigatório"
	msgUnknownAction = "Ação não reconhecida"
)

// recommendationsRequest keeps fields untyped so non-numeric values can be
// rejected with the dedicated message.
type recommendationsRequest struct {
	FavoriteSound  any `json:"favoriteSound"`
	AverageQuality any `json:"averageQuality"`
	TotalSessions  any `json:"totalSessions"`
	BestDay        any `json:"bestDay"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidParams})
		return
	}
	quality, okQ := req.AverageQuality.(float64)
	sessions, okS := req.TotalSessions.(float64)
	if !okQ || !okS {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidParams})
		return
	}

	in := recommend.Input{
		FavoriteSound:  stringOr(req.FavoriteSound, recommend.None),
		AverageQuality: quality,
		TotalSessions:  sessions,
		BestDay:        stringOr(req.BestDay, recommend.None),
	}
	recs, err := s.app.Recommender.Recommendations(r.Context(), in)
	if err != nil {
		s.log.Error("recommendations", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgInternal, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"recommendations": capped(recs, recommend.MaxRecommendations)})
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood any `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgMoodRequired})
		return
	}
	mood, ok := req.Mood.(string)
	if !ok || mood == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgMoodRequired})
		return
	}

	themes, err := s.app.Recommender.Themes(r.Context(), mood)
	if err != nil {
		s.log.Error("themes", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgInternal, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"themes": capped(themes, recommend.MaxThemes)})
}

type aiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type aiRequest struct {
	Action string `json:"action"`

	// generateContent
	Type      llm.ContentType   `json:"type"`
	Theme     string            `json:"theme"`
	Duration  int               `json:"duration"`
	VoiceType catalog.VoiceType `json:"voiceType"`

	// generateRecommendations
	UserPreferences recommend.Input `json:"userPreferences"`

	// generateThemes
	Mood string `json:"mood"`

	// generateSoundDescription
	SoundName string `json:"soundName"`
	Category  string `json:"category"`
}

// handleAI dispatches to the chat-model generator. Credential and quota
// failures are reported; any other failure is answered with the fallback data.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, aiResponse{Error: msgInvalidParams})
		return
	}

	ctx := r.Context()
	gen := s.app.Generator
	var (
		data any
		err  error
	)
	switch req.Action {
	case "generateContent":
		data, err = gen.GenerateContent(ctx, llm.ContentRequest{
			Type:      req.Type,
			Theme:     req.Theme,
			Duration:  req.Duration,
			VoiceType: req.VoiceType,
		})
	case "generateRecommendations":
		data, err = gen.GenerateRecommendations(ctx, req.UserPreferences)
	case "generateThemes":
		data, err = gen.GenerateThemes(ctx, req.Mood)
	case "generateSoundDescription":
		data, err = gen.GenerateSoundDescription(ctx, req.SoundName, req.Category)
	default:
		writeJSON(w, http.StatusBadRequest, aiResponse{Error: msgUnknownAction})
		return
	}

	writeAIResult(w, r, req.Action, data, err)
}

// writeAIResult answers an /ai action. An unreachable model still yields the
// fallback data; refused credentials or quota and unexpected errors fail.
func writeAIResult(w http.ResponseWriter, r *http.Request, action string, data any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, aiResponse{Success: true, Data: data})
		return
	}
	log := logger.FromContext(r.Context())
	up, ok := apperr.As[*apperr.UpstreamError](err)
	switch {
	case ok && up.Kind == apperr.UpstreamUnavailable:
		writeJSON(w, http.StatusOK, aiResponse{Success: true, Data: data})
	case ok:
		log.Warn("ai request refused upstream", zap.String("action", action), zap.Stringer("kind", up.Kind))
		writeJSON(w, apperr.HTTPStatus(err), aiResponse{Error: up.Message})
	default:
		log.Error("ai request failed", zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, aiResponse{Error: msgInternal})
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func capped(list []string, max int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}
