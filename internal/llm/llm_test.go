package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/recommend"
)

// chatServer answers every completion with the next reply in order.
func chatServer(t *testing.T, replies ...string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" || len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
			t.Errorf("request = %+v", req)
		}
		n := int(atomic.AddInt32(&calls, 1)) - 1
		reply := ""
		if n < len(replies) {
			reply = replies[n]
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func errorServer(t *testing.T, status int, code string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "nope", "type": "invalid_request_error", "code": code},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGen(url, key string) *Generator {
	return NewGenerator(NewClient(url, key, "gpt-4o", 5*time.Second), nil)
}

func TestGenerateContent(t *testing.T) {
	srv, calls := chatServer(t, "Respire fundo e relaxe.", `"Noite Estrelada"`)
	g := newGen(srv.URL, "test-key")

	got, err := g.GenerateContent(context.Background(), ContentRequest{Type: Sleep, Theme: "Estrelas", Duration: 10})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	want := Content{
		Title:     "Noite Estrelada",
		Content:   "Respire fundo e relaxe.",
		Duration:  "10 min",
		Category:  Sleep,
		VoiceType: catalog.Female,
	}
	if got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
	if atomic.LoadInt32(calls) != 2 {
		t.Errorf("calls = %d, want 2", atomic.LoadInt32(calls))
	}
}

func TestGenerateContentFallback(t *testing.T) {
	g := newGen(errorServer(t, http.StatusInternalServerError, "").URL, "test-key")
	got, err := g.GenerateContent(context.Background(), ContentRequest{Type: Meditation, Theme: "Mar", Duration: 5, VoiceType: catalog.Male})

	ue, ok := apperr.As[*apperr.UpstreamError](err)
	if !ok || ue.Kind != apperr.UpstreamUnavailable || ue.Status != 500 {
		t.Fatalf("err = %v", err)
	}
	if got.Title != "Mar - Relaxamento" || got.Content != fallbackNarration || got.Duration != "5 min" || got.VoiceType != catalog.Male {
		t.Errorf("fallback = %+v", got)
	}
}

func TestMissingKeyIsAuthError(t *testing.T) {
	srv, calls := chatServer(t)
	g := newGen(srv.URL, "")

	got, err := g.GenerateThemes(context.Background(), "triste")
	ue, ok := apperr.As[*apperr.UpstreamError](err)
	if !ok || ue.Kind != apperr.UpstreamAuth {
		t.Fatalf("err = %v, want auth error", err)
	}
	if apperr.HTTPStatus(err) != http.StatusUnauthorized {
		t.Errorf("status = %d", apperr.HTTPStatus(err))
	}
	if !reflect.DeepEqual(got, FallbackThemes) {
		t.Errorf("themes = %q", got)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("request sent without a key")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		code   string
		want   apperr.UpstreamKind
	}{
		{http.StatusUnauthorized, "invalid_api_key", apperr.UpstreamAuth},
		{http.StatusTooManyRequests, "insufficient_quota", apperr.UpstreamQuota},
		{http.StatusTooManyRequests, "rate_limit_exceeded", apperr.UpstreamQuota},
		{http.StatusBadGateway, "", apperr.UpstreamUnavailable},
	}
	for _, tt := range tests {
		g := newGen(errorServer(t, tt.status, tt.code).URL, "test-key")
		got, err := g.GenerateRecommendations(context.Background(), recommend.Input{AverageQuality: 3})
		ue, ok := apperr.As[*apperr.UpstreamError](err)
		if !ok || ue.Kind != tt.want {
			t.Errorf("%d/%s: err = %v, want kind %v", tt.status, tt.code, err, tt.want)
		}
		if !reflect.DeepEqual(got, FallbackRecommendations) {
			t.Errorf("%d: recommendations = %q", tt.status, got)
		}
	}
}

func TestGenerateRecommendationsSplitsLines(t *testing.T) {
	srv, _ := chatServer(t, "1. Durma cedo\n\n- Evite café\n• Use sons de chuva\n4. Extra")
	got, err := newGen(srv.URL, "test-key").GenerateRecommendations(context.Background(), recommend.Input{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Durma cedo", "Evite café", "Use sons de chuva"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmptyListOutputFallsBack(t *testing.T) {
	srv, _ := chatServer(t, "  \n \n", "\n- \n")
	r := NewRecommender(newGen(srv.URL, "test-key"))

	recs, err := r.Recommendations(context.Background(), recommend.Input{AverageQuality: 4, TotalSessions: 3})
	if err != nil || !reflect.DeepEqual(recs, FallbackRecommendations) {
		t.Errorf("Recommendations = %q, %v; want fallback", recs, err)
	}
	themes, err := r.Themes(context.Background(), "cansado")
	if err != nil || !reflect.DeepEqual(themes, FallbackThemes) {
		t.Errorf("Themes = %q, %v; want fallback", themes, err)
	}
}

func TestThemesAreDeduplicated(t *testing.T) {
	srv, _ := chatServer(t, "Paz\n1. Paz\nLuz\n- Paz\nMar")
	themes, err := NewRecommender(newGen(srv.URL, "test-key")).Themes(context.Background(), "calmo")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Paz", "Luz", "Mar"}; !reflect.DeepEqual(themes, want) {
		t.Errorf("themes = %q, want %q", themes, want)
	}
}

func TestUnreachableUpstreamIsUnavailable(t *testing.T) {
	g := newGen("http://127.0.0.1:1", "test-key")
	got, err := g.GenerateThemes(context.Background(), "triste")
	ue, ok := apperr.As[*apperr.UpstreamError](err)
	if !ok || ue.Kind != apperr.UpstreamUnavailable {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if !reflect.DeepEqual(got, FallbackThemes) {
		t.Errorf("themes = %q", got)
	}
}

func TestGenerateSoundDescription(t *testing.T) {
	srv, _ := chatServer(t, "")
	got, err := newGen(srv.URL, "test-key").GenerateSoundDescription(context.Background(), "Chuva Forte", "nature")
	if err != nil || got != "Som relaxante de chuva forte" {
		t.Errorf("got %q, %v", got, err)
	}

	srv, _ = chatServer(t, "Gotas suaves que acalmam a mente")
	got, _ = newGen(srv.URL, "test-key").GenerateSoundDescription(context.Background(), "Chuva", "nature")
	if got != "Gotas suaves que acalmam a mente" {
		t.Errorf("got %q", got)
	}
}

func TestRecommenderNeverFails(t *testing.T) {
	r := NewRecommender(newGen(errorServer(t, http.StatusTooManyRequests, "insufficient_quota").URL, "test-key"))
	var _ recommend.Generator = r

	recs, err := r.Recommendations(context.Background(), recommend.Input{})
	if err != nil || !reflect.DeepEqual(recs, FallbackRecommendations) {
		t.Errorf("Recommendations = %q, %v", recs, err)
	}
	themes, err := r.Themes(context.Background(), "feliz")
	if err != nil || !reflect.DeepEqual(themes, FallbackThemes) {
		t.Errorf("Themes = %q, %v", themes, err)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct{ in, want string }{
		{`  "Paz"  `, "Paz"},
		{"<think>hmm</think>\nCalma", "Calma"},
		{"Serenidade", "Serenidade"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := stripMarker("12) Dormir bem"); got != "Dormir bem" {
		t.Errorf("stripMarker = %q", got)
	}
	if got := stripMarker("2024 foi bom"); !strings.HasPrefix(got, "2024") {
		t.Errorf("stripMarker dropped a leading number: %q", got)
	}
}
