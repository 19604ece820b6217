package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/catalog"
	"github.com/satindergrewal/asmrflow/internal/logger"
	"github.com/satindergrewal/asmrflow/internal/recommend"
)

// ContentType is the kind of guided session to write.
type ContentType string

const (
	Sleep      ContentType = "sleep"
	Relaxation ContentType = "relaxation"
	Breathing  ContentType = "breathing"
	Meditation ContentType = "meditation"
)

func (t ContentType) label() string {
	switch t {
	case Sleep:
		return "história para dormir"
	case Breathing:
		return "sessão de respiração guiada"
	case Meditation:
		return "meditação guiada"
	default:
		return "sessão de relaxamento"
	}
}

func (t ContentType) titleLabel() string {
	if t == Breathing {
		return "sessão de respiração"
	}
	return t.label()
}

// ContentRequest describes a story or meditation to generate.
type ContentRequest struct {
	Type      ContentType       `json:"type"`
	Theme     string            `json:"theme"`
	Duration  int               `json:"duration"` // minutes
	VoiceType catalog.VoiceType `json:"voiceType"`
}

// Content is a generated narration.
type Content struct {
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Duration  string            `json:"duration"`
	Category  ContentType       `json:"category"`
	VoiceType catalog.VoiceType `json:"voiceType"`
}

const fallbackNarration = "Respire profundamente... inspire pelo nariz... expire pela boca... " +
	"Sinta seu corpo relaxando completamente... cada músculo se soltando... " +
	"Deixe todos os pensamentos fluírem como nuvens no céu... " +
	"Você está em um lugar seguro e tranquilo... permita-se descansar..."

// FallbackRecommendations is returned when recommendation generation fails.
var FallbackRecommendations = []string{
	"Experimente sons binaurais para sono mais profundo",
	"Mantenha uma rotina consistente de horários",
	"Combine respiração guiada com seus sons favoritos",
}

// FallbackThemes is returned when theme generation fails.
var FallbackThemes = []string{
	"Paz Interior",
	"Respiração Calma",
	"Natureza Serena",
	"Mente Tranquila",
	"Energia Positiva",
}

const (
	maxRecommendations = 3
	maxThemes          = 5
)

const contentSystemPrompt = "Você é um especialista em mindfulness, meditação e terapia do sono. " +
	"Crie conteúdo relaxante e terapêutico em português brasileiro."

const titleSystemPrompt = "Crie títulos curtos e atraentes para sessões de relaxamento e meditação."

const descriptionSystemPrompt = "Crie descrições curtas e atraentes para sons ASMR e de relaxamento."

const recommendationSystemPrompt = "Você é um especialista em sono e relaxamento. " +
	"Forneça recomendações personalizadas baseadas nos dados do usuário."

const themeSystemPrompt = "Sugira temas de meditação e relaxamento baseados no estado emocional do usuário."

// Generator writes relaxation text with a chat model. Every method returns a
// usable fallback value alongside any error.
type Generator struct {
	client *Client
	log    *logger.Logger
}

func NewGenerator(client *Client, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{client: client, log: log.Named("llm")}
}

// GenerateContent writes a narration and a short title for req.
func (g *Generator) GenerateContent(ctx context.Context, req ContentRequest) (Content, error) {
	if req.VoiceType == "" {
		req.VoiceType = catalog.Female
	}
	out := Content{
		Duration:  fmt.Sprintf("%d min", req.Duration),
		Category:  req.Type,
		VoiceType: req.VoiceType,
	}

	voice := "feminina"
	if req.VoiceType == catalog.Male {
		voice = "masculina"
	}
	goal := "reduzir ansiedade e estresse"
	if req.Type == Sleep {
		goal = "induzir o sono"
	}
	prompt := fmt.Sprintf(`Crie uma %s com o tema "%s".

Duração aproximada: %d minutos
Voz: %s

Requisitos:
- Linguagem calma, suave e relaxante
- Ritmo lento e pausado
- Instruções claras e simples
- Foco na respiração e relaxamento
- Adequado para %s

Retorne APENAS o texto da narração, sem títulos ou formatação extra.
O texto deve ser fluido e natural para ser lido por síntese de voz.`,
		req.Type.label(), req.Theme, req.Duration, voice, goal)

	text, err := g.client.Chat(ctx, contentSystemPrompt, prompt, Options{MaxTokens: 1500, Temperature: 0.7})
	if err != nil {
		g.log.Warn("content generation failed", zap.String("theme", req.Theme), zap.Error(err))
		out.Title = req.Theme + " - Relaxamento"
		out.Content = fallbackNarration
		return out, err
	}
	out.Content = cleanText(text)

	titlePrompt := fmt.Sprintf("Crie um título curto e atraente para uma %s com tema \"%s\". Máximo 4 palavras.",
		req.Type.titleLabel(), req.Theme)
	title, err := g.client.Chat(ctx, titleSystemPrompt, titlePrompt, Options{MaxTokens: 50, Temperature: 0.8})
	if err != nil {
		g.log.Warn("title generation failed", zap.String("theme", req.Theme), zap.Error(err))
		out.Title = req.Theme + " - Relaxamento"
		out.Content = fallbackNarration
		return out, err
	}
	out.Title = strings.ReplaceAll(cleanText(title), `"`, "")
	if out.Title == "" {
		out.Title = req.Theme
	}
	return out, nil
}

// GenerateSoundDescription writes a one-line description of a sound.
func (g *Generator) GenerateSoundDescription(ctx context.Context, soundName, category string) (string, error) {
	fallback := "Som relaxante de " + strings.ToLower(soundName)
	prompt := fmt.Sprintf("Crie uma descrição curta (máximo 60 caracteres) para o som \"%s\" da categoria \"%s\".\n"+
		"Foque nos benefícios relaxantes e na experiência sensorial.", soundName, category)

	text, err := g.client.Chat(ctx, descriptionSystemPrompt, prompt, Options{MaxTokens: 100, Temperature: 0.7})
	if err != nil {
		g.log.Warn("description generation failed", zap.String("sound", soundName), zap.Error(err))
		return fallback, err
	}
	if text = cleanText(text); text == "" {
		return fallback, nil
	}
	return text, nil
}

// GenerateRecommendations returns up to three suggestions for the user's sleep summary.
func (g *Generator) GenerateRecommendations(ctx context.Context, prefs recommend.Input) ([]string, error) {
	prompt := fmt.Sprintf(`Baseado nos dados do usuário:
- Som favorito: %s
- Qualidade média do sono: %g/5
- Total de sessões: %g
- Melhor dia: %s

Forneça 3 recomendações específicas para melhorar o sono e relaxamento.
Cada recomendação deve ter no máximo 80 caracteres.`,
		orNone(prefs.FavoriteSound), prefs.AverageQuality, prefs.TotalSessions, orNone(prefs.BestDay))

	text, err := g.client.Chat(ctx, recommendationSystemPrompt, prompt, Options{MaxTokens: 300, Temperature: 0.7})
	if err != nil {
		g.log.Warn("recommendation generation failed", zap.Error(err))
		return clone(FallbackRecommendations), err
	}
	list := splitLines(text, maxRecommendations)
	if len(list) == 0 {
		g.log.Warn("recommendation generation returned nothing usable")
		return clone(FallbackRecommendations), nil
	}
	return list, nil
}

// GenerateThemes returns up to five meditation themes for mood.
func (g *Generator) GenerateThemes(ctx context.Context, mood string) ([]string, error) {
	prompt := fmt.Sprintf("O usuário está se sentindo: \"%s\".\n"+
		"Sugira 5 temas específicos para meditação/relaxamento que ajudem com esse estado.\n"+
		"Cada tema deve ter no máximo 3 palavras.", mood)

	text, err := g.client.Chat(ctx, themeSystemPrompt, prompt, Options{MaxTokens: 200, Temperature: 0.8})
	if err != nil {
		g.log.Warn("theme generation failed", zap.String("mood", mood), zap.Error(err))
		return clone(FallbackThemes), err
	}
	list := splitLines(text, maxThemes)
	if len(list) == 0 {
		g.log.Warn("theme generation returned nothing usable", zap.String("mood", mood))
		return clone(FallbackThemes), nil
	}
	return list, nil
}

// Recommender adapts a Generator to recommend.Generator. Failures are logged
// by the Generator and replaced by the fixed fallback lists.
type Recommender struct {
	gen *Generator
}

func NewRecommender(gen *Generator) *Recommender {
	return &Recommender{gen: gen}
}

func (r *Recommender) Recommendations(ctx context.Context, in recommend.Input) ([]string, error) {
	list, _ := r.gen.GenerateRecommendations(ctx, in)
	return list, nil
}

func (r *Recommender) Themes(ctx context.Context, mood string) ([]string, error) {
	list, _ := r.gen.GenerateThemes(ctx, mood)
	return list, nil
}

func orNone(s string) string {
	if s == "" {
		return recommend.None
	}
	return s
}

func clone(list []string) []string {
	return append([]string(nil), list...)
}
