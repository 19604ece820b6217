// Package recommend maps sleep statistics and mood text to short lists of
// suggestions.
package recommend

import (
	"context"
	"math"
	"strings"
)

const (
	MaxRecommendations = 6
	MaxThemes          = 8
)

// None marks an absent favourite sound or best day.
const None = "Nenhum"

// Input is the sleep summary recommendations are derived from.
type Input struct {
	FavoriteSound  string  `json:"favoriteSound,omitempty"`
	AverageQuality float64 `json:"averageQuality"`
	TotalSessions  float64 `json:"totalSessions"`
	BestDay        string  `json:"bestDay,omitempty"`
}

// Generator produces recommendations and themes. Implementations never return
// more than MaxRecommendations or MaxThemes entries.
type Generator interface {
	Recommendations(ctx context.Context, in Input) ([]string, error)
	Themes(ctx context.Context, mood string) ([]string, error)
}

// Local is the table-driven Generator. It never fails.
type Local struct{}

func (Local) Recommendations(_ context.Context, in Input) ([]string, error) {
	return Recommend(in), nil
}

func (Local) Themes(_ context.Context, mood string) ([]string, error) {
	return Themes(mood), nil
}

var generalTips = []string{
	"Mantenha seu quarto entre 18-22°C para melhor qualidade de sono.",
	"Experimente um banho morno 1-2 horas antes de dormir.",
	"Considere usar uma máscara de olhos para bloquear completamente a luz.",
	"Pratique gratidão antes de dormir - pense em 3 coisas boas do seu dia.",
	"Evite cafeína após 14h para não interferir no sono.",
	"Experimente aromaterapia com lavanda ou camomila.",
	"Mantenha um diário de sono para identificar padrões.",
	"Considere exercícios leves de alongamento antes de dormir.",
}

var soundHints = []struct {
	keywords []string
	line     string
}{
	{[]string{"Chuva", "Água"}, "Sons de água funcionam bem para você. Experimente \"Ondas do Mar\" ou \"Gotas d'Água\"."},
	{[]string{"Delta", "Theta"}, "Sons binaurais são eficazes para você. Explore outras frequências como Alpha Waves."},
	{[]string{"Vento", "Floresta"}, "Você responde bem a sons da natureza. Experimente combiná-los com sussurros ASMR."},
	{[]string{"Sussurros", "ASMR"}, "Vozes ASMR funcionam para você. Experimente histórias narradas para dormir."},
}

// Recommend builds up to MaxRecommendations lines from quality, favourite
// sound, session count and best day, followed by two general tips chosen by
// the session count.
func Recommend(in Input) []string {
	var out []string

	switch {
	case in.AverageQuality >= 4:
		out = append(out,
			"Sua qualidade de sono está excelente! Continue com sua rotina atual.",
			"Considere compartilhar suas técnicas com amigos que têm dificuldades para dormir.")
	case in.AverageQuality >= 3:
		out = append(out,
			"Experimente sons binaurais Delta Waves para sono mais profundo.",
			"Tente manter um horário mais consistente para dormir.")
	default:
		out = append(out,
			"Considere criar um ambiente mais escuro e silencioso para dormir.",
			"Experimente técnicas de respiração 4-7-8 antes de dormir.",
			"Evite telas pelo menos 1 hora antes de dormir.")
	}

	if fav := in.FavoriteSound; fav != "" {
	hints:
		for _, h := range soundHints {
			for _, kw := range h.keywords {
				if strings.Contains(fav, kw) {
					out = append(out, h.line)
					break hints
				}
			}
		}
	}

	switch {
	case in.TotalSessions >= 20:
		out = append(out,
			"Você é um usuário dedicado! Considere explorar o gerador de conteúdo IA.",
			"Experimente criar mixes personalizados combinando seus sons favoritos.")
	case in.TotalSessions >= 10:
		out = append(out, "Você está desenvolvendo uma boa rotina. Tente usar o timer de sono regularmente.")
	default:
		out = append(out,
			"Continue explorando diferentes sons para encontrar o que funciona melhor.",
			"Experimente usar o app por pelo menos 20 minutos antes de dormir.")
	}

	if in.BestDay != "" && in.BestDay != None {
		out = append(out,
			in.BestDay+" é seu melhor dia de sono. Analise o que faz diferente neste dia.",
			"Tente replicar a rotina do seu melhor dia em outros dias da semana.")
	}

	out = append(out, tips(in.TotalSessions)...)
	return capList(out, MaxRecommendations)
}

// tips picks two consecutive general tips starting at sessions mod len.
func tips(sessions float64) []string {
	n := len(generalTips)
	i := 0
	if !math.IsNaN(sessions) && !math.IsInf(sessions, 0) {
		i = int(math.Mod(math.Abs(math.Floor(sessions)), float64(n)))
	}
	return []string{generalTips[i], generalTips[(i+1)%n]}
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
