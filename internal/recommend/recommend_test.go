package recommend

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestRecommendCapped(t *testing.T) {
	in := Input{
		FavoriteSound:  "Chuva na Floresta",
		AverageQuality: 2,
		TotalSessions:  25,
		BestDay:        "Sábado",
	}
	got := Recommend(in)
	if len(got) != MaxRecommendations {
		t.Fatalf("len = %d, want %d", len(got), MaxRecommendations)
	}
	want := []string{
		"Considere criar um ambiente mais escuro e silencioso para dormir.",
		"Experimente técnicas de respiração 4-7-8 antes de dormir.",
		"Evite telas pelo menos 1 hora antes de dormir.",
		"Sons de água funcionam bem para você. Experimente \"Ondas do Mar\" ou \"Gotas d'Água\".",
		"Você é um usuário dedicado! Considere explorar o gerador de conteúdo IA.",
		"Experimente criar mixes personalizados combinando seus sons favoritos.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend = %q\nwant %q", got, want)
	}
}

func TestRecommendThresholds(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		first string
	}{
		{"excellent", Input{AverageQuality: 4}, "Sua qualidade de sono está excelente! Continue com sua rotina atual."},
		{"good", Input{AverageQuality: 3.5}, "Experimente sons binaurais Delta Waves para sono mais profundo."},
		{"poor", Input{AverageQuality: 2.9}, "Considere criar um ambiente mais escuro e silencioso para dormir."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.in)
			if got[0] != tt.first {
				t.Errorf("first = %q, want %q", got[0], tt.first)
			}
		})
	}
}

func TestRecommendBestDay(t *testing.T) {
	got := Recommend(Input{AverageQuality: 4, TotalSessions: 12, BestDay: "Domingo"})
	want := "Domingo é seu melhor dia de sono. Analise o que faz diferente neste dia."
	if !contains(got, want) {
		t.Errorf("missing best-day line in %q", got)
	}

	for _, day := range []string{"", None} {
		for _, line := range Recommend(Input{AverageQuality: 4, BestDay: day}) {
			if strings.Contains(line, "melhor dia") {
				t.Errorf("best day %q produced %q", day, line)
			}
		}
	}
}

func TestRecommendSoundHintFirstMatchOnly(t *testing.T) {
	got := Recommend(Input{AverageQuality: 4, TotalSessions: 10, FavoriteSound: "Sussurros de Vento"})
	nature := "Você responde bem a sons da natureza. Experimente combiná-los com sussurros ASMR."
	asmr := "Vozes ASMR funcionam para você. Experimente histórias narradas para dormir."
	if !contains(got, nature) || contains(got, asmr) {
		t.Errorf("hints = %q", got)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	in := Input{AverageQuality: 4.2, TotalSessions: 12}
	a, b := Recommend(in), Recommend(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ: %q vs %q", a, b)
	}
	// 2 quality + 1 session line + 2 tips.
	if len(a) != 5 {
		t.Fatalf("len = %d, want 5", len(a))
	}
	if a[3] != generalTips[4] || a[4] != generalTips[5] {
		t.Errorf("tips = %q, %q", a[3], a[4])
	}
}

func TestTipsWrap(t *testing.T) {
	got := tips(7)
	if got[0] != generalTips[7] || got[1] != generalTips[0] {
		t.Errorf("tips(7) = %q", got)
	}
	if got := tips(-3); got[0] != generalTips[3] {
		t.Errorf("tips(-3) = %q", got)
	}
}

func TestThemesAnxious(t *testing.T) {
	got := Themes("Estou ANSIOSO hoje")
	want := []string{"Respiração Calmante", "Jardim Zen", "Ondas Tranquilas", "Floresta Silenciosa", "Paz Interior"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Themes = %q, want %q", got, want)
	}
}

func TestThemesMultipleKeywordsDedupedAndCapped(t *testing.T) {
	got := Themes("cansado e esgotado")
	want := []string{
		"Descanso Profundo", "Recuperação Total", "Energia Renovada", "Sono Reparador", "Revitalização",
		"Recarga Energética", "Pausa Necessária", "Cura do Cansaço",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Themes = %q\nwant %q", got, want)
	}
}

func TestThemesSecondary(t *testing.T) {
	tests := []struct{ mood, first string }{
		{"sinto raiva", "Liberação da Raiva"},
		{"com medo do escuro", "Coragem"},
		{"cheio de amor", "Amor Próprio"},
		{"quero dormir", "Cura Emocional"},
	}
	for _, tt := range tests {
		got := Themes(tt.mood)
		if len(got) != 5 || got[0] != tt.first {
			t.Errorf("Themes(%q) = %q, want first %q", tt.mood, got, tt.first)
		}
	}
}

func TestThemesFallback(t *testing.T) {
	got := Themes("xyz")
	if !reflect.DeepEqual(got, universalThemes[:MaxThemes]) {
		t.Errorf("Themes = %q", got)
	}
}

func TestLocalGenerator(t *testing.T) {
	var g Generator = Local{}
	recs, err := g.Recommendations(context.Background(), Input{AverageQuality: 5})
	if err != nil || len(recs) == 0 {
		t.Errorf("Recommendations = %q, %v", recs, err)
	}
	themes, err := g.Themes(context.Background(), "feliz")
	if err != nil || themes[0] != "Gratidão" {
		t.Errorf("Themes = %q, %v", themes, err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
