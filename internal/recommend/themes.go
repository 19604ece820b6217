package recommend

import "strings"

type moodThemes struct {
	keyword string
	themes  []string
}

// moodTable is scanned in order; every keyword contained in the mood contributes.
var moodTable = []moodThemes{
	{"ansioso", []string{"Respiração Calmante", "Jardim Zen", "Ondas Tranquilas", "Floresta Silenciosa", "Paz Interior"}},
	{"estressado", []string{"Alívio Profundo", "Montanha Serena", "Chuva Suave", "Descanso Mental", "Libertação"}},
	{"nervoso", []string{"Estabilidade", "Terra Firme", "Respiração Profunda", "Segurança Interior", "Calma Absoluta"}},
	{"preocupado", []string{"Confiança", "Deixar Ir", "Presente Momento", "Aceitação", "Serenidade"}},

	{"triste", []string{"Acolhimento", "Luz Interior", "Esperança Renovada", "Coração Aquecido", "Cura Emocional"}},
	{"melancólico", []string{"Nostalgia Suave", "Memórias Douradas", "Abraço Cósmico", "Ternura", "Compreensão"}},
	{"solitário", []string{"Conexão Universal", "Companhia Interior", "Amor Próprio", "Presença Divina", "União"}},

	{"cansado", []string{"Descanso Profundo", "Recuperação Total", "Energia Renovada", "Sono Reparador", "Revitalização"}},
	{"exausto", []string{"Pausa Sagrada", "Restauração", "Alívio Completo", "Descanso Merecido", "Renovação"}},
	{"esgotado", []string{"Recarga Energética", "Pausa Necessária", "Cura do Cansaço", "Descanso Profundo", "Restauração"}},

	{"agitado", []string{"Aquietamento", "Mente Calma", "Serenidade Profunda", "Estabilidade", "Paz Mental"}},
	{"inquieto", []string{"Tranquilidade", "Mente Quieta", "Estabilidade Interior", "Calma Profunda", "Serenidade"}},
	{"hiperativo", []string{"Desaceleração", "Ritmo Natural", "Calma Interior", "Equilíbrio", "Tranquilidade"}},

	{"feliz", []string{"Gratidão", "Alegria Serena", "Contentamento", "Paz Radiante", "Harmonia"}},
	{"grato", []string{"Abundância", "Reconhecimento", "Bênçãos", "Apreciação", "Contentamento"}},
	{"esperançoso", []string{"Futuro Brilhante", "Possibilidades", "Confiança", "Otimismo Sereno", "Fé"}},

	{"confuso", []string{"Clareza Mental", "Direção Interior", "Sabedoria", "Discernimento", "Compreensão"}},
	{"perdido", []string{"Encontrar o Caminho", "Orientação Interior", "Propósito", "Direção", "Guia Interior"}},
	{"incerto", []string{"Confiança Interior", "Intuição", "Sabedoria Interna", "Certeza do Coração", "Fé Interior"}},
}

// secondaryTable is consulted only when moodTable has no match. The first
// group with a matching keyword wins. Matching is by substring, so "dor"
// also matches words such as "dormir".
var secondaryTable = []struct {
	keywords []string
	themes   []string
}{
	{[]string{"dor", "machucado"}, []string{"Cura Emocional", "Alívio da Dor", "Conforto", "Acolhimento", "Restauração"}},
	{[]string{"raiva", "irritado"}, []string{"Liberação da Raiva", "Perdão", "Paz Interior", "Compreensão", "Serenidade"}},
	{[]string{"medo", "assustado"}, []string{"Coragem", "Segurança", "Proteção", "Confiança", "Força Interior"}},
	{[]string{"amor", "carinho"}, []string{"Amor Próprio", "Compaixão", "Ternura", "Coração Aberto", "Bondade"}},
}

var universalThemes = []string{
	"Paz Interior", "Respiração Consciente", "Momento Presente",
	"Aceitação", "Serenidade", "Equilíbrio", "Harmonia",
	"Tranquilidade", "Calma Profunda", "Bem-estar",
}

// Themes returns up to MaxThemes distinct meditation themes for mood.
func Themes(mood string) []string {
	lower := strings.ToLower(mood)

	var matched []string
	for _, m := range moodTable {
		if strings.Contains(lower, m.keyword) {
			matched = append(matched, m.themes...)
		}
	}

	if len(matched) == 0 {
		matched = universalThemes
	secondary:
		for _, g := range secondaryTable {
			for _, kw := range g.keywords {
				if strings.Contains(lower, kw) {
					matched = g.themes
					break secondary
				}
			}
		}
	}

	return capList(dedupe(matched), MaxThemes)
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
