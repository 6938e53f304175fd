package settlement

import "strings"

// Resultados aceitos para um evento encerrado
const (
	WinnerHome = "home"
	WinnerAway = "away"
	WinnerDraw = "draw"
)

func validWinner(w string) bool {
	return w == WinnerHome || w == WinnerAway || w == WinnerDraw
}

// resolve decide se uma aposta pendente venceu, na ordem:
//  1. aposta legada com selection gravada: identidade direta com o vencedor
//  2. linha com selector atribuído na importação: identidade direta
//  3. fallback legado: nome da linha comparado (case-insensitive) com o time
//     da casa, o visitante ou o literal "draw"
//
// Linhas que não casam com nenhuma regra (totais, handicaps) perdem. Essa é
// uma limitação de escopo conhecida; mudar para anular exige decisão de produto
func resolve(winner, selection, selector, lineName, homeTeam, awayTeam string) bool {
	if selection != "" {
		return winner == selection
	}
	if selector != "" {
		return winner == selector
	}

	name := strings.ToLower(strings.TrimSpace(lineName))
	switch winner {
	case WinnerHome:
		return name == strings.ToLower(strings.TrimSpace(homeTeam))
	case WinnerAway:
		return name == strings.ToLower(strings.TrimSpace(awayTeam))
	case WinnerDraw:
		return name == "draw"
	}
	return false
}
