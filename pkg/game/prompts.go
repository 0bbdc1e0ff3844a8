package game

import "fmt"

// DefaultPlayerName is used when the player leaves the name blank.
const DefaultPlayerName = "Viajante"

// openingPromptTemplate asks the director for the three-scenario
// opening menu. It is sent to the model but never shown as a turn.
const openingPromptTemplate = `Iniciar Sistema V.O.I.D.
Quero um preview completo da experiência. Apresente 3 cenários iniciais altamente imersivos e distintos para eu escolher:
Um cenário Cyberpunk em uma Marília futurista (ano 2099).
Um cenário de Fantasia Dark estilo "Dark Souls".
Um cenário de Mistério/Terror psicológico atual.
Aguardo as descrições e o prompt visual para o "Menu Principal" do jogo.`

// OpeningPrompt interpolates the player's display name into the fixed
// opening prompt template.
func OpeningPrompt(playerName string) string {
	return fmt.Sprintf("%s\n\nNota: O nome do jogador é %q.", openingPromptTemplate, playerName)
}

// ConnectMessage is the synthetic first USER turn of a fresh game.
func ConnectMessage(playerName string) string {
	return fmt.Sprintf("Conectando Neural Link para %s...", playerName)
}
