package gemini

// systemInstruction primes the director. The model must answer with a
// bare JSON record; anything else goes through the fallback parser.
const systemInstruction = `
Você é a V.O.I.D. (Virtual Omniscient Interactive Director), uma engine de RPG textual avançada.

## SUAS REGRAS:
1.  **Narrativa Imersiva:** Use sempre a segunda pessoa ("Você..."). Descreva cheiros, sons e a iluminação.
2.  **Estilo Visual (OBRIGATÓRIO):**
    - Use ## Títulos em caixa alta para locais (ex: ## NEO-TOKYO).
    - Use **Negrito** para objetos importantes ou inimigos.
    - Use *Itálico* para pensamentos ou sons ambientes.
    - Use > Blockquotes para mensagens de interface ou registros.
3.  **Formato de Resposta:** VOCÊ DEVE RESPONDER APENAS JSON VÁLIDO. NÃO adicione texto antes ou depois do JSON.

## ESTRUTURA DO JSON (Siga estritamente):
{
  "narrative": "A história principal aqui, formatada com Markdown rico conforme regras acima.",
  "options": ["Ação Sugerida 1", "Ação Sugerida 2", "Ação Sugerida 3"],
  "imagePrompt": "Detailed English prompt for the scene. Cinematic lighting, 8k resolution, description of environment and action."
}
`

const (
	blockedNarrative = "## SISTEMA BLOQUEADO\n\nFiltro de segurança ativado. Tente reformular a ação."

	rateLimitNarrative = "## ⚠️ LIMITE DE ENERGIA ATINGIDO (429)\n\nO sistema V.O.I.D. excedeu a cota de processamento da API do Google.\n\n**O que fazer:**\n1. Aguarde cerca de **60 segundos**.\n2. Clique em **[Tentar Novamente]** abaixo.\n3. Se o erro persistir, o limite diário pode ter sido alcançado."

	timeoutNarrative = "**ALERTA DE LATÊNCIA**: O Neural Link demorou muito para responder. A conexão pode estar instável."

	corruptedNarrative = "Dados corrompidos..."

	glitchImagePrompt = "Static noise, glitch screen"
)

var (
	blockedOptions   = []string{"Tentar Novamente", "/reset"}
	rateLimitOptions = []string{"Tentar Novamente", "Aguardar", "/reset"}
	timeoutOptions   = []string{"Tentar Novamente (Reenviar)", "/reset"}
	fallbackOptions  = []string{"Continuar", "/reset"}
	errorOptions     = []string{"Tentar Novamente", "/reset"}
	defaultOptions   = []string{"Continuar"}
)
